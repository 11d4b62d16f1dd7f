package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration. An
// empty path searches config.yml then config.yaml in the working
// directory, and finding neither is not an error: everything has a
// default and credentials can come entirely from the environment. A
// non-empty path names an explicit file, which must exist.
func LoadAppConfig(path string) error {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	var data []byte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		data = b
	} else {
		for _, p := range []string{"config.yml", "config.yaml"} {
			if b, err := os.ReadFile(p); err == nil {
				data = b
				break
			}
		}
	}

	var cfg AppConfig
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	Config = cfg
	return nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("STRAVA_CLIENT_ID"); v != "" {
		cfg.Strava.ClientID = v
	}
	if v := os.Getenv("STRAVA_CLIENT_SECRET"); v != "" {
		cfg.Strava.ClientSecret = v
	}
	if v := os.Getenv("STRAVA_REFRESH_TOKEN"); v != "" {
		cfg.Strava.RefreshToken = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Store.Path == "" {
		cfg.Store.Path = "activities.geojson"
	}
	if cfg.Strava.BaseURL == "" {
		cfg.Strava.BaseURL = "https://www.strava.com/api/v3"
	}
	if cfg.Strava.TokenURL == "" {
		cfg.Strava.TokenURL = "https://www.strava.com/oauth/token"
	}
	if cfg.Strava.PerPage == 0 {
		cfg.Strava.PerPage = 100
	}
	if cfg.Heatmap.Output == "" {
		cfg.Heatmap.Output = "heatmap.html"
	}
	if cfg.Heatmap.StaticOutput == "" {
		cfg.Heatmap.StaticOutput = "heatmap_static.png"
	}
	if cfg.Heatmap.Scheme == "" {
		cfg.Heatmap.Scheme = "default"
	}
	if cfg.Heatmap.Radius == 0 {
		cfg.Heatmap.Radius = 2
	}
	if cfg.Heatmap.Blur == 0 {
		cfg.Heatmap.Blur = 1
	}
	if cfg.Heatmap.MinOpacity == 0 {
		cfg.Heatmap.MinOpacity = 0.4
	}
	if cfg.Heatmap.Zoom == 0 {
		cfg.Heatmap.Zoom = 11
	}
	if cfg.Stats.Output == "" {
		cfg.Stats.Output = "stats.json"
	}
}

// MissingCredentials names the Strava credentials that are not set.
// An empty result means the refresh-token grant can be attempted.
func (s StravaConfig) MissingCredentials() []string {
	var missing []string
	if s.ClientID == "" {
		missing = append(missing, "STRAVA_CLIENT_ID")
	}
	if s.ClientSecret == "" {
		missing = append(missing, "STRAVA_CLIENT_SECRET")
	}
	if s.RefreshToken == "" {
		missing = append(missing, "STRAVA_REFRESH_TOKEN")
	}
	return missing
}

// CredentialsError returns a descriptive error when credentials are
// incomplete, nil otherwise.
func (s StravaConfig) CredentialsError() error {
	if missing := s.MissingCredentials(); len(missing) > 0 {
		return fmt.Errorf("missing credentials for token refresh: need %s", strings.Join(missing, ", "))
	}
	return nil
}
