package config

// StoreConfig contains the persisted feature-collection location
type StoreConfig struct {
	Path string `yaml:"path"`
}

// StravaConfig contains Strava API credentials and endpoints
type StravaConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	BaseURL      string `yaml:"baseURL" validate:"omitempty,url"`
	TokenURL     string `yaml:"tokenURL" validate:"omitempty,url"`
	PerPage      int    `yaml:"perPage" validate:"gte=0,lte=200"`
}

// HeatmapConfig contains rendering parameters for the heatmap artifacts
type HeatmapConfig struct {
	Output       string  `yaml:"output"`
	StaticOutput string  `yaml:"staticOutput"`
	Scheme       string  `yaml:"scheme"`
	Radius       int     `yaml:"radius" validate:"gte=0"`
	Blur         int     `yaml:"blur" validate:"gte=0"`
	MinOpacity   float64 `yaml:"minOpacity" validate:"gte=0,lte=1"`
	Zoom         int     `yaml:"zoom" validate:"gte=0,lte=20"`
	CenterLat    float64 `yaml:"centerLat" validate:"gte=-90,lte=90"`
	CenterLon    float64 `yaml:"centerLon" validate:"gte=-180,lte=180"`
}

// StatsConfig contains the statistics output location
type StatsConfig struct {
	Output string `yaml:"output"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Store   StoreConfig   `yaml:"store"`
	Strava  StravaConfig  `yaml:"strava"`
	Heatmap HeatmapConfig `yaml:"heatmap"`
	Stats   StatsConfig   `yaml:"stats"`
}
