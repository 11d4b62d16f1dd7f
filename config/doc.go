// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Strava credentials may also come from the environment (or a .env file),
// which takes precedence over the file.
package config
