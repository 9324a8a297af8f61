// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

// Config represents the complete agent configuration
type Config struct {
	Location      LocationConfig     `mapstructure:"location"`
	Recommend     RecommendConfig    `mapstructure:"recommend"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Gemini        GeminiConfig       `mapstructure:"gemini"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Ads           AdsConfig          `mapstructure:"ads"`
}

// LocationConfig holds position sampling settings
type LocationConfig struct {
	PollInterval int `mapstructure:"poll_interval_seconds"`
}

// RecommendConfig holds recommendation cycle settings
type RecommendConfig struct {
	Interval       int `mapstructure:"interval_seconds"` // period between recommendation cycles
	FreeDailyLimit int `mapstructure:"free_daily_limit"`
	FadeInMs       int `mapstructure:"fade_in_ms"`  // result display: fade in
	HoldMs         int `mapstructure:"hold_ms"`     // result display: hold
	FadeOutMs      int `mapstructure:"fade_out_ms"` // result display: fade out
}

// NotificationConfig holds background notification burst settings
type NotificationConfig struct {
	BurstCount    int    `mapstructure:"burst_count"`
	BurstInterval int    `mapstructure:"burst_interval_seconds"`
	MessagesPath  string `mapstructure:"messages_path"` // optional YAML message pool override
}

// GeminiConfig holds settings for the generative recommendation service
type GeminiConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	APIKeyEnv string `mapstructure:"api_key_env"` // environment variable name for API key
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Type        string `mapstructure:"type"` // "sqlite" or "postgres"
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// AdsConfig holds rewarded-ad settings for the quota unlock path
type AdsConfig struct {
	Enabled            bool `mapstructure:"enabled"`
	CloseReloadSeconds int  `mapstructure:"close_reload_seconds"` // reload delay after a shown ad closes
	ErrorReloadSeconds int  `mapstructure:"error_reload_seconds"` // reload delay after a load/show error
}
