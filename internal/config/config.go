// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigDir is the default configuration directory
	DefaultConfigDir = ".nearspot/configs"
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "config.json"
)

// Load reads configuration from ~/.nearspot/configs/config.json
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, DefaultConfigDir)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(configPath)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults
			return loadFromDefaults(v)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromPath loads configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Location sampling defaults
	v.SetDefault("location.poll_interval_seconds", 3)

	// Recommendation cycle defaults
	v.SetDefault("recommend.interval_seconds", 600)
	v.SetDefault("recommend.free_daily_limit", 2)
	v.SetDefault("recommend.fade_in_ms", 300)
	v.SetDefault("recommend.hold_ms", 2000)
	v.SetDefault("recommend.fade_out_ms", 300)

	// Background notification defaults (20s x 50 = ~16 minute reminder window)
	v.SetDefault("notifications.burst_count", 50)
	v.SetDefault("notifications.burst_interval_seconds", 20)

	// Gemini defaults
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.api_key_env", "GEMINI_API_KEY")

	// Database defaults
	v.SetDefault("database.type", "sqlite")
	homeDir, _ := os.UserHomeDir()
	v.SetDefault("database.sqlite_path", filepath.Join(homeDir, ".nearspot/db/nearspot.db"))

	// Rewarded-ad defaults
	v.SetDefault("ads.enabled", false)
	v.SetDefault("ads.close_reload_seconds", 1)
	v.SetDefault("ads.error_reload_seconds", 5)
}

// loadFromDefaults creates a config from default values
func loadFromDefaults(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Location.PollInterval < 1 {
		return fmt.Errorf("location.poll_interval_seconds must be at least 1, got %d", cfg.Location.PollInterval)
	}

	if cfg.Recommend.Interval < 1 {
		return fmt.Errorf("recommend.interval_seconds must be at least 1, got %d", cfg.Recommend.Interval)
	}
	if cfg.Recommend.FreeDailyLimit < 1 {
		return fmt.Errorf("recommend.free_daily_limit must be at least 1, got %d", cfg.Recommend.FreeDailyLimit)
	}
	if cfg.Recommend.FadeInMs < 0 || cfg.Recommend.HoldMs < 0 || cfg.Recommend.FadeOutMs < 0 {
		return fmt.Errorf("recommend display durations must not be negative")
	}

	if cfg.Notifications.BurstCount < 1 {
		return fmt.Errorf("notifications.burst_count must be at least 1, got %d", cfg.Notifications.BurstCount)
	}
	if cfg.Notifications.BurstInterval < 1 {
		return fmt.Errorf("notifications.burst_interval_seconds must be at least 1, got %d", cfg.Notifications.BurstInterval)
	}

	if cfg.Gemini.Model == "" {
		return fmt.Errorf("gemini.model is required")
	}
	if cfg.Gemini.BaseURL == "" {
		return fmt.Errorf("gemini.base_url is required")
	}

	// Validate database type
	if cfg.Database.Type != "sqlite" && cfg.Database.Type != "postgres" {
		return fmt.Errorf("database.type must be 'sqlite' or 'postgres', got '%s'", cfg.Database.Type)
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required when type is 'sqlite'")
	}
	if cfg.Database.Type == "postgres" && cfg.Database.PostgresDSN == "" {
		return fmt.Errorf("database.postgres_dsn is required when type is 'postgres'")
	}

	if cfg.Ads.Enabled {
		if cfg.Ads.CloseReloadSeconds < 1 {
			return fmt.Errorf("ads.close_reload_seconds must be at least 1, got %d", cfg.Ads.CloseReloadSeconds)
		}
		if cfg.Ads.ErrorReloadSeconds < 1 {
			return fmt.Errorf("ads.error_reload_seconds must be at least 1, got %d", cfg.Ads.ErrorReloadSeconds)
		}
	}

	return nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, DefaultConfigDir)
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Location: LocationConfig{
			PollInterval: 3,
		},
		Recommend: RecommendConfig{
			Interval:       600,
			FreeDailyLimit: 2,
			FadeInMs:       300,
			HoldMs:         2000,
			FadeOutMs:      300,
		},
		Notifications: NotificationConfig{
			BurstCount:    50,
			BurstInterval: 20,
		},
		Gemini: GeminiConfig{
			BaseURL:   "https://generativelanguage.googleapis.com/v1beta",
			Model:     "gemini-2.5-flash",
			APIKeyEnv: "GEMINI_API_KEY",
		},
		Database: DatabaseConfig{
			Type:       "sqlite",
			SQLitePath: filepath.Join(homeDir, ".nearspot/db/nearspot.db"),
		},
		Ads: AdsConfig{
			Enabled:            false,
			CloseReloadSeconds: 1,
			ErrorReloadSeconds: 5,
		},
	}
}
