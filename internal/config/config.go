// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/harrandt/pricewise/internal/common"
)

// Config holds the runtime settings of the pricing engine. All values have
// defaults; the config file and PRICEWISE_* environment variables override
// them.
type Config struct {
	DatabasePath       string
	LogLevel           string
	LogFormat          string
	InsightsWindowDays int
}

// Load reads configuration from ~/.config/pricewise/config.yaml and the
// environment. It follows this precedence:
// 1. PRICEWISE_ environment variables
// 2. Config file values
// 3. Defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ExpandPath("~/.config/pricewise"))
	v.AddConfigPath(".")
	v.SetEnvPrefix("PRICEWISE")
	v.AutomaticEnv()

	v.SetDefault("database.path", "~/.local/share/pricewise/pricewise.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("insights.window_days", 30)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		DatabasePath:       ExpandPath(v.GetString("database.path")),
		LogLevel:           v.GetString("logging.level"),
		LogFormat:          v.GetString("logging.format"),
		InsightsWindowDays: v.GetInt("insights.window_days"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database path", common.ErrMissingConfig)
	}
	if !filepath.IsAbs(c.DatabasePath) && c.DatabasePath != ":memory:" {
		abs, err := filepath.Abs(c.DatabasePath)
		if err != nil {
			return fmt.Errorf("%w: database path %q: %v", common.ErrInvalidConfig, c.DatabasePath, err)
		}
		c.DatabasePath = abs
	}
	if c.InsightsWindowDays <= 0 {
		return fmt.Errorf("%w: insights window must be positive, got %d", common.ErrInvalidConfig, c.InsightsWindowDays)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("%w: unknown log format %q", common.ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
