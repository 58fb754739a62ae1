// Package config loads selector settings from defaults, an optional TOML
// file, ARTIC_* environment variables, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sternrassler/artic-selector/pkg/catalog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API     APIConfig
	Redis   RedisConfig
	Log     LogConfig
	Metrics MetricsConfig
}

// APIConfig holds catalog API settings.
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	PageSize  int           `mapstructure:"page_size"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// RedisConfig enables response revalidation and rate limit tracking when URL is set.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
	File   string `mapstructure:"file"`
}

// MetricsConfig holds the /metrics listener address. Empty disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Flag names bound to config keys.
var flagKeys = map[string]string{
	"base-url":     "api.base_url",
	"page-size":    "api.page_size",
	"user-agent":   "api.user_agent",
	"timeout":      "api.timeout",
	"redis-url":    "redis.url",
	"log-level":    "log.level",
	"log-pretty":   "log.pretty",
	"log-file":     "log.file",
	"metrics-addr": "metrics.addr",
}

// Load reads configuration from defaults, a TOML file, env vars with prefix
// ARTIC_, and any of flags that were set. path selects the config file; when
// empty, $ARTIC_CONFIG or ~/.config/artic-selector/config.toml is used if present.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", catalog.DefaultBaseURL)
	v.SetDefault("api.page_size", catalog.DefaultPageSize)
	v.SetDefault("api.user_agent", "artic-selector/0.1.0")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("redis.url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.file", "")
	v.SetDefault("metrics.addr", "")

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv("ARTIC_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "artic-selector"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ARTIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the settings the catalog client cannot work without.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.UserAgent == "" {
		return fmt.Errorf("api.user_agent is required")
	}
	if c.API.PageSize < 1 || c.API.PageSize > catalog.MaxPageSize {
		return fmt.Errorf("api.page_size must be between 1 and %d (got %d)", catalog.MaxPageSize, c.API.PageSize)
	}
	return nil
}

// CatalogConfig converts the API settings to a catalog client configuration.
func (c Config) CatalogConfig() catalog.Config {
	cfg := catalog.DefaultConfig(c.API.UserAgent)
	cfg.BaseURL = c.API.BaseURL
	cfg.PageSize = c.API.PageSize
	if c.API.Timeout > 0 {
		cfg.Timeout = c.API.Timeout
	}
	return cfg
}
