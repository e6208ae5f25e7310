// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Session SessionConfig `yaml:"session"`
	Connect ConnectConfig `yaml:"connect"`
	Browser BrowserConfig `yaml:"browser"`
	Storage StorageConfig `yaml:"storage"`
	Player  PlayerConfig  `yaml:"player"`
	Logger  LoggerConfig  `yaml:"logger"`
}

// StoreConfig represents persistence configuration.
type StoreConfig struct {
	Path string `yaml:"path" default:"foplraudio-state.json"`
}

// SessionConfig represents session controller configuration.
type SessionConfig struct {
	TickIntervalMs int `yaml:"tick_interval_ms" default:"500" validate:"gte=100,lte=10000"`
}

// ConnectConfig represents the transport connection retry policy.
// RetryEnabled is a pointer so an explicit false in the file survives
// the defaults pass, which only fills zero values.
type ConnectConfig struct {
	RetryEnabled *bool `yaml:"retry_enabled" default:"true"`
	MaxAttempts  int   `yaml:"max_attempts" default:"5" validate:"gte=1,lte=100"`
	BackoffMs    int   `yaml:"backoff_ms" default:"500" validate:"gte=10,lte=60000"`
}

// RetryOn reports whether automatic reconnection is enabled.
func (c ConnectConfig) RetryOn() bool {
	return c.RetryEnabled == nil || *c.RetryEnabled
}

// BrowserConfig represents folder browsing configuration.
type BrowserConfig struct {
	AudioExtensions []string `yaml:"audio_extensions"`
}

// StorageConfig represents the storage provider configuration.
type StorageConfig struct {
	Type     string         `yaml:"type" default:"localfs"`
	Settings map[string]any `yaml:"settings"`
}

// PlayerConfig represents the in-process transport configuration.
type PlayerConfig struct {
	DefaultTrackDurationSec int `yaml:"default_track_duration_sec" default:"180" validate:"gte=1"`
}

// LoggerConfig represents logging configuration.
type LoggerConfig struct {
	Output string `yaml:"output" default:"stdout"`
	Level  string `yaml:"level" default:"info"`
	File   string `yaml:"file"`
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults, so the player runs without any configuration at all.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("FOPLR_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("FOPLR_LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("FOPLR_STORAGE_ROOT"); v != "" {
		if c.Storage.Settings == nil {
			c.Storage.Settings = make(map[string]any)
		}
		c.Storage.Settings["root"] = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
