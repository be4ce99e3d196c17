// Package config handles loading and managing application configuration
// from YAML files, an optional .env file and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/qrstudio/qrstudio/store"
)

// Notifications controls the transient notification feed of the web form.
type Notifications struct {
	Capacity int      `yaml:"capacity"`
	TTL      Duration `yaml:"ttl"`
}

// Config holds all application configuration values.
type Config struct {
	Port            int                 `yaml:"port"`
	Bind            string              `yaml:"bind"`
	LogLevel        string              `yaml:"log_level"`
	OutputDir       string              `yaml:"output_dir"`
	Filename        string              `yaml:"filename"`
	WebhookURL      string              `yaml:"webhook_url"`
	ShutdownTimeout Duration            `yaml:"shutdown_timeout"`
	Defaults        store.Configuration `yaml:"defaults"`
	SizeBounds      store.SizeBounds    `yaml:"size_bounds"`
	Notifications   Notifications       `yaml:"notifications"`
}

// Duration is a wrapper around time.Duration that supports YAML unmarshalling
// from human-readable strings like "30s", "5m", "1h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	return &Config{
		Port:            8556,
		Bind:            "127.0.0.1",
		LogLevel:        "info",
		OutputDir:       ".",
		Filename:        "qrcode",
		ShutdownTimeout: Duration{10 * time.Second},
		Defaults:        store.DefaultConfiguration(),
		SizeBounds:      store.DefaultSizeBounds(),
		Notifications: Notifications{
			Capacity: 50,
			TTL:      Duration{30 * time.Second},
		},
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. A .env file in the working directory
// is loaded next (without overriding the real environment), then
// environment variables with the QRS_ prefix override any file or default
// values. The result is validated.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
			// File doesn't exist, proceed with defaults.
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies QRS_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("QRS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("QRS_BIND"); v != "" {
		cfg.Bind = v
	}
	if v := os.Getenv("QRS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QRS_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("QRS_FILENAME"); v != "" {
		cfg.Filename = v
	}
	if v := os.Getenv("QRS_WEBHOOK_URL"); v != "" {
		cfg.WebhookURL = v
	}
	if v := os.Getenv("QRS_NOTIFY_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Notifications.TTL = Duration{d}
		}
	}
	if v, ok := os.LookupEnv("QRS_DEFAULT_CONTENT"); ok {
		cfg.Defaults.Content = v
	}
	if v := os.Getenv("QRS_DEFAULT_STYLE"); v != "" {
		style, err := store.ParseStyle(v)
		if err != nil {
			return fmt.Errorf("QRS_DEFAULT_STYLE: %w", err)
		}
		cfg.Defaults.Style = style
	}
	if v := os.Getenv("QRS_DEFAULT_LEVEL"); v != "" {
		level, err := store.ParseLevel(v)
		if err != nil {
			return fmt.Errorf("QRS_DEFAULT_LEVEL: %w", err)
		}
		cfg.Defaults.ErrorCorrection = level
	}
	return nil
}

// Validate checks values that would otherwise fail later at startup and
// normalises the default level and style names.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if err := c.SizeBounds.Validate(); err != nil {
		return err
	}
	level, err := store.ParseLevel(string(c.Defaults.ErrorCorrection))
	if err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	style, err := store.ParseStyle(string(c.Defaults.Style))
	if err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	c.Defaults.ErrorCorrection = level
	c.Defaults.Style = style
	return nil
}

// Addr returns the listen address of the web form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}
