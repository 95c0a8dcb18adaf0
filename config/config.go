// Package config loads the convstore configuration surface from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/convstore/logging"
)

// Config is the root configuration document.
type Config struct {
	// KeepAliveConversations bounds live conversations per session; 0 = unbounded.
	KeepAliveConversations int           `yaml:"keep_alive_conversations"`
	Session                SessionConfig `yaml:"session"`
	Logging                LoggingConfig `yaml:"logging"`
}

// SessionConfig configures the session registry and cookie.
type SessionConfig struct {
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	CookieName      string        `yaml:"cookie_name"`
}

// LoggingConfig selects the logger backend.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`  // json, text or console
	Backend string `yaml:"backend"` // slog or zerolog
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		KeepAliveConversations: 10,
		Session: SessionConfig{
			IdleTimeout:     30 * time.Minute,
			CleanupInterval: 5 * time.Minute,
			CookieName:      "CONVSTORE_SESSION",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "json",
			Backend: "slog",
		},
	}
}

// Load reads and parses a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
// Keys absent from data keep their default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if c.KeepAliveConversations < 0 {
		errs = append(errs, fmt.Errorf("keep_alive_conversations must be >= 0, got %d", c.KeepAliveConversations))
	}
	if c.Session.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("session.idle_timeout must be >= 0, got %s", c.Session.IdleTimeout))
	}
	if c.Session.CleanupInterval < 0 {
		errs = append(errs, fmt.Errorf("session.cleanup_interval must be >= 0, got %s", c.Session.CleanupInterval))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("session.cookie_name must not be empty"))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch c.Logging.Backend {
	case "", "slog", "zerolog":
	default:
		errs = append(errs, fmt.Errorf("logging.backend must be slog or zerolog, got %q", c.Logging.Backend))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// NewLogger builds the logger described by the logging section.
func (c *Config) NewLogger() logging.Logger {
	level, _ := logging.ParseLevel(c.Logging.Level)
	cfg := logging.DefaultLoggerConfig()
	cfg.Level = level
	if c.Logging.Format != "" {
		cfg.Format = c.Logging.Format
	}
	if c.Logging.Backend == "zerolog" {
		return logging.NewZerologLogger(cfg)
	}
	return logging.NewLogger(cfg)
}
