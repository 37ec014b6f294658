// Package config loads and validates the siteforge configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	AI      AIConfig      `yaml:"ai"`
	Builds  []BuildSpec   `yaml:"builds,omitempty"`
	Daemon  DaemonConfig  `yaml:"daemon"`
	Events  EventsConfig  `yaml:"events"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig selects where durable rows live.
type StorageConfig struct {
	Path string `yaml:"path"` // sqlite file path, or ":memory:"
}

// AIConfig selects the content-generation provider.
type AIConfig struct {
	Provider  string `yaml:"provider"`             // "template" or "gemini"
	Model     string `yaml:"model,omitempty"`      // gemini only
	APIKeyEnv string `yaml:"api_key_env,omitempty"` // env var holding the API key
}

// BuildSpec is one configured build the CLI or daemon can run.
type BuildSpec struct {
	Name        string         `yaml:"name"`
	Prompt      string         `yaml:"prompt"`
	BusinessID  string         `yaml:"business_id"`
	OwnerID     string         `yaml:"owner_id"`
	Mode        string         `yaml:"mode,omitempty"`
	Industry    string         `yaml:"industry,omitempty"`
	Constraints map[string]any `yaml:"constraints,omitempty"`
}

// DaemonConfig controls daemon mode.
type DaemonConfig struct {
	Interval      time.Duration `yaml:"interval"`       // rebuild cadence
	MetricsListen string        `yaml:"metrics_listen"` // addr for /metrics, empty disables
}

// EventsConfig controls the optional NATS event feed.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"` // empty disables publishing
	Stream  string `yaml:"stream,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // debug|info|warn|error
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Path: "siteforge.db"},
		AI:      AIConfig{Provider: "template", APIKeyEnv: "GEMINI_API_KEY"},
		Daemon:  DaemonConfig{Interval: time.Hour},
		Events:  EventsConfig{Stream: "SITEFORGE_BUILDS", Subject: "siteforge.builds"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads, defaults, and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Storage.Path == "" {
		c.Storage.Path = "siteforge.db"
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "template"
	}
	if c.AI.APIKeyEnv == "" {
		c.AI.APIKeyEnv = "GEMINI_API_KEY"
	}
	if c.Daemon.Interval <= 0 {
		c.Daemon.Interval = time.Hour
	}
	if c.Events.Stream == "" {
		c.Events.Stream = "SITEFORGE_BUILDS"
	}
	if c.Events.Subject == "" {
		c.Events.Subject = "siteforge.builds"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks for configuration mistakes worth failing fast on.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "template", "gemini":
	default:
		return fmt.Errorf("unknown ai provider %q (want template or gemini)", c.AI.Provider)
	}
	for i, b := range c.Builds {
		if b.Prompt == "" {
			return fmt.Errorf("builds[%d]: prompt is required", i)
		}
		if b.BusinessID == "" {
			return fmt.Errorf("builds[%d]: business_id is required", i)
		}
		if b.OwnerID == "" {
			return fmt.Errorf("builds[%d]: owner_id is required", i)
		}
	}
	return nil
}

// APIKey resolves the provider API key from the configured env var.
func (c *Config) APIKey() string {
	return os.Getenv(c.AI.APIKeyEnv)
}

// Write serializes the config to path. Used by `siteforge init`.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
