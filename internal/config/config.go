// Package config loads the scientist command configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/scientist"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Journal types understood by the command.
const (
	JournalMemory     = "memory"
	JournalLogging    = "logging"
	JournalPrometheus = "prometheus"
	JournalOtel       = "otel"
	JournalRedis      = "redis"
)

// DefaultAddr is where the read API listens when none is configured.
const DefaultAddr = ":8080"

// Config represents the structure of scientist.yaml.
type Config struct {
	LogLevel        string                      `yaml:"log_level"`
	StopTrialsEarly bool                        `yaml:"stop_trials_early"`
	Concurrency     int                         `yaml:"concurrency"`
	Experiments     map[string]ExperimentConfig `yaml:"experiments"`
	Journals        []JournalConfig             `yaml:"journals"`
	Redact          []string                    `yaml:"redact"`
	Server          ServerConfig                `yaml:"server"`
}

// ExperimentConfig overrides the enablement of one experiment.
type ExperimentConfig struct {
	Enabled *bool `yaml:"enabled"`
	Chance  *int  `yaml:"chance"`
}

// JournalConfig declares one journal. Options are specific to the type
// and decoded lazily with Decode.
type JournalConfig struct {
	Type    string         `yaml:"type"`
	Options map[string]any `yaml:"options"`
}

// ServerConfig configures the read API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// RedisOptions are the options of a "redis" journal.
type RedisOptions struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	Limit    int           `yaml:"limit"`
	TTL      time.Duration `yaml:"ttl"`
}

// MemoryOptions are the options of a "memory" journal.
type MemoryOptions struct {
	Limit int `yaml:"limit"`
}

// PrometheusOptions are the options of a "prometheus" journal.
type PrometheusOptions struct {
	Namespace string `yaml:"namespace"`
}

// LoggingOptions are the options of a "logging" journal.
type LoggingOptions struct {
	Diff *bool `yaml:"diff"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel:    "info",
		Concurrency: 1,
		Experiments: map[string]ExperimentConfig{},
		Server:      ServerConfig{Addr: DefaultAddr},
	}
}

// Load reads a YAML configuration file and applies defaults.
// A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML bytes on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 1
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that yaml cannot constrain.
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	for name, exp := range c.Experiments {
		if exp.Chance != nil && (*exp.Chance < 0 || *exp.Chance > 100) {
			return fmt.Errorf("experiment %q: chance must be within 0..100, got %d", name, *exp.Chance)
		}
	}
	for i, j := range c.Journals {
		switch j.Type {
		case JournalMemory, JournalLogging, JournalPrometheus, JournalOtel, JournalRedis:
		default:
			return fmt.Errorf("journal %d: unknown type %q", i, j.Type)
		}
	}
	return nil
}

// Settings converts the experiment overrides into laboratory settings.
func (c *Config) Settings() map[string]scientist.Settings {
	settings := make(map[string]scientist.Settings, len(c.Experiments))
	for name, exp := range c.Experiments {
		settings[name] = scientist.Settings{Enabled: exp.Enabled, Chance: exp.Chance}
	}
	return settings
}

// Journal returns the first journal of the given type.
func (c *Config) Journal(kind string) (JournalConfig, bool) {
	for _, j := range c.Journals {
		if j.Type == kind {
			return j, true
		}
	}
	return JournalConfig{}, false
}

// Decode decodes the journal options into out, a pointer to one of the *Options structs.
// Durations may be written as strings ("10m").
func (j JournalConfig) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "yaml",
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(j.Options); err != nil {
		return fmt.Errorf("journal %q: invalid options: %w", j.Type, err)
	}
	return nil
}
