// Package config loads the gfr configuration from its YAML file and
// applies GFR_* environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Format names a graph document encoding.
type Format string

const (
	FormatYAML   Format = "yaml"
	FormatBinary Format = "binary"
)

// Config holds all configuration for go-frame-rewrite
type Config struct {
	// DefaultFormat is used when a graph path has no recognizable extension
	DefaultFormat Format `yaml:"default_format" env:"GFR_FORMAT"`

	// EventsPath is where rewrite run records are appended ("" disables)
	EventsPath string `yaml:"events_path" env:"GFR_EVENTS_PATH"`

	// RenderFormat is the output format of the render command (dot, svg, png)
	RenderFormat string `yaml:"render_format" env:"GFR_RENDER_FORMAT"`

	// Logging
	Verbose bool `yaml:"verbose" env:"GFR_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultFormat: FormatYAML,
		EventsPath:    "",
		RenderFormat:  "svg",
		Verbose:       false,
	}
}

// ConfigFilePath returns the default config file path
func ConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gfr/config.yaml"
	}
	return filepath.Join(home, ".gfr", "config.yaml")
}

// Load reads configuration from the YAML file and applies environment
// variable overrides
func Load() (*Config, error) {
	return LoadFromFile(ConfigFilePath())
}

// LoadFromFile reads configuration from a specific YAML file path. A
// missing file is not an error: defaults plus env overrides apply.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides overrides config fields from GFR_* variables
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GFR_FORMAT"); v != "" {
		cfg.DefaultFormat = Format(v)
	}
	if v := os.Getenv("GFR_EVENTS_PATH"); v != "" {
		cfg.EventsPath = v
	}
	if v := os.Getenv("GFR_RENDER_FORMAT"); v != "" {
		cfg.RenderFormat = v
	}
	if v := os.Getenv("GFR_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = b
		}
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.DefaultFormat {
	case FormatYAML, FormatBinary:
	default:
		return fmt.Errorf("invalid default_format %q (want yaml or binary)", c.DefaultFormat)
	}
	switch c.RenderFormat {
	case "dot", "svg", "png":
	default:
		return fmt.Errorf("invalid render_format %q (want dot, svg or png)", c.RenderFormat)
	}
	return nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
