// Package config loads and persists the OpenTSDBMeta configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zuodh/OpenTSDBMeta/pkg/tsuid"
)

// Config is the on-disk configuration for the metadata cache and its
// surfaces.
type Config struct {
	DataDir   string    `yaml:"data_dir"`
	Port      int       `yaml:"port"`
	Bind      string    `yaml:"bind"`
	KeyLayout KeyLayout `yaml:"key_layout"`
	Security  Security  `yaml:"security"`
	Logging   Logging   `yaml:"logging"`
}

// KeyLayout holds the composite row-key segment widths. These must match the
// upstream store that produced the keys; they are configuration, not
// protocol negotiation.
type KeyLayout struct {
	MetricWidth    int `yaml:"metric_width"`
	TimestampWidth int `yaml:"timestamp_width"`
}

// Security contains API authentication settings. An empty APIKey disables
// the check.
type Security struct {
	APIKey string `yaml:"api_key"`
}

// Logging contains logging configuration.
type Logging struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// DefaultConfig returns a configuration with the reference deployment's key
// widths (3-byte metric, 4-byte timestamp).
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Port:    4242,
		Bind:    "127.0.0.1",
		KeyLayout: KeyLayout{
			MetricWidth:    tsuid.DefaultLayout.MetricWidth,
			TimestampWidth: tsuid.DefaultLayout.TimestampWidth,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Layout materializes the configured key widths as a tsuid.Layout.
func (c *Config) Layout() (tsuid.Layout, error) {
	l := tsuid.Layout{
		MetricWidth:    c.KeyLayout.MetricWidth,
		TimestampWidth: c.KeyLayout.TimestampWidth,
	}
	if err := l.Validate(); err != nil {
		return tsuid.Layout{}, err
	}
	return l, nil
}

// LoadConfig loads configuration from the specified path. Fields absent from
// the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if _, err := config.Layout(); err != nil {
		return nil, fmt.Errorf("invalid key layout in %s: %w", configPath, err)
	}
	return config, nil
}

// SaveConfig saves the configuration to the specified path.
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ConfigExists checks if a configuration file exists.
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
