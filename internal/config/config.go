// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"cloud-planner/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Capacity contains capacity-probing configuration
	Capacity CapacityConfig `json:"capacity"`

	// Planner contains planning defaults
	Planner PlannerConfig `json:"planner"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// CapacityConfig contains capacity cache and probe settings
type CapacityConfig struct {
	// CacheTTLSeconds is how long capacity results stay valid
	CacheTTLSeconds int `json:"cache_ttl_seconds"`

	// Workers bounds concurrent capacity probes (0 = one per provider)
	Workers int `json:"workers"`
}

// PlannerConfig contains planning defaults
type PlannerConfig struct {
	// DefaultCurrency is the currency assumed for budgets
	DefaultCurrency string `json:"default_currency"`

	// DefaultRegion is the region used for wildcard constraints
	DefaultRegion string `json:"default_region"`

	// PreferredProviders is the default provider ordering
	PreferredProviders []string `json:"preferred_providers,omitempty"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Capacity: CapacityConfig{
			CacheTTLSeconds: 300,
			Workers:         0,
		},
		Planner: PlannerConfig{
			DefaultCurrency:    "USD",
			DefaultRegion:      "us-east-1",
			PreferredProviders: []string{"aws", "gcp", "azure"},
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
