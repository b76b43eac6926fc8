// Package config provides configuration structures and loading for fedsearch.
package config

import (
	"runtime"
	"time"
)

// Config represents the complete application configuration.
type Config struct {
	Node       NodeConfig       `yaml:"node" mapstructure:"node"`
	Federation FederationConfig `yaml:"federation" mapstructure:"federation"`
	Registry   RegistryConfig   `yaml:"registry" mapstructure:"registry"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// NodeConfig identifies this node and the gateway all peer-table requests go
// through.
type NodeConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	RegistryURL string `yaml:"registry_url" mapstructure:"registry_url"`
	ServiceID   string `yaml:"service_id" mapstructure:"service_id"`
}

// FederationConfig represents dataset-search execution settings.
type FederationConfig struct {
	Workers        int `yaml:"workers" mapstructure:"workers"`
	TimeoutSeconds int `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxRetries     int `yaml:"max_retries" mapstructure:"max_retries"`
}

// RegistryConfig represents the embedded peer registry store.
type RegistryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig represents the HTTP service settings.
type ServerConfig struct {
	Port     int    `yaml:"port" mapstructure:"port"`
	BasePath string `yaml:"base_path" mapstructure:"base_path"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Federation: FederationConfig{
			Workers:        runtime.NumCPU(),
			TimeoutSeconds: 180,
			MaxRetries:     2,
		},
		Registry: RegistryConfig{
			Path: "data/federation.db",
		},
		Server: ServerConfig{
			Port: 5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// Timeout returns the configured per-fetch timeout as a duration.
func (f FederationConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat string, workers, timeoutSeconds int) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if workers > 0 {
		c.Federation.Workers = workers
	}
	if timeoutSeconds > 0 {
		c.Federation.TimeoutSeconds = timeoutSeconds
	}
}
