package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile        string
	logLevel       string
	logFormat      string
	workers        int
	timeoutSeconds int
)

var rootCmd = &cobra.Command{
	Use:   "fedsearch",
	Short: "Federated Dataset Search Node",
	Long: `A federation node that answers dataset searches by fanning queries
out over the peer tables a dataset spans.

Features:
  - Join-query synthesis from a dataset's linked field sets
  - Concurrent table discovery and search with bounded worker pools
  - Public match-flag and private full-result search modes
  - Persistent peer registry
  - Prometheus metrics`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "fedsearch.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Federation overrides
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0,
		"Override worker count for discovery and search pools")
	rootCmd.PersistentFlags().IntVar(&timeoutSeconds, "timeout", 0,
		"Override peer fetch timeout in seconds")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel       string
	LogFormat      string
	Workers        int
	TimeoutSeconds int
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:       logLevel,
		LogFormat:      logFormat,
		Workers:        workers,
		TimeoutSeconds: timeoutSeconds,
	}
}
