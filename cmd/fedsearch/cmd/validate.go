package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/fedsearch/internal/config"
	"github.com/dbsmedya/fedsearch/internal/registry"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Validate checks the configuration file for syntax and required
fields, and verifies the peer registry path is usable.

Checks performed:
  - Configuration syntax and required fields
  - Gateway base URL presence and shape
  - Worker count, timeout, and port ranges
  - Peer registry open/initialize

Example:
  fedsearch validate --config fedsearch.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.Workers, overrides.TimeoutSeconds)

	cmd.Printf("=== Configuration Validation ===\n")
	cmd.Printf("Config file: %s\n\n", configFile)

	if err := cfg.Validate(); err != nil {
		cmd.Printf("❌ Configuration invalid:\n%v\n", err)
		return fmt.Errorf("validation failed")
	}
	cmd.Printf("✅ Configuration valid\n")
	cmd.Printf("   Gateway:  %s\n", cfg.Node.BaseURL)
	cmd.Printf("   Workers:  %d\n", cfg.Federation.Workers)
	cmd.Printf("   Timeout:  %s\n", cfg.Federation.Timeout())
	cmd.Printf("   Registry: %s\n", cfg.Registry.Path)

	reg, err := registry.Open(cfg.Registry.Path, nil)
	if err != nil {
		cmd.Printf("❌ Peer registry check failed: %v\n", err)
		return fmt.Errorf("validation failed")
	}
	defer reg.Close()
	cmd.Printf("✅ Peer registry ready\n")

	return nil
}
