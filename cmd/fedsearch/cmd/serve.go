package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/fedsearch/internal/config"
	"github.com/dbsmedya/fedsearch/internal/federation"
	"github.com/dbsmedya/fedsearch/internal/logger"
	"github.com/dbsmedya/fedsearch/internal/peer"
	"github.com/dbsmedya/fedsearch/internal/registry"
	"github.com/dbsmedya/fedsearch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the federation node HTTP server",
	Long: `Serve starts the federation node: the dataset-search API, the peer
registry endpoints, service info, health, and metrics.

The node refuses to start without a configured gateway base URL, since
every table request is routed through it.

Example:
  fedsearch serve --config fedsearch.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	reg, err := registry.Open(cfg.Registry.Path, log)
	if err != nil {
		return fmt.Errorf("failed to open peer registry: %w", err)
	}
	defer reg.Close()

	client, err := peer.NewClient(cfg.Node.BaseURL, cfg.Federation.Timeout(),
		cfg.Federation.MaxRetries, log)
	if err != nil {
		return fmt.Errorf("failed to create peer client: %w", err)
	}

	orchestrator, err := federation.NewOrchestrator(client, cfg.Federation.Workers, log)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	server.Version = Version
	srv, err := server.New(cfg, orchestrator, reg, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx := server.SetupSignalHandler()
	return srv.Run(ctx)
}

// loadConfigAndLogger is the shared command preamble: config file, CLI
// overrides, validation, logger.
func loadConfigAndLogger() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.Workers, overrides.TimeoutSeconds)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}
