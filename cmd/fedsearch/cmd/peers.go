package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/fedsearch/internal/registry"
	"github.com/dbsmedya/fedsearch/internal/render"
)

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "List known federation peers",
	Long: `Peers displays every peer recorded in the local registry, with the
time each was last seen and (if any) last errored.

Example:
  fedsearch peers --config fedsearch.yaml`,
	RunE: runPeers,
}

func init() {
	rootCmd.AddCommand(peersCmd)
}

func runPeers(cmd *cobra.Command, args []string) error {
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

	peers, err := reg.ListPeers(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list peers: %w", err)
	}

	if len(peers) == 0 {
		cmd.Printf("No peers recorded in %s\n", cfg.Registry.Path)
		return nil
	}

	table := render.NewTable("URL", "LAST SEEN", "LAST ERRORED")
	for _, p := range peers {
		errored := "-"
		if p.LastErrored != nil {
			errored = p.LastErrored.Format("2006-01-02 15:04:05")
		}
		table.AddRow(p.URL, p.LastSeen.Format("2006-01-02 15:04:05"), errored)
	}
	table.Render(cmd.OutOrStdout())
	return nil
}
