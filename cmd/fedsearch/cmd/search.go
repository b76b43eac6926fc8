package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/fedsearch/internal/federation"
	"github.com/dbsmedya/fedsearch/internal/peer"
	"github.com/dbsmedya/fedsearch/internal/query"
	"github.com/dbsmedya/fedsearch/internal/render"
	"github.com/dbsmedya/fedsearch/internal/server"
)

var (
	searchRequestFile string
	searchPrivate     bool
	searchAuthHeader  string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one federated dataset search from a request file",
	Long: `Search runs a single federated dataset search against the configured
gateway and prints a per-data-type result summary.

The request file carries the same JSON body the dataset-search API takes:
  {"dataset": {...}, "data_type_queries": {...}, "join_query": [...]}

Example:
  fedsearch search --config fedsearch.yaml --request request.json --private`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchRequestFile, "request", "r", "",
		"Path to the search request JSON file (required)")
	searchCmd.Flags().BoolVar(&searchPrivate, "private", false,
		"Request full results instead of match flags")
	searchCmd.Flags().StringVar(&searchAuthHeader, "auth", "",
		"Authorization header forwarded to peers")
	_ = searchCmd.MarkFlagRequired("request")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	raw, err := os.ReadFile(searchRequestFile)
	if err != nil {
		return fmt.Errorf("failed to read request file: %w", err)
	}

	var req struct {
		Dataset         json.RawMessage `json:"dataset"`
		DataTypeQueries json.RawMessage `json:"data_type_queries"`
		JoinQuery       json.RawMessage `json:"join_query"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("request file must be a JSON object: %w", err)
	}

	dataset, err := federation.ParseDataset(req.Dataset)
	if err != nil {
		return fmt.Errorf("invalid dataset: %w", err)
	}
	dataTypeQueries, err := query.ParseDataTypeQueries(req.DataTypeQueries)
	if err != nil {
		return fmt.Errorf("invalid data type queries: %w", err)
	}

	var joinQuery query.Node
	if len(req.JoinQuery) > 0 && string(req.JoinQuery) != "null" {
		joinQuery, err = query.Parse(req.JoinQuery)
		if err != nil {
			return fmt.Errorf("invalid join query: %w", err)
		}
	}

	client, err := peer.NewClient(cfg.Node.BaseURL, cfg.Federation.Timeout(),
		cfg.Federation.MaxRetries, log)
	if err != nil {
		return fmt.Errorf("failed to create peer client: %w", err)
	}
	orchestrator, err := federation.NewOrchestrator(client, cfg.Federation.Workers, log)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	ctx, cancel := context.WithTimeout(server.SetupSignalHandler(), cfg.Federation.Timeout())
	defer cancel()

	schema := federation.NewObjectSchema()
	outcome, err := orchestrator.Run(ctx, schema, dataset, joinQuery,
		dataTypeQueries, searchPrivate, searchAuthHeader)
	if err != nil {
		return fmt.Errorf("dataset search failed: %w", err)
	}

	printOutcome(cmd, outcome, searchPrivate)
	return nil
}

func printOutcome(cmd *cobra.Command, outcome *federation.SearchOutcome, private bool) {
	table := render.NewTable("DATA TYPE", "RESULTS")
	for _, dataType := range sortedKeys(outcome.ResultsByDataType) {
		table.AddRow(dataType, fmt.Sprintf("%d", len(outcome.ResultsByDataType[dataType])))
	}
	table.Render(cmd.OutOrStdout())

	if private && outcome.JoinQuery != nil {
		doc, err := json.Marshal(outcome.JoinQuery)
		if err == nil {
			cmd.Printf("\nJoin query: %s\n", doc)
		}
		if len(outcome.ArrayResolvePaths) > 0 {
			cmd.Printf("Array resolve paths: %v\n", outcome.ArrayResolvePaths)
		}
	}

	if len(outcome.TableErrors) > 0 {
		cmd.Printf("\n%d table(s) failed:\n", len(outcome.TableErrors))
		errTable := render.NewTable("SERVICE", "TABLE", "STAGE", "ERROR")
		for _, te := range outcome.TableErrors {
			errTable.AddRow(te.ServiceArtifact, te.TableID, te.Stage, te.Message)
		}
		errTable.Render(cmd.OutOrStdout())
	}
}

func sortedKeys(m map[string][]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
