package federation

import (
	"context"
	"fmt"

	"github.com/dbsmedya/fedsearch/internal/logger"
	"github.com/dbsmedya/fedsearch/internal/metrics"
	"github.com/dbsmedya/fedsearch/internal/peer"
	"github.com/dbsmedya/fedsearch/internal/query"
)

// SearchOutcome is the result of one federated dataset search: results per
// data type, the combined join query actually used, and the array resolve
// paths the caller needs to filter index combinations.
type SearchOutcome struct {
	ResultsByDataType map[string][]interface{} `json:"results"`
	JoinQuery         query.Node               `json:"join_query"`
	ArrayResolvePaths []string                 `json:"array_resolve_paths"`
	TableErrors       []TableError             `json:"table_errors"`
}

// Orchestrator sequences a federated dataset search: table discovery, join
// synthesis, query combination, concurrent execution, and merge.
type Orchestrator struct {
	client  *peer.Client
	workers int
	logger  *logger.Logger
}

// NewOrchestrator creates an orchestrator running the given number of
// concurrent workers per phase.
func NewOrchestrator(client *peer.Client, workers int, log *logger.Logger) (*Orchestrator, error) {
	if client == nil {
		return nil, fmt.Errorf("peer client is nil")
	}
	if workers <= 0 {
		return nil, fmt.Errorf("worker count must be positive")
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &Orchestrator{
		client:  client,
		workers: workers,
		logger:  log,
	}, nil
}

// Run executes a federated search over the dataset. The caller supplies the
// superstructure schema to fill in, an optional pre-known join query, one
// query per data type, and whether internal (full-result) visibility is
// wanted. The auth credential is passed through to every peer fetch.
//
// Per-table failures are reported in the outcome, not returned as an error.
// A queried data type with no backing tables and a non-trivial query makes
// the whole search unsatisfiable: the outcome maps every queried data type
// to an empty list.
func (o *Orchestrator) Run(
	ctx context.Context,
	schema *ObjectSchema,
	dataset *Dataset,
	joinQuery query.Node,
	dataTypeQueries *query.DataTypeQueries,
	includeInternal bool,
	authHeader string,
) (*SearchOutcome, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is nil")
	}
	if schema == nil {
		return nil, fmt.Errorf("schema is nil")
	}
	if dataset == nil {
		return nil, fmt.Errorf("dataset is nil")
	}
	if dataTypeQueries == nil {
		return nil, fmt.Errorf("data type queries are nil")
	}

	linkedFieldSets := dataset.UsefulLinkedFieldSets()

	pairs, tableErrors := o.discoverTables(ctx, dataset, authHeader)

	tableDataTypes := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		tableDataTypes[pair.Record.DataType] = struct{}{}
	}

	// Data types with no backing tables have no schema and can never match.
	// A literal-true query is the one exception: it is satisfied vacuously,
	// so the data type is excluded from join pairing and given a bare array
	// schema. Anything else poisons the whole batch.
	excluded := make(map[string]struct{})
	for _, dataType := range dataTypeQueries.Keys() {
		if _, ok := tableDataTypes[dataType]; ok {
			continue
		}

		q, _ := dataTypeQueries.Get(dataType)
		if !query.IsLiteralTrue(q) {
			o.logger.WithDataType(dataType).
				Infow("Queried data type has no backing tables; returning empty result set")
			metrics.DatasetSearchesTotal.WithLabelValues("short_circuit").Inc()
			return emptyOutcome(dataTypeQueries, tableErrors), nil
		}

		schema.EnsureProperty(dataType, map[string]interface{}{"type": "array"})
		excluded[dataType] = struct{}{}
		o.logger.WithDataType(dataType).Debugw("Excluding data type")
	}

	if joinQuery == nil {
		joinable := make(map[string]struct{})
		for _, dataType := range dataTypeQueries.Keys() {
			if _, ok := excluded[dataType]; !ok {
				joinable[dataType] = struct{}{}
			}
		}
		joinQuery = query.JoinFromLinkedFieldSets(linkedFieldSets, joinable)
	}

	// Array boundaries must be read off the join query alone, before it is
	// combined with the per-data-type queries.
	paths := []string{}
	if includeInternal {
		paths = append(paths, query.ArrayResolvePaths(joinQuery)...)
	}

	joinQuery = query.Combine(joinQuery, dataTypeQueries)
	if joinQuery != nil {
		o.logger.Debugw("Generated join query", "query", query.ToValue(joinQuery))
	}

	results, searchErrors := o.executeSearches(
		ctx, pairs, joinQuery, dataTypeQueries, includeInternal, authHeader, schema)
	tableErrors = append(tableErrors, searchErrors...)

	// Every queried data type gets a key, even when nothing matched or the
	// type was excluded.
	for _, dataType := range dataTypeQueries.Keys() {
		if _, ok := results[dataType]; !ok {
			results[dataType] = []interface{}{}
		}
	}

	metrics.DatasetSearchesTotal.WithLabelValues("completed").Inc()

	return &SearchOutcome{
		ResultsByDataType: results,
		JoinQuery:         joinQuery,
		ArrayResolvePaths: paths,
		TableErrors:       tableErrors,
	}, nil
}

// emptyOutcome maps every queried data type to an empty list, with no join
// query and no array resolve paths. This is a result, not a fault.
func emptyOutcome(dataTypeQueries *query.DataTypeQueries, tableErrors []TableError) *SearchOutcome {
	results := make(map[string][]interface{}, dataTypeQueries.Len())
	for _, dataType := range dataTypeQueries.Keys() {
		results[dataType] = []interface{}{}
	}
	return &SearchOutcome{
		ResultsByDataType: results,
		JoinQuery:         nil,
		ArrayResolvePaths: []string{},
		TableErrors:       tableErrors,
	}
}
