package federation

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/dbsmedya/fedsearch/internal/metrics"
	"github.com/dbsmedya/fedsearch/internal/query"
)

// tableResult is one table's contribution to a data type, accumulated
// privately per task and merged once the pool completes.
type tableResult struct {
	dataType string
	results  []interface{}
}

// executeSearches concurrently issues the per-table searches and merges the
// partial results per data type. joinQuery is the combined query; when it is
// in effect, or internal results were requested, the private endpoint is
// used and the superstructure schema gains an entry per data type.
func (o *Orchestrator) executeSearches(
	ctx context.Context,
	pairs []tablePair,
	joinQuery query.Node,
	dataTypeQueries *query.DataTypeQueries,
	includeInternal bool,
	authHeader string,
	schema *ObjectSchema,
) (map[string][]interface{}, []TableError) {
	var (
		mu       sync.Mutex
		partials []tableResult
		errs     []TableError
	)

	tasks := make([]func(), 0, len(pairs))
	for _, pair := range pairs {
		pair := pair
		tasks = append(tasks, func() {
			dataType := pair.Record.DataType
			queried := dataTypeQueries.Has(dataType)

			// With no join query in effect, individual tables can be checked
			// through the much cheaper public existence endpoint.
			private := joinQuery != nil || includeInternal

			if joinQuery != nil {
				// The join resolves against a superstructure keyed by data
				// type; give every discovered data type an array entry, with
				// the table's own schema when its results matter.
				items := interface{}(map[string]interface{}{})
				if queried {
					items = pair.Record.Schema
				}
				schema.EnsureProperty(dataType, map[string]interface{}{
					"type":  "array",
					"items": items,
				})
			}

			// If the data type is not being queried, its results are
			// irrelevant.
			if !queried {
				return
			}
			q, _ := dataTypeQueries.Get(dataType)

			mode := ""
			if private {
				mode = "/private"
			}
			path := fmt.Sprintf("api/%s%s/tables/%s/search",
				pair.Ownership.ServiceArtifact, mode, pair.Record.ID)

			raw, err := o.client.FetchJSON(ctx, http.MethodPost, path,
				map[string]interface{}{"query": q}, authHeader, datasetSearchHeaders)

			var results []interface{}
			if err == nil {
				results, err = extractResults(raw, private)
			}

			if err != nil {
				o.logger.WithTable(pair.Ownership.ServiceArtifact, pair.Record.ID).
					Warnw("Table search failed", "error", err)
				metrics.TableFailuresTotal.WithLabelValues(StageSearch).Inc()
				mu.Lock()
				errs = append(errs, TableError{
					ServiceArtifact: pair.Ownership.ServiceArtifact,
					TableID:         pair.Record.ID,
					Stage:           StageSearch,
					Message:         err.Error(),
				})
				mu.Unlock()
				return
			}

			mu.Lock()
			partials = append(partials, tableResult{dataType: dataType, results: results})
			mu.Unlock()
		})
	}

	if err := runPool(o.workers, tasks); err != nil {
		o.logger.Errorw("Table search pool failed", "error", err)
	}

	merged := make(map[string][]interface{})
	for _, partial := range partials {
		if _, ok := merged[partial.dataType]; !ok {
			merged[partial.dataType] = []interface{}{}
		}
		merged[partial.dataType] = append(merged[partial.dataType], partial.results...)
	}

	return merged, errs
}

// extractResults interprets a search response. Private responses carry a
// results array; a public response is an arbitrary value whose truthiness
// means "this table matched", contributing a single marker result.
func extractResults(raw interface{}, private bool) ([]interface{}, error) {
	if !private {
		if truthy(raw) {
			return []interface{}{raw}, nil
		}
		return nil, nil
	}

	doc, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("private search response must be a JSON object, got %T", raw)
	}
	results, ok := doc["results"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("private search response is missing a results array")
	}
	return results, nil
}

// truthy reports whether a decoded JSON value is truthy in the sense the
// public search endpoint uses: non-null, non-false, non-zero, non-empty.
func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	case []interface{}:
		return len(x) > 0
	case map[string]interface{}:
		return len(x) > 0
	default:
		return true
	}
}
