package federation

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/dbsmedya/fedsearch/internal/metrics"
)

// datasetSearchHeaders marks requests as node-internal; gateways route them
// past the public rate limits.
var datasetSearchHeaders = http.Header{
	"X-Federation-Internal": []string{"1"},
}

// discoverTables concurrently fetches each owned table's metadata record
// from its owning service. Failed tables are reported, not fatal; the pairs
// returned cover only successful fetches.
func (o *Orchestrator) discoverTables(
	ctx context.Context,
	dataset *Dataset,
	authHeader string,
) ([]tablePair, []TableError) {
	var (
		mu    sync.Mutex
		pairs []tablePair
		errs  []TableError
	)

	tasks := make([]func(), 0, len(dataset.TableOwnership))
	for _, ownership := range dataset.TableOwnership {
		ownership := ownership
		tasks = append(tasks, func() {
			path := fmt.Sprintf("api/%s/tables/%s", ownership.ServiceArtifact, ownership.TableID)

			raw, err := o.client.FetchJSON(ctx, http.MethodGet, path, nil, authHeader, datasetSearchHeaders)
			var record *TableRecord
			if err == nil {
				record, err = tableRecordFromValue(raw)
			}

			if err != nil {
				o.logger.WithTable(ownership.ServiceArtifact, ownership.TableID).
					Warnw("Table discovery failed", "error", err)
				metrics.TableFailuresTotal.WithLabelValues(StageDiscovery).Inc()
				mu.Lock()
				errs = append(errs, TableError{
					ServiceArtifact: ownership.ServiceArtifact,
					TableID:         ownership.TableID,
					Stage:           StageDiscovery,
					Message:         err.Error(),
				})
				mu.Unlock()
				return
			}

			mu.Lock()
			pairs = append(pairs, tablePair{Ownership: ownership, Record: record})
			mu.Unlock()
		})
	}

	if err := runPool(o.workers, tasks); err != nil {
		o.logger.Errorw("Table discovery pool failed", "error", err)
	}

	return pairs, errs
}
