// Package metrics exposes Prometheus collectors for fedsearch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatasetSearchesTotal counts federated dataset searches by outcome
	// (completed, short_circuit).
	DatasetSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fedsearch_dataset_searches_total",
			Help: "Total number of federated dataset searches",
		},
		[]string{"outcome"},
	)
	// PeerFetchesTotal counts fetches to peer services by outcome
	// (success, error).
	PeerFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fedsearch_peer_fetches_total",
			Help: "Total number of peer service fetches",
		},
		[]string{"outcome"},
	)
	// PeerFetchDuration is the latency of peer service fetches.
	PeerFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fedsearch_peer_fetch_duration_seconds",
			Help:    "Peer service fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	// TableFailuresTotal counts per-table discovery and search failures by
	// stage (discovery, search).
	TableFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fedsearch_table_failures_total",
			Help: "Total number of per-table discovery and search failures",
		},
		[]string{"stage"},
	)
)
