package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	// SourceFetches counts datasource fetches by source and outcome
	// (ok, error, disabled, no_passport).
	SourceFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reputesol",
			Subsystem: "sources",
			Name:      "fetches_total",
			Help:      "Total number of datasource fetches.",
		},
		[]string{"source", "outcome"},
	)

	// UpdateRuns counts full orchestrator runs by outcome.
	UpdateRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reputesol",
			Subsystem: "orchestrator",
			Name:      "update_runs_total",
			Help:      "Total number of score update runs.",
		},
		[]string{"outcome"},
	)

	// UpdateDuration observes end-to-end update run latency.
	UpdateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reputesol",
			Subsystem: "orchestrator",
			Name:      "update_duration_seconds",
			Help:      "Duration of score update runs.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
	)

	// LedgerCalls counts program gateway calls by operation and outcome.
	LedgerCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reputesol",
			Subsystem: "ledger",
			Name:      "calls_total",
			Help:      "Total number of reputation program calls.",
		},
		[]string{"op", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		SourceFetches,
		UpdateRuns,
		UpdateDuration,
		LedgerCalls,
	)
}

// Handler exposes the application registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
