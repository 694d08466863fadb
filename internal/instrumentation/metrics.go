package instrumentation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the reconciliation service.
type Metrics struct {
	QueriesTotal *prometheus.CounterVec

	OverviewHits      prometheus.Counter
	OverviewStale     prometheus.Counter
	RecomputeRuns     prometheus.Counter
	RecomputeFailures prometheus.Counter
	RecomputeSeconds  prometheus.Histogram
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		QueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "greenledger_queries_total",
			Help: "Total number of statistics queries by endpoint",
		}, []string{"endpoint"}),

		OverviewHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "greenledger_overview_cache_hits_total",
			Help: "Overview requests served from a fresh cache entry",
		}),

		OverviewStale: promauto.NewCounter(prometheus.CounterOpts{
			Name: "greenledger_overview_cache_stale_total",
			Help: "Overview requests served from a stale or empty cache entry",
		}),

		RecomputeRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "greenledger_overview_recompute_total",
			Help: "Overview recomputations started",
		}),

		RecomputeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "greenledger_overview_recompute_failures_total",
			Help: "Overview recomputations that failed",
		}),

		RecomputeSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "greenledger_overview_recompute_seconds",
			Help:    "Wall time of one overview recomputation",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// RecordQuery increments the per-endpoint query counter.
func (m *Metrics) RecordQuery(endpoint string) {
	m.QueriesTotal.WithLabelValues(endpoint).Inc()
}
