package metrics

import "github.com/prometheus/client_golang/prometheus"

// Data pipeline Prometheus metrics.
var (
	DatasetLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "polizeischuesse",
			Name:      "dataset_load_duration_seconds",
			Help:      "Duration of dataset fetch, derivation and index build",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"dataset"},
	)

	DatasetLoadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "polizeischuesse",
			Name:      "dataset_load_total",
			Help:      "Dataset load attempts by outcome",
		},
		[]string{"dataset", "result"}, // "ok" / "error"
	)

	DatasetCases = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "polizeischuesse",
			Name:      "dataset_cases",
			Help:      "Number of cases in the memoized dataset snapshot",
		},
		[]string{"dataset"},
	)

	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "polizeischuesse",
			Name:      "search_queries_total",
			Help:      "Full-text search queries by outcome",
		},
		[]string{"result"}, // "ok" / "rejected"
	)
)

// RegisterPipelineMetrics registers the pipeline metrics with the default
// registry. Called explicitly from main (no init()).
func RegisterPipelineMetrics() {
	prometheus.MustRegister(
		DatasetLoadDuration,
		DatasetLoadTotal,
		DatasetCases,
		SearchQueriesTotal,
	)
}
