// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage labels for StageDuration.
const (
	StageSearch   = "search"
	StageAssemble = "assemble"
	StagePrompt   = "prompt"
	StageGenerate = "generate"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rag_queries_total",
			Help: "Total number of queries processed, by outcome code",
		},
		[]string{"outcome"},
	)

	QueriesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rag_queries_active",
			Help: "Number of queries currently in the pipeline",
		},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rag_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		},
		[]string{"stage"},
	)

	PageFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rag_page_fetches_total",
			Help: "Total number of result page fetches, by result",
		},
		[]string{"result"},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rag_search_results",
			Help:    "Number of descriptors returned per search",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50},
		},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rag_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"breaker"},
	)
)
