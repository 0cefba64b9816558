package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRecalculationMetrics() {
	r.RecalculationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoregraph_recalculations_total",
			Help: "Total number of recalculations by variant and outcome",
		},
		[]string{"variant", "outcome"},
	)

	r.RecalculationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoregraph_recalculation_duration_seconds",
			Help:    "Recalculation duration in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0},
		},
		[]string{"variant"},
	)

	r.RecalculationPasses = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoregraph_recalculation_iterations",
			Help:    "Passes (general) or propagation levels (forest) per recalculation",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 500},
		},
		[]string{"variant"},
	)

	r.NodesVisited = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoregraph_nodes_visited",
			Help:    "Rule evaluations per recalculation",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		},
		[]string{"variant"},
	)
}
