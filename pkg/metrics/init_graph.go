package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.NodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scoregraph_nodes_total",
			Help: "Number of nodes in the graph",
		},
	)

	r.EdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scoregraph_edges_total",
			Help: "Number of undirected edges in the graph",
		},
	)

	r.OperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoregraph_operations_total",
			Help: "Total number of graph operations by outcome",
		},
		[]string{"operation", "status"},
	)
}
