package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the score graph engine
type Registry struct {
	// Graph size
	NodesTotal prometheus.Gauge
	EdgesTotal prometheus.Gauge

	// Operations
	OperationsTotal *prometheus.CounterVec

	// Recalculation
	RecalculationsTotal   *prometheus.CounterVec
	RecalculationDuration *prometheus.HistogramVec
	RecalculationPasses   *prometheus.HistogramVec
	NodesVisited          *prometheus.HistogramVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initGraphMetrics()
	r.initRecalculationMetrics()
	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
