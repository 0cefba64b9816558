package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/common/expfmt"
)

const (
	OutcomeConverged     = "converged"
	OutcomeMaxIterations = "max_iterations"
)

// RecordRecalculation records one recalculation run
func (r *Registry) RecordRecalculation(variant string, converged bool, iterations, visited int, duration time.Duration) {
	outcome := OutcomeConverged
	if !converged {
		outcome = OutcomeMaxIterations
	}
	r.RecalculationsTotal.WithLabelValues(variant, outcome).Inc()
	r.RecalculationDuration.WithLabelValues(variant).Observe(duration.Seconds())
	r.RecalculationPasses.WithLabelValues(variant).Observe(float64(iterations))
	r.NodesVisited.WithLabelValues(variant).Observe(float64(visited))
}

// RecordOperation counts a graph operation by status ("ok" or "error")
func (r *Registry) RecordOperation(operation, status string) {
	r.OperationsTotal.WithLabelValues(operation, status).Inc()
}

// SetGraphSize updates the node and edge gauges
func (r *Registry) SetGraphSize(nodes, edges int) {
	r.NodesTotal.Set(float64(nodes))
	r.EdgesTotal.Set(float64(edges))
}

// WriteText writes every gathered metric family in the Prometheus text format
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
