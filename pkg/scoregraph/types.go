package scoregraph

import "time"

// NodeID identifies a node. IDs are chosen by the caller and are unique while
// the node is live.
type NodeID uint64

// Score is used for both caller-supplied base values and derived scores.
type Score = float64

// Variant names the topology policy of a graph.
type Variant string

const (
	// VariantForest rejects cycle-closing edges and recalculates by propagation.
	VariantForest Variant = "forest"
	// VariantGeneral accepts any edge and recalculates by fixed-point iteration.
	VariantGeneral Variant = "general"
)

// Recalculation describes one recalculation run triggered by a mutation.
type Recalculation struct {
	Variant Variant
	// PassID correlates log lines for one run. Empty when nothing ran.
	PassID string
	// Iterations is the number of full passes (general) or propagation
	// levels (forest).
	Iterations int
	// Visited counts rule evaluations.
	Visited int
	// Updated counts score writes that changed a value beyond tolerance.
	Updated int
	// Converged is false when the iteration bound was hit before scores
	// settled. The graph keeps whatever state the last pass left.
	Converged bool
	Duration  time.Duration
}

// Stats is a point-in-time summary of a graph.
type Stats struct {
	Variant        Variant
	Nodes          int
	Edges          int
	Recalculations uint64
	NonConverged   uint64
	Last           Recalculation
}

// Recorder receives engine telemetry. *metrics.Registry implements it.
type Recorder interface {
	RecordRecalculation(variant string, converged bool, iterations, visited int, duration time.Duration)
	RecordOperation(operation, status string)
	SetGraphSize(nodes, edges int)
}

type nopRecorder struct{}

func (nopRecorder) RecordRecalculation(string, bool, int, int, time.Duration) {}
func (nopRecorder) RecordOperation(string, string)                          {}
func (nopRecorder) SetGraphSize(int, int)                                   {}
