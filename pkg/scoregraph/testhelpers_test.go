package scoregraph

import (
	"math"
	"sync"
	"testing"
	"time"
)

func newTestForest(t *testing.T, opts Options) *Forest {
	t.Helper()
	f, err := NewForest(opts)
	if err != nil {
		t.Fatalf("NewForest failed: %v", err)
	}
	return f
}

func newTestGeneral(t *testing.T, opts Options) *General {
	t.Helper()
	g, err := NewGeneral(opts)
	if err != nil {
		t.Fatalf("NewGeneral failed: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

// mustAddNodes adds id/base pairs
func mustAddNodes(t *testing.T, g interface{ AddNode(NodeID, Score) error }, pairs ...float64) {
	t.Helper()
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := g.AddNode(NodeID(pairs[i]), pairs[i+1]); err != nil {
			t.Fatalf("AddNode(%v) failed: %v", pairs[i], err)
		}
	}
}

func mustScore(t *testing.T, g interface{ Score(NodeID) (Score, error) }, id NodeID) Score {
	t.Helper()
	s, err := g.Score(id)
	if err != nil {
		t.Fatalf("Score(%d) failed: %v", id, err)
	}
	return s
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// recordingRecorder captures Recorder calls for assertions
type recordingRecorder struct {
	mu             sync.Mutex
	recalculations int
	nonConverged   int
	operations     map[string]int
	nodes, edges   int
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{operations: make(map[string]int)}
}

func (r *recordingRecorder) RecordRecalculation(variant string, converged bool, iterations, visited int, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recalculations++
	if !converged {
		r.nonConverged++
	}
}

func (r *recordingRecorder) RecordOperation(op, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations[op+":"+status]++
}

func (r *recordingRecorder) SetGraphSize(nodes, edges int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes, r.edges = nodes, edges
}

// runaway never settles: every evaluation adds one to the first neighbor
func runaway(base Score, neighbors []Score) Score {
	if len(neighbors) == 0 {
		return base
	}
	return neighbors[0] + 1
}
