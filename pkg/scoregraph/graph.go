package scoregraph

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-scoregraph/pkg/logging"
	"github.com/dd0wney/cluso-scoregraph/pkg/pools"
)

// Buffers reused across recalculations.
var (
	scorePool   = pools.NewSlicePool[Score]()
	pendingPool = pools.NewSetPool[NodeID]()
)

type node struct {
	id        NodeID
	base      Score
	score     Score
	neighbors map[NodeID]struct{}
	// ordered mirrors neighbors in ascending ID order so rules see a
	// deterministic input.
	ordered []NodeID
}

func (n *node) link(id NodeID) bool {
	if _, ok := n.neighbors[id]; ok {
		return false
	}
	n.neighbors[id] = struct{}{}
	i, _ := slices.BinarySearch(n.ordered, id)
	n.ordered = slices.Insert(n.ordered, i, id)
	return true
}

func (n *node) unlink(id NodeID) bool {
	if _, ok := n.neighbors[id]; !ok {
		return false
	}
	delete(n.neighbors, id)
	if i, found := slices.BinarySearch(n.ordered, id); found {
		n.ordered = slices.Delete(n.ordered, i, i+1)
	}
	return true
}

// Edge is an undirected edge reported with A < B.
type Edge struct {
	A, B NodeID
}

// graph holds the state and operations shared by Forest and General. The
// variant installs its recalculation strategy at construction.
type graph struct {
	mu      sync.RWMutex
	variant Variant
	opts    Options
	logger  logging.Logger
	nodes   map[NodeID]*node
	edges   int
	recalc  func(seeds []NodeID) Recalculation
	stats   Stats
}

func newGraph(variant Variant, opts Options) (*graph, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	return &graph{
		variant: variant,
		opts:    opts,
		logger:  opts.Logger.With(logging.Component("scoregraph"), logging.Variant(string(variant))),
		nodes:   make(map[NodeID]*node),
		stats:   Stats{Variant: variant},
	}, nil
}

// evaluate applies the rule to n using the scores currently stored on its
// neighbors. buf is reused between calls to avoid allocation.
func (g *graph) evaluate(n *node, buf []Score) (Score, []Score) {
	if len(n.ordered) == 0 {
		return n.base, buf
	}
	buf = buf[:0]
	for _, id := range n.ordered {
		buf = append(buf, g.nodes[id].score)
	}
	return g.opts.Rule(n.base, buf), buf
}

func (g *graph) differs(old, updated Score) bool {
	if old == updated || (math.IsNaN(old) && math.IsNaN(updated)) {
		return false
	}
	// NaN against a number compares false, so it counts as a change
	return !(math.Abs(updated-old) <= g.opts.Tolerance)
}

func invalidValue(op string, id NodeID, v Score) error {
	return NewError(op).Node(id).Cause(fmt.Errorf("%w, got %v", ErrInvalidValue, v)).Err()
}

// run executes the variant's recalculation and records it. Callers hold mu.
func (g *graph) run(op string, seeds []NodeID) Recalculation {
	passID := uuid.NewString()
	timer := logging.StartTimer(g.logger, "recalculation finished", logging.Operation(op), logging.PassID(passID))

	r := g.recalc(seeds)
	r.Variant = g.variant
	r.PassID = passID
	r.Duration = timer.Elapsed()

	g.stats.Recalculations++
	g.stats.Last = r

	fields := []logging.Field{
		logging.Iterations(r.Iterations),
		logging.Int("visited", r.Visited),
		logging.Int("updated", r.Updated),
		logging.Converged(r.Converged),
	}
	if r.Converged {
		timer.End(fields...)
	} else {
		g.stats.NonConverged++
		timer.EndWarn("recalculation stopped before scores settled", fields...)
	}

	g.opts.Recorder.RecordRecalculation(string(g.variant), r.Converged, r.Iterations, r.Visited, r.Duration)
	return r
}

// idle is the result of a mutation that needed no recalculation.
func (g *graph) idle() Recalculation {
	return Recalculation{Variant: g.variant, Converged: true}
}

func (g *graph) succeeded(op string) {
	g.opts.Recorder.RecordOperation(op, "ok")
	g.opts.Recorder.SetGraphSize(len(g.nodes), g.edges)
}

func (g *graph) failed(op string, err error) error {
	g.opts.Recorder.RecordOperation(op, "error")
	g.logger.Debug("operation rejected", logging.Operation(op), logging.Error(err))
	return err
}

// AddNode creates an isolated node whose score equals its base value.
func (g *graph) AddNode(id NodeID, base Score) error {
	const op = "add_node"
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[id]; ok {
		return g.failed(op, NewError(op).Node(id).Cause(ErrDuplicateNode).Err())
	}
	if !finite(base) {
		return g.failed(op, invalidValue(op, id, base))
	}
	g.nodes[id] = &node{
		id:        id,
		base:      base,
		score:     base,
		neighbors: make(map[NodeID]struct{}),
	}
	g.succeeded(op)
	return nil
}

// addEdge links a and b after admit approves. An existing edge is a no-op.
func (g *graph) addEdge(a, b NodeID, admit func(a, b NodeID) error) (Recalculation, error) {
	const op = "add_edge"
	g.mu.Lock()
	defer g.mu.Unlock()

	na, ok := g.nodes[a]
	if !ok {
		return Recalculation{}, g.failed(op, nodeNotFound(op, a))
	}
	nb, ok := g.nodes[b]
	if !ok {
		return Recalculation{}, g.failed(op, nodeNotFound(op, b))
	}
	if a == b {
		return Recalculation{}, g.failed(op, NewError(op).Edge(a, b).Cause(ErrSelfLoop).Err())
	}
	if _, exists := na.neighbors[b]; exists {
		g.succeeded(op)
		return g.idle(), nil
	}
	if admit != nil {
		if err := admit(a, b); err != nil {
			return Recalculation{}, g.failed(op, err)
		}
	}

	na.link(b)
	nb.link(a)
	g.edges++

	r := g.run(op, []NodeID{a, b})
	g.succeeded(op)
	return r, nil
}

// UpdateBaseValue sets a node's base value and recalculates.
func (g *graph) UpdateBaseValue(id NodeID, value Score) (Recalculation, error) {
	const op = "update_base_value"
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return Recalculation{}, g.failed(op, nodeNotFound(op, id))
	}
	if !finite(value) {
		return Recalculation{}, g.failed(op, invalidValue(op, id, value))
	}
	n.base = value

	r := g.run(op, []NodeID{id})
	g.succeeded(op)
	return r, nil
}

// RemoveEdge unlinks a and b and recalculates from both endpoints.
func (g *graph) RemoveEdge(a, b NodeID) (Recalculation, error) {
	const op = "remove_edge"
	g.mu.Lock()
	defer g.mu.Unlock()

	na, ok := g.nodes[a]
	if !ok {
		return Recalculation{}, g.failed(op, nodeNotFound(op, a))
	}
	nb, ok := g.nodes[b]
	if !ok {
		return Recalculation{}, g.failed(op, nodeNotFound(op, b))
	}
	if !na.unlink(b) {
		return Recalculation{}, g.failed(op, NewError(op).Edge(a, b).Cause(ErrEdgeNotFound).Err())
	}
	nb.unlink(a)
	g.edges--

	r := g.run(op, []NodeID{a, b})
	g.succeeded(op)
	return r, nil
}

// RemoveNode deletes a node and its edges, then recalculates from its former
// neighbors. The ID becomes free for reuse.
func (g *graph) RemoveNode(id NodeID) (Recalculation, error) {
	const op = "remove_node"
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return Recalculation{}, g.failed(op, nodeNotFound(op, id))
	}
	former := slices.Clone(n.ordered)
	for _, nb := range former {
		g.nodes[nb].unlink(id)
	}
	g.edges -= len(former)
	delete(g.nodes, id)

	r := g.idle()
	if len(former) > 0 {
		r = g.run(op, former)
	}
	g.succeeded(op)
	return r, nil
}

// Score returns the derived score of a node.
func (g *graph) Score(id NodeID) (Score, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return 0, nodeNotFound("get_score", id)
	}
	return n.score, nil
}

// BaseValue returns the caller-supplied base value of a node.
func (g *graph) BaseValue(id NodeID) (Score, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return 0, nodeNotFound("get_base_value", id)
	}
	return n.base, nil
}

// Neighbors returns the neighbors of a node in ascending order.
func (g *graph) Neighbors(id NodeID) ([]NodeID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, nodeNotFound("get_neighbors", id)
	}
	return slices.Clone(n.ordered), nil
}

func (g *graph) HasNode(id NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

func (g *graph) HasEdge(a, b NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[a]
	if !ok {
		return false
	}
	_, ok = n.neighbors[b]
	return ok
}

// NodeIDs returns every node ID in ascending order.
func (g *graph) NodeIDs() []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sortedIDs()
}

func (g *graph) sortedIDs() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Edges returns each undirected edge once, ordered by (A, B).
func (g *graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := make([]Edge, 0, g.edges)
	for _, id := range g.sortedIDs() {
		for _, nb := range g.nodes[id].ordered {
			if id < nb {
				edges = append(edges, Edge{A: id, B: nb})
			}
		}
	}
	return edges
}

// Scores returns a copy of every node's score.
func (g *graph) Scores() map[NodeID]Score {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[NodeID]Score, len(g.nodes))
	for id, n := range g.nodes {
		out[id] = n.score
	}
	return out
}

// Stats returns a summary of the graph.
func (g *graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := g.stats
	s.Nodes = len(g.nodes)
	s.Edges = g.edges
	return s
}

// Variant reports the topology policy of the graph.
func (g *graph) Variant() Variant {
	return g.variant
}

// Consistent reports whether every node's score matches the rule applied to
// its current neighbors, within tolerance. Nodes that do not are returned.
func (g *graph) Consistent() (bool, []NodeID) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var stale []NodeID
	var buf []Score
	for _, id := range g.sortedIDs() {
		n := g.nodes[id]
		var s Score
		s, buf = g.evaluate(n, buf)
		if g.differs(n.score, s) {
			stale = append(stale, id)
		}
	}
	return len(stale) == 0, stale
}
