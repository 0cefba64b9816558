package scoregraph

// Forest is a graph that never contains a cycle. Adding an edge between two
// nodes that are already connected fails with ErrCycle and changes nothing.
//
// Recalculation propagates breadth-first from the changed nodes and stops
// along any branch whose score did not move.
type Forest struct {
	*graph
}

// NewForest creates an empty forest.
func NewForest(opts Options) (*Forest, error) {
	g, err := newGraph(VariantForest, opts)
	if err != nil {
		return nil, err
	}
	f := &Forest{graph: g}
	g.recalc = f.propagate
	return f, nil
}

// AddEdge connects two nodes unless they are already connected through
// other edges.
func (f *Forest) AddEdge(a, b NodeID) (Recalculation, error) {
	return f.addEdge(a, b, f.rejectCycle)
}

func (f *Forest) rejectCycle(a, b NodeID) error {
	if path := f.findPath(a, b); path != nil {
		return NewError("add_edge").Edge(a, b).Path(path).Cause(ErrCycle).Err()
	}
	return nil
}

// Connected reports whether a path joins the two nodes.
func (f *Forest) Connected(a, b NodeID) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.reachable(a, b)
}

type queued struct {
	id    NodeID
	level int
}

// propagate recomputes scores outward from seeds. A node is re-queued only
// when a neighbor's score changes while it is not already pending, so the
// work done is proportional to the part of the tree that actually moved.
//
// Rules whose scores never settle are cut off after MaxIterations
// evaluations per node, and the result reports Converged == false.
func (f *Forest) propagate(seeds []NodeID) Recalculation {
	var r Recalculation
	budget := f.opts.MaxIterations * len(f.nodes)

	queue := make([]queued, 0, len(seeds))
	pending := pendingPool.Get()
	defer pendingPool.Put(pending)
	for _, id := range seeds {
		if _, ok := f.nodes[id]; !ok {
			continue
		}
		if _, dup := pending[id]; dup {
			continue
		}
		pending[id] = struct{}{}
		queue = append(queue, queued{id: id, level: 1})
	}

	var buf []Score
	for len(queue) > 0 {
		if r.Visited >= budget {
			return r
		}
		item := queue[0]
		queue = queue[1:]
		delete(pending, item.id)

		r.Visited++
		if item.level > r.Iterations {
			r.Iterations = item.level
		}

		n := f.nodes[item.id]
		var s Score
		s, buf = f.evaluate(n, buf)
		changed := f.differs(n.score, s)
		// within tolerance still lands, it just stops the branch
		n.score = s
		if !changed {
			continue
		}
		r.Updated++

		for _, nb := range n.ordered {
			if _, ok := pending[nb]; ok {
				continue
			}
			pending[nb] = struct{}{}
			queue = append(queue, queued{id: nb, level: item.level + 1})
		}
	}

	r.Converged = true
	return r
}
