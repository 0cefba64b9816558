package scoregraph

import (
	"github.com/dd0wney/cluso-scoregraph/pkg/parallel"
	"github.com/dd0wney/cluso-scoregraph/pkg/pools"
)

// General is a graph that accepts any edge, including ones that close a
// cycle. Every mutation iterates the whole graph towards a fixed point.
//
// Each pass computes all new scores from the scores at the start of the pass
// and only then writes them back, so the result does not depend on visiting
// order. After MaxIterations passes the engine stops and reports
// Converged == false.
type General struct {
	*graph
	// pool serves every recalculation when Workers > 1. Nil once closed.
	pool *parallel.WorkerPool
}

// NewGeneral creates an empty general graph.
func NewGeneral(opts Options) (*General, error) {
	g, err := newGraph(VariantGeneral, opts)
	if err != nil {
		return nil, err
	}
	gen := &General{graph: g}
	if g.opts.Workers > 1 {
		pool, err := parallel.NewWorkerPool(g.opts.Workers)
		if err != nil {
			return nil, NewError("new_general").Options(err.Error()).Cause(ErrInvalidOptions).Err()
		}
		gen.pool = pool
	}
	g.recalc = gen.converge
	return gen, nil
}

// Close stops the compute workers. Later recalculations run sequentially.
// Safe to call more than once.
func (g *General) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pool != nil {
		g.pool.Close()
		g.pool = nil
	}
	return nil
}

// AddEdge connects two nodes.
func (g *General) AddEdge(a, b NodeID) (Recalculation, error) {
	return g.addEdge(a, b, nil)
}

// Recalculate runs a full convergence without changing the graph. At a fixed
// point it reports zero updates.
func (g *General) Recalculate() Recalculation {
	g.mu.Lock()
	defer g.mu.Unlock()

	r := g.run("recalculate", nil)
	g.succeeded("recalculate")
	return r
}

func (g *General) converge(_ []NodeID) Recalculation {
	ids := g.sortedIDs()
	nodes := make([]*node, len(ids))
	for i, id := range ids {
		nodes[i] = g.nodes[id]
	}
	next := scorePool.GetSized(len(nodes))
	defer scorePool.Put(next)

	compute := g.computeSequential
	if pool := g.pool; pool != nil && len(nodes) >= g.opts.ParallelThreshold {
		compute = func(nodes []*node, next []Score) {
			g.computeParallel(pool, nodes, next)
		}
	}

	var r Recalculation
	for r.Iterations < g.opts.MaxIterations {
		r.Iterations++

		compute(nodes, next)
		r.Visited += len(nodes)

		changed := 0
		for i, n := range nodes {
			if g.differs(n.score, next[i]) {
				changed++
			}
			n.score = next[i]
		}
		r.Updated += changed

		if changed == 0 {
			r.Converged = true
			break
		}
	}
	return r
}

// computeSequential fills next from the current scores without writing any.
func (g *General) computeSequential(nodes []*node, next []Score) {
	buf := scorePool.Get(pools.SmallSize)
	for i, n := range nodes {
		next[i], buf = g.evaluate(n, buf)
	}
	scorePool.Put(buf)
}

// computeParallel is computeSequential split across the pool. Chunks only
// read node scores and write disjoint ranges of next.
func (g *General) computeParallel(pool *parallel.WorkerPool, nodes []*node, next []Score) {
	err := parallel.ForEachChunk(pool, len(nodes), func(lo, hi int) {
		buf := scorePool.Get(pools.SmallSize)
		for i := lo; i < hi; i++ {
			next[i], buf = g.evaluate(nodes[i], buf)
		}
		scorePool.Put(buf)
	})
	if err != nil {
		// A panicking rule must surface the same way it does sequentially
		panic(err)
	}
}
