package scoregraph_test

import (
	"math"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-scoregraph/pkg/scoregraph"
	"github.com/dd0wney/cluso-scoregraph/pkg/topology"
)

const propertyNodes = 8

func propertyOptions() scoregraph.Options {
	return scoregraph.Options{
		Rule:          scoregraph.DampedRule(0.5),
		MaxIterations: 2000,
	}
}

// pairs decodes ints in [0, n*n) into node pairs, skipping self-pairs
func pairs(codes []int) [][2]scoregraph.NodeID {
	out := make([][2]scoregraph.NodeID, 0, len(codes))
	for _, c := range codes {
		a := scoregraph.NodeID(c/propertyNodes + 1)
		b := scoregraph.NodeID(c%propertyNodes + 1)
		if a != b {
			out = append(out, [2]scoregraph.NodeID{a, b})
		}
	}
	return out
}

type builder interface {
	AddNode(scoregraph.NodeID, scoregraph.Score) error
	AddEdge(scoregraph.NodeID, scoregraph.NodeID) (scoregraph.Recalculation, error)
}

func seed(t *testing.T, g builder, bases []float64) {
	for i, b := range bases {
		if err := g.AddNode(scoregraph.NodeID(i+1), b); err != nil {
			t.Fatalf("AddNode failed: %v", err)
		}
	}
}

func TestScoreGraphInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	basesGen := gen.SliceOfN(propertyNodes, gen.Float64Range(0, 50))
	edgesGen := gen.SliceOf(gen.IntRange(0, propertyNodes*propertyNodes-1))

	properties.Property("forest never holds a cycle and rejections change nothing", prop.ForAll(
		func(bases []float64, codes []int) bool {
			f, _ := scoregraph.NewForest(propertyOptions())
			seed(t, f, bases)

			for _, p := range pairs(codes) {
				before := f.Edges()
				scores := f.Scores()
				_, err := f.AddEdge(p[0], p[1])
				if scoregraph.IsCycle(err) {
					if !slices.Equal(before, f.Edges()) {
						return false
					}
					for id, s := range f.Scores() {
						if scores[id] != s {
							return false
						}
					}
				} else if err != nil {
					return false
				}
			}
			return topology.Analyze(f).Acyclic
		},
		basesGen, edgesGen,
	))

	properties.Property("forest propagation reaches the general fixed point", prop.ForAll(
		func(bases []float64, codes []int, target int, value float64) bool {
			f, _ := scoregraph.NewForest(propertyOptions())
			g, _ := scoregraph.NewGeneral(propertyOptions())
			seed(t, f, bases)
			seed(t, g, bases)

			for _, p := range pairs(codes) {
				if _, err := f.AddEdge(p[0], p[1]); err == nil {
					g.AddEdge(p[0], p[1])
				}
			}
			rf, _ := f.UpdateBaseValue(scoregraph.NodeID(target), value)
			rg, _ := g.UpdateBaseValue(scoregraph.NodeID(target), value)
			if !rf.Converged || !rg.Converged {
				return false
			}
			if ok, _ := f.Consistent(); !ok {
				return false
			}

			gs := g.Scores()
			for id, s := range f.Scores() {
				if math.Abs(s-gs[id]) > 1e-6 {
					return false
				}
			}
			return true
		},
		basesGen, edgesGen, gen.IntRange(1, propertyNodes), gen.Float64Range(-20, 80),
	))

	properties.Property("isolated nodes score their base value", prop.ForAll(
		func(bases []float64, codes []int) bool {
			g, _ := scoregraph.NewGeneral(scoregraph.DefaultOptions())
			seed(t, g, bases)
			for _, p := range pairs(codes) {
				g.AddEdge(p[0], p[1])
			}
			for _, id := range g.NodeIDs() {
				n, _ := g.Neighbors(id)
				if len(n) > 0 {
					continue
				}
				s, _ := g.Score(id)
				b, _ := g.BaseValue(id)
				if s != b {
					return false
				}
			}
			return true
		},
		basesGen, gen.SliceOf(gen.IntRange(0, 15)),
	))

	properties.Property("general fixed point is stable under recalculation", prop.ForAll(
		func(bases []float64, codes []int) bool {
			g, _ := scoregraph.NewGeneral(propertyOptions())
			seed(t, g, bases)
			for _, p := range pairs(codes) {
				g.AddEdge(p[0], p[1])
			}
			if !g.Stats().Last.Converged && g.Stats().Recalculations > 0 {
				return false
			}
			r := g.Recalculate()
			return r.Converged && r.Updated == 0
		},
		basesGen, edgesGen,
	))

	properties.Property("repeating an edge insert changes nothing", prop.ForAll(
		func(bases []float64, codes []int) bool {
			g, _ := scoregraph.NewGeneral(scoregraph.DefaultOptions())
			seed(t, g, bases)
			for _, p := range pairs(codes) {
				g.AddEdge(p[0], p[1])
			}
			edges := g.Edges()
			scores := g.Scores()

			for _, e := range edges {
				if _, err := g.AddEdge(e.B, e.A); err != nil {
					return false
				}
			}
			if !slices.Equal(edges, g.Edges()) {
				return false
			}
			for id, s := range g.Scores() {
				if scores[id] != s {
					return false
				}
			}
			return true
		},
		basesGen, edgesGen,
	))

	properties.TestingRun(t)
}
