// Package topology inspects the structure of a score graph with gonum,
// independently of the engine's own traversal code.
package topology

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/dd0wney/cluso-scoregraph/pkg/scoregraph"
)

// Source is the read side of a Forest or General graph.
type Source interface {
	NodeIDs() []scoregraph.NodeID
	Edges() []scoregraph.Edge
}

// View is a gonum copy of a graph's structure.
type View struct {
	graph *simple.UndirectedGraph
	ids   map[scoregraph.NodeID]int64 // engine ID -> gonum ID
	back  []scoregraph.NodeID         // gonum ID -> engine ID
	edges int
}

// NewView snapshots the structure of src. Engine IDs are remapped to dense
// gonum IDs so any uint64 fits.
func NewView(src Source) *View {
	nodes := src.NodeIDs()
	v := &View{
		graph: simple.NewUndirectedGraph(),
		ids:   make(map[scoregraph.NodeID]int64, len(nodes)),
		back:  make([]scoregraph.NodeID, 0, len(nodes)),
	}
	for _, id := range nodes {
		gid := int64(len(v.back))
		v.ids[id] = gid
		v.back = append(v.back, id)
		v.graph.AddNode(simple.Node(gid))
	}
	for _, e := range src.Edges() {
		v.edges++
		v.graph.SetEdge(simple.Edge{F: simple.Node(v.ids[e.A]), T: simple.Node(v.ids[e.B])})
	}
	return v
}

func (v *View) engineIDs(nodes []graph.Node) []scoregraph.NodeID {
	out := make([]scoregraph.NodeID, len(nodes))
	for i, n := range nodes {
		out[i] = v.back[n.ID()]
	}
	slices.Sort(out)
	return out
}

// Components returns the connected components, each sorted, ordered by
// their smallest ID.
func (v *View) Components() [][]scoregraph.NodeID {
	cc := topo.ConnectedComponents(v.graph)
	out := make([][]scoregraph.NodeID, 0, len(cc))
	for _, c := range cc {
		out = append(out, v.engineIDs(c))
	}
	slices.SortFunc(out, func(a, b []scoregraph.NodeID) int {
		return cmp.Compare(a[0], b[0])
	})
	return out
}

// Cycles returns a cycle basis as sorted member sets. It is empty exactly
// when the graph is a forest.
func (v *View) Cycles() [][]scoregraph.NodeID {
	basis := topo.UndirectedCyclesIn(v.graph)
	out := make([][]scoregraph.NodeID, 0, len(basis))
	for _, c := range basis {
		// gonum closes each cycle by repeating its first node
		out = append(out, slices.Compact(v.engineIDs(c)))
	}
	return out
}

// PathExists reports whether a and b are connected. Unknown IDs are never
// connected.
func (v *View) PathExists(a, b scoregraph.NodeID) bool {
	ga, ok := v.ids[a]
	if !ok {
		return false
	}
	gb, ok := v.ids[b]
	if !ok {
		return false
	}
	return topo.PathExistsIn(v.graph, simple.Node(ga), simple.Node(gb))
}

// Report summarises a graph's structure.
type Report struct {
	Nodes      int
	Edges      int
	Components int
	// CircuitRank is edges - nodes + components, the number of independent
	// cycles. Zero means the graph is a forest.
	CircuitRank int
	Acyclic     bool
}

// Analyze builds a Report for src.
func Analyze(src Source) Report {
	v := NewView(src)
	r := Report{
		Nodes:      len(v.back),
		Edges:      v.edges,
		Components: len(topo.ConnectedComponents(v.graph)),
	}
	r.CircuitRank = r.Edges - r.Nodes + r.Components
	r.Acyclic = r.CircuitRank == 0
	return r
}
