package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-scoregraph/pkg/scoregraph"
)

func buildGeneral(t *testing.T, nodes []scoregraph.NodeID, edges [][2]scoregraph.NodeID) *scoregraph.General {
	t.Helper()
	g, err := scoregraph.NewGeneral(scoregraph.DefaultOptions())
	require.NoError(t, err)
	for _, id := range nodes {
		require.NoError(t, g.AddNode(id, 1))
	}
	for _, e := range edges {
		_, err := g.AddEdge(e[0], e[1])
		require.NoError(t, err)
	}
	return g
}

func TestAnalyze_Forest(t *testing.T) {
	g := buildGeneral(t,
		[]scoregraph.NodeID{1, 2, 3, 10, 11, 20},
		[][2]scoregraph.NodeID{{1, 2}, {2, 3}, {10, 11}},
	)

	r := Analyze(g)
	assert.Equal(t, Report{Nodes: 6, Edges: 3, Components: 3, CircuitRank: 0, Acyclic: true}, r)

	v := NewView(g)
	assert.Equal(t, [][]scoregraph.NodeID{{1, 2, 3}, {10, 11}, {20}}, v.Components())
	assert.Empty(t, v.Cycles())
}

func TestAnalyze_Triangle(t *testing.T) {
	g := buildGeneral(t,
		[]scoregraph.NodeID{1, 2, 3},
		[][2]scoregraph.NodeID{{1, 2}, {2, 3}, {3, 1}},
	)

	r := Analyze(g)
	assert.False(t, r.Acyclic)
	assert.Equal(t, 1, r.CircuitRank)

	cycles := NewView(g).Cycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []scoregraph.NodeID{1, 2, 3}, cycles[0])
}

func TestPathExists(t *testing.T) {
	g := buildGeneral(t,
		[]scoregraph.NodeID{1, 2, 3, 4},
		[][2]scoregraph.NodeID{{1, 2}, {2, 3}},
	)
	v := NewView(g)

	assert.True(t, v.PathExists(1, 3))
	assert.False(t, v.PathExists(1, 4))
	assert.False(t, v.PathExists(1, 99))
}

func TestViewHandlesLargeIDs(t *testing.T) {
	big := scoregraph.NodeID(1<<63 + 5)
	g := buildGeneral(t,
		[]scoregraph.NodeID{big, 7},
		[][2]scoregraph.NodeID{{big, 7}},
	)
	v := NewView(g)
	assert.True(t, v.PathExists(7, big))
	assert.Equal(t, [][]scoregraph.NodeID{{7, big}}, v.Components())
}

func TestForestNeverReportsCycle(t *testing.T) {
	f, err := scoregraph.NewForest(scoregraph.DefaultOptions())
	require.NoError(t, err)
	for id := scoregraph.NodeID(1); id <= 8; id++ {
		require.NoError(t, f.AddNode(id, float64(id)))
	}
	for a := scoregraph.NodeID(1); a <= 8; a++ {
		for b := a + 1; b <= 8; b++ {
			f.AddEdge(a, b)
		}
	}

	r := Analyze(f)
	assert.True(t, r.Acyclic)
	assert.Equal(t, 1, r.Components)
	assert.Equal(t, 7, r.Edges)
}
