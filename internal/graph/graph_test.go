package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/modgraph/internal/extract"
)

func TestNew_AdjacencyIsSortedAndUnique(t *testing.T) {
	g := mkGraph(t, []string{"c", "a", "b"}, "a->c", "a->b", "a->b", "c->a")

	a, ok := g.Node(id("a"))
	require.True(t, ok)
	assert.Equal(t, []ModuleID{id("b"), id("c")}, a.Out)
	assert.Equal(t, []ModuleID{id("c")}, a.In)
	assert.Equal(t, 2, a.FanOut())
	assert.Equal(t, 1, a.FanIn())

	// Both a->b edges differ by line, so both are kept.
	assert.Len(t, g.EdgesFrom(id("a")), 3)
	assert.Equal(t, []ModuleID{id("a"), id("b"), id("c")}, g.IDs())
	assert.Equal(t, "a.ts", a.Path)
}

func TestNew_DropsIdenticalEdges(t *testing.T) {
	e := Edge{From: id("a"), To: id("b"), Specifier: "./b", Kind: extract.Static, Line: 1}
	g := New(testRoot, nil, []Edge{e, e})
	assert.Len(t, g.Edges, 1)
	assert.Equal(t, 2, g.Len(), "edge endpoints become nodes")
}

func TestNew_SelfEdgeCounts(t *testing.T) {
	g := mkGraph(t, []string{"a"}, "a->a")
	a, _ := g.Node(id("a"))
	assert.Equal(t, 1, a.FanIn())
	assert.Equal(t, 1, a.FanOut())
}

func TestNew_OrderIndependent(t *testing.T) {
	g1 := mkGraph(t, []string{"a", "b", "c"}, "a->b", "b->c", "c->a")
	g2 := mkGraph(t, []string{"c", "b", "a"}, "c->a", "b->c", "a->b")
	// Line numbers follow argument order in mkGraph; normalise them.
	for i := range g2.Edges {
		g2.Edges[i].Line = 0
	}
	for i := range g1.Edges {
		g1.Edges[i].Line = 0
	}
	j1, err := json.Marshal(g1)
	require.NoError(t, err)
	j2, err := json.Marshal(g2)
	require.NoError(t, err)
	assert.JSONEq(t, string(j1), string(j2))
}

func TestGraph_EmptyIsValid(t *testing.T) {
	g := New(testRoot, nil, nil)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Cycles(CycleOptions{}))
	assert.Empty(t, g.Components())
	assert.Empty(t, g.Rank(FanIn, 5))
	assert.Empty(t, g.OverThreshold(FanOut, 0))

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":"/r","nodes":[],"edges":[]}`, string(data))
}

func TestGraph_EdgesTo(t *testing.T) {
	g := mkGraph(t, nil, "a->c", "b->c", "c->a")
	edges := g.EdgesTo(id("c"))
	require.Len(t, edges, 2)
	assert.Equal(t, id("a"), edges[0].From)
	assert.Equal(t, id("b"), edges[1].From)
}

func TestGraph_PathOfUnknown(t *testing.T) {
	g := mkGraph(t, []string{"a"})
	assert.Equal(t, "/elsewhere.ts", g.Path("/elsewhere.ts"))
	assert.False(t, g.Has("/elsewhere.ts"))
	assert.Equal(t, "lib/new.ts", g.Path(ModuleID(testRoot+"/lib/new.ts")), "unknown IDs under the root are still relative")
}
