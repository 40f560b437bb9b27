package memgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relatedb/queryengine/graph"
	"github.com/relatedb/queryengine/storagetest"
)

// TestStorageSuite proves this backend satisfies the same behavior the
// other graph.Graph implementations (boltgraph, badgergraph) are held to.
func TestStorageSuite(t *testing.T) {
	storagetest.RunSuite(t, New())
}

func buildActorMovieGraph() (*Graph, map[string]graph.NodeHandle) {
	g := New()
	a1 := g.AddNode("actor", map[string]interface{}{"name": "A", "age": int32(40)})
	a2 := g.AddNode("actor", map[string]interface{}{"name": "B", "age": int32(20)})
	m1 := g.AddNode("movie", map[string]interface{}{"title": "M"})
	g.AddEdge(a1, m1, "acted_in", nil)
	g.AddEdge(a2, m1, "acted_in", nil)

	return g, map[string]graph.NodeHandle{"a1": a1, "a2": a2, "m1": m1}
}

func TestScanLabel(t *testing.T) {
	g, _ := buildActorMovieGraph()

	var seen []graph.NodeHandle
	g.ScanLabel("actor", func(h graph.NodeHandle) bool {
		seen = append(seen, h)
		return true
	})
	require.Len(t, seen, 2)
}

func TestInDegreeTwoConvergence(t *testing.T) {
	g, h := buildActorMovieGraph()

	twoIn := g.GetNDegreeNodes(2)
	require.Len(t, twoIn, 1)
	require.Equal(t, h["m1"], twoIn[0])

	zeroIn := g.GetNDegreeNodes(0)
	require.Len(t, zeroIn, 2)
}

func TestExpandAndHasEdge(t *testing.T) {
	g, h := buildActorMovieGraph()
	a1 := h["a1"]
	m1 := h["m1"]

	var dests []graph.NodeHandle
	g.Expand(a1, "acted_in", func(e graph.EdgeHandle, dst graph.NodeHandle) bool {
		dests = append(dests, dst)
		return true
	})
	require.Equal(t, []graph.NodeHandle{m1}, dests)

	_, ok := g.HasEdge(a1, m1, "acted_in")
	require.True(t, ok)

	_, ok = g.HasEdge(m1, a1, "acted_in")
	require.False(t, ok)
}

func TestPropertyLookup(t *testing.T) {
	g, h := buildActorMovieGraph()
	a1 := h["a1"]

	v, ok := g.Property(a1, "age")
	require.True(t, ok)
	require.Equal(t, int32(40), v)

	_, ok = g.Property(a1, "missing")
	require.False(t, ok)
}
