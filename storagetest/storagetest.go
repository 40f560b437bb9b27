// Package storagetest exercises the graph.Graph contract once, generically,
// against whichever concrete backend a caller builds — memgraph, boltgraph,
// or badgergraph — so the three storage implementations are provably
// interchangeable rather than each carrying its own hand-duplicated
// assertions. One scripted suite, run against every backend's harness in
// turn, the same way a single query suite gets run against every
// engine-backed test harness a database supports.
package storagetest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relatedb/queryengine/graph"
)

// Builder is the write-side surface every backend exposes for seeding a
// graph in tests. It is not part of the graph.Graph read contract, since
// populating storage is a backend-specific construction concern, not
// something the query engine itself ever does.
type Builder interface {
	graph.Graph
	AddNode(label string, props map[string]interface{}) graph.NodeHandle
	AddEdge(src, dst graph.NodeHandle, kind string, props map[string]interface{}) graph.EdgeHandle
}

// RunSuite seeds g with a small actor/movie fixture and asserts the same
// properties against it regardless of which Builder implementation is
// passed in.
func RunSuite(t *testing.T, g Builder) {
	t.Helper()

	a1 := g.AddNode("actor", map[string]interface{}{"name": "A", "age": int32(40)})
	a2 := g.AddNode("actor", map[string]interface{}{"name": "B", "age": int32(20)})
	m1 := g.AddNode("movie", map[string]interface{}{"title": "M"})
	g.AddEdge(a1, m1, "acted_in", map[string]interface{}{"year": int32(2001)})
	g.AddEdge(a2, m1, "acted_in", nil)

	t.Run("ScanLabel", func(t *testing.T) {
		var seen []graph.NodeHandle
		g.ScanLabel("actor", func(h graph.NodeHandle) bool {
			seen = append(seen, h)
			return true
		})
		require.Len(t, seen, 2)
	})

	t.Run("LabelCardinality", func(t *testing.T) {
		require.Equal(t, 2, g.LabelCardinality("actor"))
		require.Equal(t, 1, g.LabelCardinality("movie"))
		require.Equal(t, -1, g.LabelCardinality("unknown"))
	})

	t.Run("InDegreeConvergence", func(t *testing.T) {
		twoIn := g.GetNDegreeNodes(2)
		require.Len(t, twoIn, 1)
		require.Equal(t, m1, twoIn[0])

		zeroIn := g.GetNDegreeNodes(0)
		require.Len(t, zeroIn, 2)
	})

	t.Run("ExpandAndHasEdge", func(t *testing.T) {
		var dests []graph.NodeHandle
		g.Expand(a1, "acted_in", func(e graph.EdgeHandle, dst graph.NodeHandle) bool {
			dests = append(dests, dst)
			return true
		})
		require.Equal(t, []graph.NodeHandle{m1}, dests)

		var anyKind []graph.NodeHandle
		g.Expand(a1, "", func(e graph.EdgeHandle, dst graph.NodeHandle) bool {
			anyKind = append(anyKind, dst)
			return true
		})
		require.Equal(t, []graph.NodeHandle{m1}, anyKind)

		_, ok := g.HasEdge(a1, m1, "acted_in")
		require.True(t, ok)

		_, ok = g.HasEdge(m1, a1, "acted_in")
		require.False(t, ok)
	})

	t.Run("PropertyLookup", func(t *testing.T) {
		v, ok := g.Property(a1, "age")
		require.True(t, ok)
		require.EqualValues(t, 40, v)

		_, ok = g.Property(a1, "missing")
		require.False(t, ok)

		label, ok := g.Label(a1)
		require.True(t, ok)
		require.Equal(t, "actor", label)
	})

	t.Run("GetNodeRefAndEdgeRef", func(t *testing.T) {
		ref, ok := g.GetNodeRef(a1.ID())
		require.True(t, ok)
		require.Equal(t, a1, ref)

		_, ok = g.GetNodeRef("does-not-exist")
		require.False(t, ok)

		var edgeID string
		g.Expand(a1, "acted_in", func(e graph.EdgeHandle, dst graph.NodeHandle) bool {
			edgeID = e.ID()
			return false
		})
		eref, ok := g.GetEdgeRef(edgeID)
		require.True(t, ok)
		require.Equal(t, edgeID, eref.ID())
	})
}
