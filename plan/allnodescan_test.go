package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relatedb/queryengine/graph"
	"github.com/relatedb/queryengine/storage/memgraph"
)

func newTestContext(g graph.Graph) *graph.Context {
	return graph.NewContext(context.Background(), g, nil)
}

func buildActorMovieGraph() *memgraph.Graph {
	g := memgraph.New()
	a1 := g.AddNode("actor", map[string]interface{}{"name": "A", "age": int32(40)})
	a2 := g.AddNode("actor", map[string]interface{}{"name": "B", "age": int32(20)})
	m1 := g.AddNode("movie", map[string]interface{}{"title": "M"})
	g.AddEdge(a1, m1, "acted_in", nil)
	g.AddEdge(a2, m1, "acted_in", nil)
	return g
}

func TestAllNodeScanYieldsEveryNode(t *testing.T) {
	g := buildActorMovieGraph()
	ctx := newTestContext(g)
	node := NewAllNodeScan("n")

	var seen int
	for {
		res, err := ExecuteNode(ctx, node)
		require.NoError(t, err)
		if res == graph.DEPLETED {
			break
		}
		require.Equal(t, graph.OK, res)
		_, ok := ctx.Record.GetNode("n")
		require.True(t, ok)
		seen++
	}
	require.Equal(t, 3, seen)
}

func TestAllNodeScanResetRescans(t *testing.T) {
	g := buildActorMovieGraph()
	ctx := newTestContext(g)
	node := NewAllNodeScan("n")

	res, err := ExecuteNode(ctx, node)
	require.NoError(t, err)
	require.Equal(t, graph.OK, res)

	require.NoError(t, node.Operator().Reset())
	node.SetState(Uninitialized)

	var seen int
	for {
		res, err := ExecuteNode(ctx, node)
		require.NoError(t, err)
		if res == graph.DEPLETED {
			break
		}
		seen++
	}
	require.Equal(t, 3, seen)
}
