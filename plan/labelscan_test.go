package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relatedb/queryengine/graph"
)

func TestNodeByLabelScanFiltersLabel(t *testing.T) {
	g := buildActorMovieGraph()
	ctx := newTestContext(g)
	node := NewNodeByLabelScan("a", "actor")

	var seen int
	for {
		res, err := ExecuteNode(ctx, node)
		require.NoError(t, err)
		if res == graph.DEPLETED {
			break
		}
		require.Equal(t, graph.OK, res)
		h, ok := ctx.Record.GetNode("a")
		require.True(t, ok)
		label, ok := g.Label(h)
		require.True(t, ok)
		require.Equal(t, "actor", label)
		seen++
	}
	require.Equal(t, 2, seen)
}

func TestNodeByLabelScanUnknownLabelDepletesImmediately(t *testing.T) {
	g := buildActorMovieGraph()
	ctx := newTestContext(g)
	node := NewNodeByLabelScan("x", "director")

	res, err := ExecuteNode(ctx, node)
	require.NoError(t, err)
	require.Equal(t, graph.DEPLETED, res)
}
