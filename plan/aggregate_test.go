package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relatedb/queryengine/graph"
)

func TestAggregateGroupsAndCounts(t *testing.T) {
	g := buildActorMovieGraph()
	ctx := newTestContext(g)

	scan := NewNodeByLabelScan("a", "actor")
	expand := NewExpandAll("a", "", "m", "acted_in", 0, -1, 1, scan)
	agg := NewAggregate([]string{"m"}, []AggCall{{Func: "COUNT", Alias: "a", As: "cnt"}}, expand)

	res, err := ExecuteNode(ctx, agg)
	require.NoError(t, err)
	require.Equal(t, graph.OK, res)

	m, ok := ctx.Record.GetNode("m")
	require.True(t, ok)
	cnt, ok := ctx.Record.Get("cnt")
	require.True(t, ok)
	require.Equal(t, int64(2), cnt)

	res, err = ExecuteNode(ctx, agg)
	require.NoError(t, err)
	require.Equal(t, graph.DEPLETED, res)

	var dsts []graph.NodeHandle
	g.ScanLabel("movie", func(h graph.NodeHandle) bool { dsts = append(dsts, h); return true })
	require.Equal(t, dsts[0], m)
}

func TestAggregateResetReemitsWithoutRedraining(t *testing.T) {
	g := buildActorMovieGraph()
	ctx := newTestContext(g)

	scan := NewNodeByLabelScan("a", "actor")
	expand := NewExpandAll("a", "", "m", "acted_in", 0, -1, 1, scan)
	agg := NewAggregate([]string{"m"}, []AggCall{{Func: "COUNT", Alias: "a", As: "cnt"}}, expand)

	res, err := ExecuteNode(ctx, agg)
	require.NoError(t, err)
	require.Equal(t, graph.OK, res)

	res, err = ExecuteNode(ctx, agg)
	require.NoError(t, err)
	require.Equal(t, graph.DEPLETED, res)

	require.NoError(t, agg.Operator().Reset())
	agg.SetState(Uninitialized)

	res, err = ExecuteNode(ctx, agg)
	require.NoError(t, err)
	require.Equal(t, graph.OK, res)
	cnt, _ := ctx.Record.Get("cnt")
	require.Equal(t, int64(2), cnt)
}
