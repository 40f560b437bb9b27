package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relatedb/queryengine/filtertree"
	"github.com/relatedb/queryengine/graph"
)

func TestFilterPassesOnlyMatchingTuples(t *testing.T) {
	g := buildActorMovieGraph()
	ctx := newTestContext(g)

	scan := NewNodeByLabelScan("a", "actor")
	pred := filtertree.NewPredicate("a", "age", filtertree.Gt, 30)
	filter := NewFilter(pred, scan)

	var ages []interface{}
	for {
		res, err := ExecuteNode(ctx, filter)
		require.NoError(t, err)
		if res == graph.DEPLETED {
			break
		}
		require.Equal(t, graph.OK, res)
		h, _ := ctx.Record.GetNode("a")
		v, _ := g.Property(h, "age")
		ages = append(ages, v)
	}
	require.Equal(t, []interface{}{int32(40)}, ages)
}

func TestFilterRequiresAliasBoundBeforeEvaluating(t *testing.T) {
	g := buildActorMovieGraph()
	ctx := newTestContext(g)

	pred := filtertree.NewPredicate("missing", "age", filtertree.Eq, 1)
	filter := NewFilter(pred, NewNodeByLabelScan("a", "actor"))
	op := filter.Operator()

	res, err := op.Consume(ctx)
	require.NoError(t, err)
	require.Equal(t, graph.REFRESH, res)
}
