package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relatedb/queryengine/graph"
)

func TestProduceResultsAccumulatesEveryTuple(t *testing.T) {
	g := buildActorMovieGraph()
	ctx := newTestContext(g)

	scan := NewNodeByLabelScan("a", "actor")
	produce := NewProduceResults(graph.ReturnClause{
		Items: []graph.ReturnItem{{Alias: "a", Prop: "name", As: "name"}},
	}, scan)

	for {
		res, err := ExecuteNode(ctx, produce)
		require.NoError(t, err)
		if res == graph.DEPLETED {
			break
		}
		require.Equal(t, graph.OK, res)
	}

	op := produce.Operator().(*ProduceResults)
	rs := op.ResultSet()
	require.Equal(t, []string{"name"}, rs.Columns)
	require.Equal(t, 2, rs.Len())
	require.ElementsMatch(t, []interface{}{"A", "B"}, []interface{}{rs.Rows[0][0], rs.Rows[1][0]})
}

// TestProduceResultsWithNoChildrenYieldsEmptyResultSet covers the boundary
// for an empty pattern graph: a childless ProduceResults (nothing can ever
// bind a value upstream) must report DEPLETED immediately rather than
// emitting one degenerate all-null row.
func TestProduceResultsWithNoChildrenYieldsEmptyResultSet(t *testing.T) {
	g := buildActorMovieGraph()
	ctx := newTestContext(g)

	produce := NewProduceResults(graph.ReturnClause{})

	res, err := ExecuteNode(ctx, produce)
	require.NoError(t, err)
	require.Equal(t, graph.DEPLETED, res)

	op := produce.Operator().(*ProduceResults)
	require.Equal(t, 0, op.ResultSet().Len())
}
