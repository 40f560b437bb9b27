package queryengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relatedb/queryengine/filtertree"
	"github.com/relatedb/queryengine/graph"
	"github.com/relatedb/queryengine/storage/memgraph"
)

func buildEngineFixture() *memgraph.Graph {
	g := memgraph.New()
	g.AddNode("actor", map[string]interface{}{"name": "A", "age": int32(40)})
	g.AddNode("actor", map[string]interface{}{"name": "B", "age": int32(20)})
	g.AddNode("actor", map[string]interface{}{"name": "C", "age": int32(55)})
	return g
}

// TestEngineQueryRunsFullPipeline exercises Plan -> Optimize -> Execute
// end to end through the façade, same as a caller would drive it.
func TestEngineQueryRunsFullPipeline(t *testing.T) {
	g := buildEngineFixture()
	e := NewEngine(Config{}, g)

	pg := graph.NewPatternGraph()
	pg.AddNode("x", "actor")
	ast := &graph.AST{
		Match:  pg,
		Where:  filtertree.NewPredicate("x", "age", filtertree.Gt, int32(30)),
		Return: graph.ReturnClause{Items: []graph.ReturnItem{{Alias: "x", Prop: "name", As: "name"}}},
	}

	rs, err := e.Query(context.Background(), "g", ast)
	require.NoError(t, err)
	require.False(t, rs.Truncated)
	require.ElementsMatch(t, []interface{}{"A", "C"}, []interface{}{rs.Rows[0][0], rs.Rows[1][0]})
}

// TestEngineQueryTruncatesAtMaxRows covers the façade-level row cap that
// sits outside the executor's own contract.
func TestEngineQueryTruncatesAtMaxRows(t *testing.T) {
	g := buildEngineFixture()
	e := NewEngine(Config{MaxRows: 1}, g)

	pg := graph.NewPatternGraph()
	pg.AddNode("x", "actor")
	ast := &graph.AST{
		Match:  pg,
		Return: graph.ReturnClause{Items: []graph.ReturnItem{{Alias: "x", Prop: "name", As: "name"}}},
	}

	rs, err := e.Query(context.Background(), "g", ast)
	require.NoError(t, err)
	require.True(t, rs.Truncated)
	require.Equal(t, 1, rs.Len())
}

// TestEngineQueryEmptyPatternGraphYieldsEmptyResultSet covers the
// empty-pattern-graph boundary at the façade level, not just inside
// plan/planner.
func TestEngineQueryEmptyPatternGraphYieldsEmptyResultSet(t *testing.T) {
	g := buildEngineFixture()
	e := NewEngine(Config{}, g)

	ast := &graph.AST{
		Match:  graph.NewPatternGraph(),
		Return: graph.ReturnClause{},
	}

	rs, err := e.Query(context.Background(), "g", ast)
	require.NoError(t, err)
	require.Equal(t, 0, rs.Len())
}
