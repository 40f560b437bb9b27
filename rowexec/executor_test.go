package rowexec

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relatedb/queryengine/graph"
	"github.com/relatedb/queryengine/plan"
	"github.com/relatedb/queryengine/storage/memgraph"
)

func buildActorGraph() *memgraph.Graph {
	g := memgraph.New()
	g.AddNode("actor", map[string]interface{}{"name": "A"})
	g.AddNode("actor", map[string]interface{}{"name": "B"})
	return g
}

// TestRunDrivesToCompletion covers the normal path: Run loops ExecuteNode
// until DEPLETED and hands back the accumulated ResultSet un-truncated.
func TestRunDrivesToCompletion(t *testing.T) {
	scan := plan.NewNodeByLabelScan("a", "actor")
	root := plan.NewProduceResults(graph.ReturnClause{
		Items: []graph.ReturnItem{{Alias: "a", Prop: "name", As: "name"}},
	}, scan)

	rs, err := New(nil).Run(context.Background(), root, buildActorGraph())
	require.NoError(t, err)
	require.False(t, rs.Truncated)
	require.Equal(t, 2, rs.Len())
}

// TestRunRejectsNonProduceResultsRoot covers the defensive check: Run only
// knows how to drive a DAG rooted at a ProduceResults operator.
func TestRunRejectsNonProduceResultsRoot(t *testing.T) {
	scan := plan.NewAllNodeScan("a")

	rs, err := New(nil).Run(context.Background(), scan, buildActorGraph())
	require.Error(t, err)
	require.Nil(t, rs)
}

// TestRunReturnsTruncatedResultOnExecutionError covers the partial-result
// contract: a Consume failure surfaces the error but still returns
// whatever rows the root's ProduceResults had already accumulated, marked
// Truncated.
func TestRunReturnsTruncatedResultOnExecutionError(t *testing.T) {
	failer := &failingScan{alias: "a", failAfter: 1}
	failNode := plan.New(failer)
	root := plan.NewProduceResults(graph.ReturnClause{
		Items: []graph.ReturnItem{{Alias: "a"}},
	}, failNode)

	rs, err := New(nil).Run(context.Background(), root, buildActorGraph())
	require.Error(t, err)
	require.NotNil(t, rs)
	require.True(t, rs.Truncated)
	require.Equal(t, 1, rs.Len())
}

// TestRunStopsOnCancellation covers context cancellation: Run checks the
// token once per top-level iteration and returns the partial result set
// marked Truncated rather than continuing to pull tuples.
func TestRunStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scan := plan.NewNodeByLabelScan("a", "actor")
	root := plan.NewProduceResults(graph.ReturnClause{
		Items: []graph.ReturnItem{{Alias: "a"}},
	}, scan)

	rs, err := New(nil).Run(ctx, root, buildActorGraph())
	require.Error(t, err)
	require.True(t, rs.Truncated)
	require.Equal(t, 0, rs.Len())
}

// failingScan is a leaf Operator test double that produces one tuple, then
// fails on the next Consume call, to exercise Run's ERR propagation path
// without needing a real storage-layer failure.
type failingScan struct {
	alias     string
	calls     int
	failAfter int
}

func (f *failingScan) Type() graph.OperatorType { return graph.AllNodeScanOp }
func (f *failingScan) Modifies() []string       { return []string{f.alias} }

func (f *failingScan) Consume(ctx *graph.Context) (graph.OpResult, error) {
	f.calls++
	if f.calls > f.failAfter {
		return graph.ERR, errors.New("simulated storage failure")
	}
	ctx.Record.Set(f.alias, graph.NewNodeHandle("n0"))
	return graph.OK, nil
}

func (f *failingScan) Reset() error { f.calls = 0; return nil }
func (f *failingScan) Free()        {}
func (f *failingScan) String() string { return "failingScan" }
