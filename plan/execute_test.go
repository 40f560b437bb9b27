package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relatedb/queryengine/graph"
)

// cartesianJoin is a stand-in multi-child operator used only to exercise
// PullFromStreams' leftmost-advances-fastest contract: it has no logic of
// its own and simply reports the state its children leave behind.
type cartesianJoin struct{}

func (cartesianJoin) Type() graph.OperatorType                  { return graph.ExpandIntoOp }
func (cartesianJoin) Modifies() []string                        { return nil }
func (cartesianJoin) Reset() error                               { return nil }
func (cartesianJoin) Free()                                      {}
func (cartesianJoin) String() string                             { return "cartesianJoin" }
func (cartesianJoin) Consume(ctx *graph.Context) (graph.OpResult, error) {
	return graph.OK, nil
}

func TestPullFromStreamsEnumeratesFullCartesianProduct(t *testing.T) {
	g := buildActorMovieGraph()
	ctx := newTestContext(g)

	left := NewNodeByLabelScan("l", "actor")  // 2 nodes
	right := NewNodeByLabelScan("r", "movie") // 1 node
	join := New(&cartesianJoin{}, left, right)

	var pairs [][2]graph.NodeHandle
	for i := 0; i < 10; i++ {
		res, err := PullFromStreams(ctx, join)
		require.NoError(t, err)
		if res != graph.OK {
			break
		}
		l, _ := ctx.Record.GetNode("l")
		r, _ := ctx.Record.GetNode("r")
		pairs = append(pairs, [2]graph.NodeHandle{l, r})
	}

	// 2 lefts x 1 right = 2 total pairs before the whole join depletes.
	require.Len(t, pairs, 2)
	require.NotEqual(t, pairs[0][0], pairs[1][0])
	require.Equal(t, pairs[0][1], pairs[1][1])
}

func TestExecuteNodeRepullsChildOnRefresh(t *testing.T) {
	g := buildActorMovieGraph()
	ctx := newTestContext(g)

	scan := NewNodeByLabelScan("a", "actor")
	expand := NewExpandAll("a", "", "m", "acted_in", 0, -1, 1, scan)

	var seen int
	for {
		res, err := ExecuteNode(ctx, expand)
		require.NoError(t, err)
		if res == graph.DEPLETED {
			break
		}
		require.Equal(t, graph.OK, res)
		seen++
	}
	require.Equal(t, 2, seen)
}
