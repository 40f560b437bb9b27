package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relatedb/queryengine/graph"
)

func TestExpandIntoConfirmsExistingEdge(t *testing.T) {
	g := buildActorMovieGraph()
	ctx := newTestContext(g)

	var a1 graph.NodeHandle
	g.ScanLabel("actor", func(h graph.NodeHandle) bool { a1 = h; return false })
	var m1 graph.NodeHandle
	g.ScanLabel("movie", func(h graph.NodeHandle) bool { m1 = h; return false })

	node := NewExpandInto("a", "", "m", "acted_in", 2)
	op := node.Operator()

	// Before either endpoint is bound, ExpandInto must ask for more input.
	res, err := op.Consume(ctx)
	require.NoError(t, err)
	require.Equal(t, graph.REFRESH, res)

	ctx.Record.Set("a", a1)
	ctx.Record.Set("m", m1)

	res, err = op.Consume(ctx)
	require.NoError(t, err)
	require.Equal(t, graph.OK, res)

	// A successful OK must be followed by a forced REFRESH before it would
	// ever re-emit the same confirmed pair.
	res, err = op.Consume(ctx)
	require.NoError(t, err)
	require.Equal(t, graph.REFRESH, res)
}

func TestExpandIntoRejectsNonEdge(t *testing.T) {
	g := buildActorMovieGraph()
	ctx := newTestContext(g)

	var a1 graph.NodeHandle
	g.ScanLabel("actor", func(h graph.NodeHandle) bool { a1 = h; return false })
	var m1 graph.NodeHandle
	g.ScanLabel("movie", func(h graph.NodeHandle) bool { m1 = h; return false })

	node := NewExpandInto("m", "", "a", "acted_in", 0)
	op := node.Operator()

	ctx.Record.Set("m", m1)
	ctx.Record.Set("a", a1)

	res, err := op.Consume(ctx)
	require.NoError(t, err)
	require.Equal(t, graph.REFRESH, res)
}
