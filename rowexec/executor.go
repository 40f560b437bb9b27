// Package rowexec implements the top-level pull-based driver loop:
// repeatedly call execute_node(root) until it returns something other
// than OK, with the ProduceResults operator
// accumulating the result set as a side effect of each successful
// consume. The mechanics the driver calls into — execute_node and
// pull_from_streams — live in package plan rather than here, because the
// Aggregate operator must invoke them recursively on its own child
// subtree and only package plan can do that without an import cycle back
// through this package.
package rowexec

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/relatedb/queryengine/graph"
	"github.com/relatedb/queryengine/internal/glog"
	"github.com/relatedb/queryengine/plan"
)

// Executor drives an optimized plan.PlanNode DAG to completion.
type Executor struct {
	log *logrus.Entry
}

// New returns an Executor logging under the given entry, or a default one
// scoped to "executor" if log is nil.
func New(log *logrus.Entry) *Executor {
	if log == nil {
		log = glog.New("executor")
	}
	return &Executor{log: log}
}

// Run drives root to completion against g, returning the ResultSet the
// root's ProduceResults operator accumulated. An execution error does not
// abort with an empty result: the partial ResultSet accumulated so far is
// returned, marked Truncated, alongside the error. Cancellation via ctx is
// checked once per top-level iteration, transparent to operator semantics.
func (e *Executor) Run(ctx context.Context, root *plan.PlanNode, g graph.Graph) (*graph.ResultSet, error) {
	rc := graph.NewContext(ctx, g, e.log)

	pr, ok := root.Operator().(*plan.ProduceResults)
	if !ok {
		return nil, graph.ErrUnsupportedOperator.New(root.Operator().Type())
	}

	for {
		if err := rc.Err(); err != nil {
			rs := pr.ResultSet()
			rs.Truncated = true
			return rs, err
		}

		res, err := plan.ExecuteNode(rc, root)
		switch res {
		case graph.OK:
			continue
		case graph.DEPLETED:
			e.log.Debug("execution complete")
			return pr.ResultSet(), nil
		case graph.ERR:
			e.log.WithError(err).Debug("execution aborted")
			rs := pr.ResultSet()
			rs.Truncated = true
			return rs, pkgerrors.Wrap(graph.ErrExecution.New(err), "stream coordination failed")
		default:
			rs := pr.ResultSet()
			rs.Truncated = true
			return rs, graph.ErrExecution.New("unrecognized top-level result")
		}
	}
}
