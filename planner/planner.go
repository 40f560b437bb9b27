// Package planner builds a DAG of plan.PlanNode operators from a query AST
// in one pass, no optimization, just the literal translation of pattern
// shape into operator shape.
package planner

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/relatedb/queryengine/graph"
	"github.com/relatedb/queryengine/internal/glog"
	"github.com/relatedb/queryengine/plan"
)

// Planner translates a graph.AST into an unoptimized plan.PlanNode DAG.
type Planner struct {
	log *logrus.Entry
}

// New returns a Planner logging under the given entry, or a default one
// scoped to "planner" if log is nil.
func New(log *logrus.Entry) *Planner {
	if log == nil {
		log = glog.New("planner")
	}
	return &Planner{log: log}
}

// Plan builds the root PlanNode for ast against graphName. graphName exists
// only for logging; this subsystem plans against the shape of ast and never
// touches storage.
func (p *Planner) Plan(ctx context.Context, graphName string, ast *graph.AST) (*plan.PlanNode, error) {
	if ast == nil || ast.Match == nil {
		return nil, graph.ErrMalformedPattern.New("nil match clause")
	}

	pg := ast.Match
	p.log.WithFields(logrus.Fields{
		"graph": graphName,
		"nodes": len(pg.Nodes),
		"edges": len(pg.Edges),
	}).Debug("planning query")

	if len(pg.Nodes) == 0 {
		return plan.NewProduceResults(ast.Return, nil), nil
	}

	roots := pg.Roots()
	if len(roots) == 0 {
		return nil, graph.ErrMalformedPattern.New("pattern graph has no entry point")
	}

	// One chain fragment per entry point, in pattern order; a pattern with
	// more than one root (e.g. two chains that only converge at a later
	// expand-merge node) feeds all of them in as siblings, combined by the
	// generic multi-stream Cartesian pull every PlanNode already supports.
	fragments := make([]*plan.PlanNode, len(roots))
	for i, n := range roots {
		fragments[i] = p.buildChain(pg, n)
	}

	var root *plan.PlanNode
	if ast.Return.HasAggregation() {
		root = plan.NewProduceResults(ast.Return, plan.NewAggregate(groupKeys(ast.Return), aggCalls(ast.Return), fragments...))
	} else {
		root = plan.NewProduceResults(ast.Return, fragments...)
	}

	p.log.Debug("planning complete")
	return root, nil
}

// buildChain walks outgoingEdges[0] from entry until a node with no
// outgoing edge is reached, producing one ExpandAll per edge. The expand
// whose source is entry is deliberately left without a child: attaching
// its scan leaf is the optimizer's entry-point selection pass, not the
// planner's job, so that pass has childless ExpandAll PlanNodes to find.
// An isolated entry (no outgoing edges at all) is the one case the
// planner resolves directly.
func (p *Planner) buildChain(pg *graph.PatternGraph, entry int) *plan.PlanNode {
	out := pg.OutgoingEdges(entry)
	if len(out) == 0 {
		return scanFor(pg.Nodes[entry])
	}

	var edgeIdxs []int
	cur := entry
	for {
		o := pg.OutgoingEdges(cur)
		if len(o) == 0 {
			break
		}
		ei := o[0]
		edgeIdxs = append(edgeIdxs, ei)
		cur = pg.Edges[ei].To
	}

	var current *plan.PlanNode
	for _, ei := range edgeIdxs {
		e := pg.Edges[ei]
		current = plan.NewExpandAll(
			pg.Nodes[e.From].Alias, e.Alias, pg.Nodes[e.To].Alias, e.RelType,
			e.From, ei, e.To,
			current,
		)
	}
	return current
}

func scanFor(n graph.PatternNode) *plan.PlanNode {
	if n.Label != "" {
		return plan.NewNodeByLabelScan(n.Alias, n.Label)
	}
	return plan.NewAllNodeScan(n.Alias)
}

func groupKeys(rc graph.ReturnClause) []string {
	keys := make([]string, 0, len(rc.Items))
	for _, item := range rc.Items {
		keys = append(keys, item.Alias)
	}
	return keys
}

func aggCalls(rc graph.ReturnClause) []plan.AggCall {
	calls := make([]plan.AggCall, len(rc.Aggregates))
	for i, a := range rc.Aggregates {
		calls[i] = plan.AggCall{Func: aggFuncName(a.Func), Alias: a.Alias, Prop: a.Prop, As: a.As}
	}
	return calls
}

func aggFuncName(f graph.AggregateFunc) string {
	switch f {
	case graph.SumAgg:
		return "SUM"
	case graph.AvgAgg:
		return "AVG"
	case graph.MinAgg:
		return "MIN"
	case graph.MaxAgg:
		return "MAX"
	case graph.CollectAgg:
		return "COLLECT"
	default:
		return "COUNT"
	}
}
