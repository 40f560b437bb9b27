package optimizer

import (
	"github.com/relatedb/queryengine/graph"
	"github.com/relatedb/queryengine/plan"
)

// applyEntrypointSelection walks the DAG from the root, and at every
// ExpandAll PlanNode with no children, attaches a scan over the expand's
// source node — NodeByLabelScan if that pattern node carries a label,
// AllNodeScan otherwise. A cardinality-aware variant that prefers the
// lower-cardinality side is a legitimate alternative; this implementation
// always picks the expand's own source node, which is deterministic.
func applyEntrypointSelection(p *Plan) error {
	visited := make(map[*plan.PlanNode]bool)
	var walk func(n *plan.PlanNode)
	walk = func(n *plan.PlanNode) {
		if n == nil || visited[n] {
			return
		}
		visited[n] = true

		if ea, ok := n.Operator().(*plan.ExpandAll); ok && len(n.Children()) == 0 {
			n.AddChild(entryScan(p.Pattern, ea))
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(p.Root)
	return nil
}

// entryScan builds the scan leaf for an ExpandAll's source node, looking
// up its label in the pattern graph by the stable index the planner
// stashed on the operator.
func entryScan(pg *graph.PatternGraph, ea *plan.ExpandAll) *plan.PlanNode {
	n := pg.Nodes[ea.SrcNode()]
	if n.Label != "" {
		return plan.NewNodeByLabelScan(ea.SrcAlias(), n.Label)
	}
	return plan.NewAllNodeScan(ea.SrcAlias())
}
