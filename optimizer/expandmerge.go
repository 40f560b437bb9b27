package optimizer

import (
	"github.com/relatedb/queryengine/plan"
)

// applyExpandMerge rewrites converging fan-in: for every pattern-graph
// node with in-degree exactly 2, find the two ExpandAll PlanNodes whose
// destination-node handle equals it (identity comparison on the pattern
// index, not structural equality), rewrite the second into an ExpandInto,
// and make the first its child so the two independent fan-in chains
// converge at a single verification point instead of each generating the
// shared node independently.
func applyExpandMerge(p *Plan) error {
	for n := range p.Pattern.Nodes {
		if p.Pattern.InDegree(n) != 2 {
			continue
		}
		found := findExpandAllsByDst(p.Root, n)
		if len(found) != 2 {
			// Fewer than two means the planner's chain walk, which
			// follows only the first outgoing edge of each node, built
			// no expand for one of the incoming edges; more than two is
			// not representable by a single merge. Either way the node
			// is left alone rather than guessed at.
			continue
		}
		mergeAt(found[1], found[0])
	}
	return nil
}

// findExpandAllsByDst locates every PlanNode reachable from root (by
// breadth-first search along child edges) wrapping an ExpandAll operator
// whose destination pattern index equals dst. Since the DAG has no shared
// descendants before this pass runs for the first convergence node, a
// plain BFS visiting every reachable node once is sufficient; the visited
// set guards later convergence nodes against the diamonds earlier merges
// in the same pass may have already introduced.
func findExpandAllsByDst(root *plan.PlanNode, dst int) []*plan.PlanNode {
	var found []*plan.PlanNode
	visited := make(map[*plan.PlanNode]bool)
	queue := []*plan.PlanNode{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == nil || visited[n] {
			continue
		}
		visited[n] = true

		if ea, ok := n.Operator().(*plan.ExpandAll); ok && ea.DstNode() == dst {
			found = append(found, n)
		}
		queue = append(queue, n.Children()...)
	}
	return found
}

// mergeAt rewrites a's operator into an ExpandInto (freeing the old
// ExpandAll) and re-links b as a's child, reattaching every other parent
// of b to a instead.
func mergeAt(a, b *plan.PlanNode) {
	ea := a.Operator().(*plan.ExpandAll)
	a.SetOperator(plan.NewExpandIntoOp(ea.SrcAlias(), ea.EdgeAlias(), ea.DstAlias(), ea.RelType(), ea.DstNode()))

	origParents := append([]*plan.PlanNode(nil), b.Parents()...)
	a.AddChild(b)

	for _, p := range origParents {
		if p == a {
			continue
		}
		if !hasChild(p, a) {
			p.AddChild(a)
		}
		p.RemoveChild(b)
	}
}

func hasChild(n, candidate *plan.PlanNode) bool {
	for _, c := range n.Children() {
		if c == candidate {
			return true
		}
	}
	return false
}
