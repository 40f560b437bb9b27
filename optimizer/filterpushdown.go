package optimizer

import (
	"github.com/relatedb/queryengine/filtertree"
	"github.com/relatedb/queryengine/plan"
)

// applyFilterPushdown is a post-order traversal that, at each PlanNode
// (bottom-up), checks whether the
// shrinking global filter tree contains a placeable unit satisfied by the
// bindings available at that point, and if so extracts and removes it
// and splices a new Filter PlanNode in as an intermediary above the
// current node.
func applyFilterPushdown(p *Plan) error {
	if p.Where == nil {
		return nil
	}
	state := &pushdownState{tree: p.Where, root: p.Root}
	pushdown(p.Root, state)
	p.Root = state.root
	return nil
}

type pushdownState struct {
	tree filtertree.Tree
	root *plan.PlanNode
}

// pushdown recurses into node's children first, then unions their seen
// binding sets with node's own Modifies to get the full set of bindings
// available immediately above node. A predicate is only ever placed as
// high as the lowest PlanNode whose own transitive Modifies already
// covers every alias it references — so a predicate on an expand's
// destination alias lands directly above that expand, not above its
// source scan, because the destination isn't bound until the expand
// itself runs. The returned set (which already includes node's own
// Modifies) is what the caller uses for its own check.
func pushdown(node *plan.PlanNode, state *pushdownState) map[string]bool {
	if state.tree == nil {
		// Once the global filter tree is empty, no further placement can
		// ever happen, so there is no reason to keep computing seen sets.
		return nil
	}

	available := make(map[string]bool)
	for _, c := range node.Children() {
		for a := range pushdown(c, state) {
			available[a] = true
		}
	}
	for _, m := range node.Operator().Modifies() {
		available[m] = true
	}

	if state.tree != nil && state.tree.ContainsNode(available) {
		sub := state.tree.MinFilterTree(available)
		state.tree = state.tree.RemovePredNodes(available)

		origParents := append([]*plan.PlanNode(nil), node.Parents()...)
		filterNode := plan.NewFilter(sub, node)
		for _, parent := range origParents {
			parent.ReplaceChild(node, filterNode)
		}
		if node == state.root {
			state.root = filterNode
		}
	}

	return available
}
