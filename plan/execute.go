package plan

import (
	"fmt"

	"github.com/relatedb/queryengine/graph"
)

// ExecuteNode implements execute_node: mark the node Consuming,
// call its Operator's Consume, and on REFRESH reset and pull fresh data
// from its children before retrying, looping until a terminal result (OK,
// DEPLETED, or ERR) comes back.
func ExecuteNode(ctx *graph.Context, node *PlanNode) (graph.OpResult, error) {
	node.SetState(Consuming)

	for {
		res, err := node.Operator().Consume(ctx)
		switch res {
		case graph.OK:
			return graph.OK, nil
		case graph.DEPLETED:
			node.SetState(Depleted)
			return graph.DEPLETED, nil
		case graph.ERR:
			return graph.ERR, err
		case graph.REFRESH:
			if rerr := node.Operator().Reset(); rerr != nil {
				return graph.ERR, rerr
			}
			pullRes, perr := PullFromStreams(ctx, node)
			if pullRes != graph.OK {
				return pullRes, perr
			}
			// loop: retry Consume now that children advanced
		default:
			return graph.ERR, fmt.Errorf("unrecognized operator result %v", res)
		}
	}
}

// PullFromStreams implements pull_from_streams: coordinate N
// child streams as a Cartesian-product join where the left-most stream
// advances fastest. Each call advances the first child (scanning left to
// right) that still yields a tuple; children to its right keep their current
// tuples (any not yet started are driven once), and the depleted children to
// its left are reset and re-driven from scratch so the product continues.
func PullFromStreams(ctx *graph.Context, source *PlanNode) (graph.OpResult, error) {
	children := source.Children()

	k := -1
	for i, c := range children {
		res, err := ExecuteNode(ctx, c)
		if res == graph.ERR {
			return graph.ERR, err
		}
		if res == graph.OK {
			k = i
			break
		}
		// DEPLETED: this stream has nothing left; try the next one.
	}
	if k == -1 {
		return graph.DEPLETED, nil
	}

	for i := k + 1; i < len(children); i++ {
		c := children[i]
		if c.State() != Uninitialized {
			continue
		}
		res, err := ExecuteNode(ctx, c)
		if res != graph.OK {
			return graph.DEPLETED, err
		}
	}

	for i := k - 1; i >= 0; i-- {
		c := children[i]
		if err := resetSubtree(c); err != nil {
			return graph.ERR, err
		}
		res, err := ExecuteNode(ctx, c)
		if res != graph.OK {
			return graph.ERR, err
		}
	}

	return graph.OK, nil
}

// resetSubtree recursively resets every Operator in node's subtree and
// marks every PlanNode Uninitialized again, re-arming it for another
// Cartesian-product pass.
func resetSubtree(node *PlanNode) error {
	if err := node.Operator().Reset(); err != nil {
		return err
	}
	node.SetState(Uninitialized)
	for _, c := range node.Children() {
		if err := resetSubtree(c); err != nil {
			return err
		}
	}
	return nil
}
