// Package plan implements the operator-DAG data model: PlanNode, the seven
// concrete Operator variants, and the core pull-based drive algorithm
// (ExecuteNode/PullFromStreams) that implements execute_node/pull_from_streams
// semantics. The top-level driver loop and result-set
// bookkeeping live in package rowexec; the mechanics live here because the
// Aggregate operator (plan/aggregate.go) must invoke them recursively on
// its own child subtree independent of the top-level loop, and only this
// package can do that without an import cycle back through rowexec.
package plan

import (
	"github.com/relatedb/queryengine/graph"
)

// State is a PlanNode's position in one execution pass.
type State int

const (
	Uninitialized State = iota
	Consuming
	Depleted
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Consuming:
		return "Consuming"
	case Depleted:
		return "Depleted"
	default:
		return "Unknown"
	}
}

// PlanNode is a DAG vertex wrapping exactly one Operator. Child edges are
// owning (freeing a PlanNode frees its children's Operators too, via Free);
// parent edges are non-owning back-references kept consistent with the
// invariant children[i].parents ∋ self ⇔ self.children ∋ children[i].
type PlanNode struct {
	op       graph.Operator
	children []*PlanNode
	parents  []*PlanNode
	state    State
}

// New wraps op in a fresh PlanNode with the given children attached. A nil
// entry in children is skipped rather than attached, so callers that may or
// may not have a child (e.g. a ProduceResults over an empty pattern graph)
// can pass it through unconditionally.
func New(op graph.Operator, children ...*PlanNode) *PlanNode {
	n := &PlanNode{op: op, state: Uninitialized}
	for _, c := range children {
		if c == nil {
			continue
		}
		n.AddChild(c)
	}
	return n
}

// Operator returns the wrapped Operator.
func (n *PlanNode) Operator() graph.Operator { return n.op }

// SetOperator replaces the wrapped Operator, freeing the old one first.
// Used by the expand-merge optimization pass to rewrite an ExpandAll into
// an ExpandInto in place.
func (n *PlanNode) SetOperator(op graph.Operator) {
	if n.op != nil {
		n.op.Free()
	}
	n.op = op
}

// Children returns this node's data producers, in order.
func (n *PlanNode) Children() []*PlanNode { return n.children }

// Parents returns this node's consumers, in order.
func (n *PlanNode) Parents() []*PlanNode { return n.parents }

// State reports this node's position in the current execution pass.
func (n *PlanNode) State() State { return n.state }

// SetState sets this node's position in the current execution pass.
func (n *PlanNode) SetState(s State) { n.state = s }

// AddChild appends child as a new data producer, keeping the parent
// back-reference consistent.
func (n *PlanNode) AddChild(child *PlanNode) {
	n.children = append(n.children, child)
	child.parents = append(child.parents, n)
}

// RemoveChild detaches child from this node, keeping the parent
// back-reference consistent. A no-op if child is not actually a child.
func (n *PlanNode) RemoveChild(child *PlanNode) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	for i, p := range child.parents {
		if p == n {
			child.parents = append(child.parents[:i], child.parents[i+1:]...)
			break
		}
	}
}

// ReplaceChild swaps out an existing child for a replacement at the same
// position, used by filter pushdown to splice a new Filter PlanNode in as
// an intermediary.
func (n *PlanNode) ReplaceChild(old, replacement *PlanNode) {
	for i, c := range n.children {
		if c == old {
			n.children[i] = replacement
			replacement.parents = append(replacement.parents, n)
			for j, p := range old.parents {
				if p == n {
					old.parents = append(old.parents[:j], old.parents[j+1:]...)
					break
				}
			}
			return
		}
	}
}
