package plan

import (
	"fmt"

	"github.com/relatedb/queryengine/graph"
)

// ExpandInto verifies that an edge of the given relationship type connects
// two already-bound endpoints, rather than generating destinations. It
// only ever appears where the pattern graph has an in-degree-2 node (spec
// invariant 5), produced by the optimizer's expand-merge pass rewriting an
// ExpandAll in place.
type ExpandInto struct {
	srcAlias, edgeAlias, dstAlias, relType string
	dstNode                                int // pattern-graph handle, preserved across the rewrite
	consumed                               bool
}

// NewExpandInto builds a PlanNode wrapping an ExpandInto operator.
func NewExpandInto(srcAlias, edgeAlias, dstAlias, relType string, dstNode int, children ...*PlanNode) *PlanNode {
	return New(NewExpandIntoOp(srcAlias, edgeAlias, dstAlias, relType, dstNode), children...)
}

// NewExpandIntoOp builds a bare ExpandInto operator, unwrapped by a
// PlanNode. Used by the optimizer's expand-merge pass, which rewrites an
// existing PlanNode's operator in place via PlanNode.SetOperator rather
// than splicing in a freshly wrapped node.
func NewExpandIntoOp(srcAlias, edgeAlias, dstAlias, relType string, dstNode int) *ExpandInto {
	return &ExpandInto{srcAlias: srcAlias, edgeAlias: edgeAlias, dstAlias: dstAlias, relType: relType, dstNode: dstNode}
}

func (e *ExpandInto) Type() graph.OperatorType { return graph.ExpandIntoOp }

func (e *ExpandInto) Modifies() []string {
	if e.edgeAlias == "" {
		return nil
	}
	return []string{e.edgeAlias}
}

func (e *ExpandInto) Consume(ctx *graph.Context) (graph.OpResult, error) {
	if e.consumed {
		e.consumed = false
		return graph.REFRESH, nil
	}

	src, ok := ctx.Record.GetNode(e.srcAlias)
	if !ok {
		return graph.REFRESH, nil
	}
	dst, ok := ctx.Record.GetNode(e.dstAlias)
	if !ok {
		return graph.REFRESH, nil
	}

	eh, found := ctx.Graph.HasEdge(src, dst, e.relType)
	if !found {
		return graph.REFRESH, nil
	}

	if e.edgeAlias != "" {
		ctx.Record.Set(e.edgeAlias, eh)
	}
	e.consumed = true
	return graph.OK, nil
}

func (e *ExpandInto) Reset() error {
	e.consumed = false
	return nil
}

func (e *ExpandInto) Free() {}

func (e *ExpandInto) String() string {
	rel := e.relType
	if rel == "" {
		rel = "*"
	}
	return fmt.Sprintf("ExpandInto | (%s)-[%s]->(%s)", e.srcAlias, rel, e.dstAlias)
}

func (e *ExpandInto) SrcAlias() string  { return e.srcAlias }
func (e *ExpandInto) EdgeAlias() string { return e.edgeAlias }
func (e *ExpandInto) DstAlias() string  { return e.dstAlias }
func (e *ExpandInto) RelType() string   { return e.relType }
func (e *ExpandInto) DstNode() int      { return e.dstNode }
