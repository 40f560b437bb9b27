package plan

import (
	"fmt"

	"github.com/relatedb/queryengine/graph"
)

type expandEdge struct {
	edge graph.EdgeHandle
	dst  graph.NodeHandle
}

// ExpandAll extends a partial binding along every outgoing edge of the
// given relationship type, binding the edge and destination for each. It
// carries stable references (pattern-graph node/edge indices) to its
// source node, edge, and destination node so the optimizer's expand-merge
// pass can find convergent pairs by identity rather than structural
// equality.
type ExpandAll struct {
	srcAlias, edgeAlias, dstAlias, relType string

	// Pattern-graph indices, set by the planner and read by the optimizer.
	srcNode, edgeIdx, dstNode int

	bound   bool
	edges   []expandEdge
	cursor  int
}

// NewExpandAll builds a PlanNode wrapping an ExpandAll operator. edgeAlias
// may be empty when the query does not bind the relationship itself.
func NewExpandAll(srcAlias, edgeAlias, dstAlias, relType string, srcNode, edgeIdx, dstNode int, child *PlanNode) *PlanNode {
	op := &ExpandAll{
		srcAlias: srcAlias, edgeAlias: edgeAlias, dstAlias: dstAlias, relType: relType,
		srcNode: srcNode, edgeIdx: edgeIdx, dstNode: dstNode,
	}
	if child != nil {
		return New(op, child)
	}
	return New(op)
}

func (e *ExpandAll) Type() graph.OperatorType { return graph.ExpandAllOp }

func (e *ExpandAll) Modifies() []string {
	if e.edgeAlias == "" {
		return []string{e.dstAlias}
	}
	return []string{e.edgeAlias, e.dstAlias}
}

func (e *ExpandAll) Consume(ctx *graph.Context) (graph.OpResult, error) {
	if !e.bound {
		src, ok := ctx.Record.GetNode(e.srcAlias)
		if !ok {
			return graph.REFRESH, nil
		}
		e.edges = e.edges[:0]
		ctx.Graph.Expand(src, e.relType, func(eh graph.EdgeHandle, dst graph.NodeHandle) bool {
			e.edges = append(e.edges, expandEdge{edge: eh, dst: dst})
			return true
		})
		e.cursor = 0
		e.bound = true
	}

	if e.cursor >= len(e.edges) {
		// This source's adjacency is exhausted; ask for the next source.
		e.bound = false
		e.edges = nil
		return graph.REFRESH, nil
	}

	pair := e.edges[e.cursor]
	e.cursor++
	if e.edgeAlias != "" {
		ctx.Record.Set(e.edgeAlias, pair.edge)
	}
	ctx.Record.Set(e.dstAlias, pair.dst)
	return graph.OK, nil
}

func (e *ExpandAll) Reset() error {
	e.bound = false
	e.edges = nil
	e.cursor = 0
	return nil
}

func (e *ExpandAll) Free() {
	e.edges = nil
}

func (e *ExpandAll) String() string {
	rel := e.relType
	if rel == "" {
		rel = "*"
	}
	if e.edgeAlias == "" {
		return fmt.Sprintf("ExpandAll | (%s)-[%s]->(%s)", e.srcAlias, rel, e.dstAlias)
	}
	return fmt.Sprintf("ExpandAll | (%s)-[%s:%s]->(%s)", e.srcAlias, e.edgeAlias, rel, e.dstAlias)
}

// SrcAlias, EdgeAlias, DstAlias, and RelType expose the binding names this
// expand uses, for the optimizer and for filter-pushdown alias accounting.
func (e *ExpandAll) SrcAlias() string { return e.srcAlias }
func (e *ExpandAll) EdgeAlias() string { return e.edgeAlias }
func (e *ExpandAll) DstAlias() string { return e.dstAlias }
func (e *ExpandAll) RelType() string   { return e.relType }

// SrcNode, EdgeIndex, and DstNode expose the pattern-graph handles this
// expand was built from, for expand-merge's identity comparison.
func (e *ExpandAll) SrcNode() int  { return e.srcNode }
func (e *ExpandAll) EdgeIndex() int { return e.edgeIdx }
func (e *ExpandAll) DstNode() int  { return e.dstNode }
