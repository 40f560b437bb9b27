package graph

import "fmt"

// OpResult is the four-value control signal every Operator.Consume call
// returns. REFRESH is deliberately distinct from
// DEPLETED: it tells the executor's stream coordination that the operator's
// current upstream tuple is exhausted and new input is required, not that
// the whole stream is done.
type OpResult int

const (
	OK OpResult = iota
	REFRESH
	DEPLETED
	ERR
)

func (r OpResult) String() string {
	switch r {
	case OK:
		return "OK"
	case REFRESH:
		return "REFRESH"
	case DEPLETED:
		return "DEPLETED"
	case ERR:
		return "ERR"
	default:
		return fmt.Sprintf("OpResult(%d)", int(r))
	}
}

// OperatorType tags the concrete variant behind an Operator, a tagged-union
// approach over an open type hierarchy.
type OperatorType int

const (
	AllNodeScanOp OperatorType = iota
	LabelScanOp
	ExpandAllOp
	ExpandIntoOp
	FilterOp
	AggregateOp
	ProduceResultsOp
)

func (t OperatorType) String() string {
	switch t {
	case AllNodeScanOp:
		return "AllNodeScan"
	case LabelScanOp:
		return "NodeByLabelScan"
	case ExpandAllOp:
		return "ExpandAll"
	case ExpandIntoOp:
		return "ExpandInto"
	case FilterOp:
		return "Filter"
	case AggregateOp:
		return "Aggregate"
	case ProduceResultsOp:
		return "ProduceResults"
	default:
		return fmt.Sprintf("OperatorType(%d)", int(t))
	}
}

// Operator is the abstract producer of binding tuples. A PlanNode owns
// exactly one Operator; freeing the PlanNode frees the Operator.
type Operator interface {
	// Type reports the operator's tag.
	Type() OperatorType
	// Modifies returns the ordered sequence of binding names this operator
	// assigns when it successfully produces a tuple.
	Modifies() []string
	// Consume pulls one tuple, writing into ctx.Record, or signals state.
	Consume(ctx *Context) (OpResult, error)
	// Reset re-arms the operator for another pass.
	Reset() error
	// Free releases any private state. Called exactly once during teardown.
	Free()
	// String names the operator for plan printing.
	String() string
}

// NodeHandle is a stable reference to a graph node, usable across a plan's
// lifetime regardless of how the underlying storage represents the node
// internally.
type NodeHandle struct {
	id string
}

// NewNodeHandle wraps a storage-assigned identifier as a stable handle.
func NewNodeHandle(id string) NodeHandle { return NodeHandle{id: id} }

// ID returns the opaque identifier backing this handle.
func (h NodeHandle) ID() string { return h.id }

// Valid reports whether the handle refers to an actual node.
func (h NodeHandle) Valid() bool { return h.id != "" }

// EdgeHandle is a stable reference to a graph edge (relationship).
type EdgeHandle struct {
	id   string
	src  string
	dst  string
	kind string
}

// NewEdgeHandle builds a stable edge handle.
func NewEdgeHandle(id, src, dst, kind string) EdgeHandle {
	return EdgeHandle{id: id, src: src, dst: dst, kind: kind}
}

func (h EdgeHandle) ID() string   { return h.id }
func (h EdgeHandle) Src() string  { return h.src }
func (h EdgeHandle) Dst() string  { return h.dst }
func (h EdgeHandle) Kind() string { return h.kind }
func (h EdgeHandle) Valid() bool  { return h.id != "" }
