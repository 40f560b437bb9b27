package graph

import "gopkg.in/src-d/go-errors.v1"

// Error kinds surfaced by the planner, optimizer, and executor. Each is a
// parameterized kind, constructed once at package init and instantiated
// with New(args...).
var (
	// ErrMalformedPattern is returned by defensive planner paths when an AST
	// carries a pattern graph the parser should already have rejected.
	ErrMalformedPattern = errors.NewKind("malformed pattern: %s")

	// ErrUnknownLabel names a pattern label the graph has no label store
	// for. No code path returns it: a NodeByLabelScan over an unknown label
	// simply reports DEPLETED.
	ErrUnknownLabel = errors.NewKind("unknown label: %s")

	// ErrUnsupportedOperator is returned when a PlanNode wraps an Operator
	// type the executor does not know how to drive.
	ErrUnsupportedOperator = errors.NewKind("unsupported operator type: %v")

	// ErrExecution wraps a reset or consume failure propagated out of the
	// pull-based driver loop.
	ErrExecution = errors.NewKind("execution error: %s")

	// ErrFilterTree names a filter tree failure: a referenced binding that
	// is missing or of the wrong type. No code path returns it: package
	// filtertree reports those conditions with plain fmt errors.
	ErrFilterTree = errors.NewKind("filter tree error: %s")
)
