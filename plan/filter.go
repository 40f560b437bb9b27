package plan

import (
	"fmt"

	"github.com/relatedb/queryengine/filtertree"
	"github.com/relatedb/queryengine/graph"
)

// Filter consumes its child and returns OK only when its predicate tree
// evaluates true on the current binding; REFRESH on false, or while
// waiting on aliases its predicate needs that its child has not bound yet.
type Filter struct {
	pred       filtertree.Tree
	aliases    map[string]bool
	returnedOK bool
}

// NewFilter builds a PlanNode wrapping a Filter operator over pred.
func NewFilter(pred filtertree.Tree, child *PlanNode) *PlanNode {
	return New(&Filter{pred: pred, aliases: pred.Aliases()}, child)
}

func (f *Filter) Type() graph.OperatorType { return graph.FilterOp }
func (f *Filter) Modifies() []string       { return nil }

func (f *Filter) Consume(ctx *graph.Context) (graph.OpResult, error) {
	if f.returnedOK {
		f.returnedOK = false
		return graph.REFRESH, nil
	}

	for alias := range f.aliases {
		if _, ok := ctx.Record.Get(alias); !ok {
			return graph.REFRESH, nil
		}
	}

	ok, err := f.pred.Eval(ctx.Record, ctx.Graph.Property)
	if err != nil {
		return graph.ERR, err
	}
	if !ok {
		return graph.REFRESH, nil
	}

	f.returnedOK = true
	return graph.OK, nil
}

func (f *Filter) Reset() error {
	f.returnedOK = false
	return nil
}

func (f *Filter) Free() {}

func (f *Filter) String() string {
	return fmt.Sprintf("Filter | %s", f.pred)
}

// Predicate returns the filter tree this operator evaluates.
func (f *Filter) Predicate() filtertree.Tree { return f.pred }
