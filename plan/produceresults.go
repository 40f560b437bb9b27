package plan

import (
	"fmt"
	"strings"

	"github.com/relatedb/queryengine/graph"
)

// ProduceResults projects the current binding into a result row and
// accumulates it into a ResultSet as a side effect of each successful
// Consume; it never fails a binding for being "done", it simply asks for
// the next one via REFRESH once it has recorded the current row.
type ProduceResults struct {
	self         *PlanNode // this operator's own wrapping PlanNode, to detect a childless (empty-pattern) root
	returnClause graph.ReturnClause
	rs           *graph.ResultSet
	returnedOK   bool
}

// NewProduceResults builds a PlanNode wrapping a ProduceResults operator.
// Most queries pass a single child; a pattern with more than one entry
// point (e.g. two independent roots that only converge later in the
// pattern) passes one child per entry chain, and relies on the generic
// multi-stream Cartesian pull already implemented by PullFromStreams to
// combine them.
func NewProduceResults(rc graph.ReturnClause, children ...*PlanNode) *PlanNode {
	columns := make([]string, 0, len(rc.Items)+len(rc.Aggregates))
	for _, item := range rc.Items {
		columns = append(columns, columnName(item.As, item.Prop, item.Alias))
	}
	for _, agg := range rc.Aggregates {
		columns = append(columns, columnName(agg.As, agg.Prop, agg.Alias))
	}
	op := &ProduceResults{returnClause: rc, rs: graph.NewResultSet(columns)}
	node := New(op, children...)
	op.self = node
	return node
}

func columnName(as, prop, alias string) string {
	if as != "" {
		return as
	}
	if prop != "" {
		return alias + "." + prop
	}
	return alias
}

func (p *ProduceResults) Type() graph.OperatorType { return graph.ProduceResultsOp }
func (p *ProduceResults) Modifies() []string        { return nil }

func (p *ProduceResults) Consume(ctx *graph.Context) (graph.OpResult, error) {
	if len(p.self.Children()) == 0 {
		// An empty pattern graph plans a childless ProduceResults with
		// nothing upstream ever able to bind a value; that is an empty
		// result set, not one degenerate all-null row.
		return graph.DEPLETED, nil
	}

	if p.returnedOK {
		p.returnedOK = false
		return graph.REFRESH, nil
	}

	row := make([]interface{}, 0, len(p.returnClause.Items)+len(p.returnClause.Aggregates))
	for _, item := range p.returnClause.Items {
		v, ok := ctx.Record.Get(item.Alias)
		if !ok {
			return graph.REFRESH, nil
		}
		if item.Prop != "" {
			v, _ = ctx.Graph.Property(v, item.Prop)
		}
		row = append(row, v)
	}
	for _, agg := range p.returnClause.Aggregates {
		v, ok := ctx.Record.Get(agg.As)
		if !ok {
			return graph.REFRESH, nil
		}
		row = append(row, v)
	}

	p.rs.AddRow(row)
	p.returnedOK = true
	return graph.OK, nil
}

func (p *ProduceResults) Reset() error {
	p.returnedOK = false
	return nil
}

func (p *ProduceResults) Free() {}

func (p *ProduceResults) String() string {
	return fmt.Sprintf("ProduceResults | %s", strings.Join(p.rs.Columns, ", "))
}

// ResultSet returns the ResultSet this operator has been accumulating.
func (p *ProduceResults) ResultSet() *graph.ResultSet { return p.rs }
