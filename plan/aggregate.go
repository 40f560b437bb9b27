package plan

import (
	"fmt"
	"strings"

	"github.com/relatedb/queryengine/aggregate"
	"github.com/relatedb/queryengine/graph"
)

// AggCall is one aggregation function application the Aggregate operator
// computes per group, e.g. COUNT(x) AS cnt.
type AggCall struct {
	Func  string // aggregate.New's function name, e.g. "COUNT", "SUM"
	Alias string // binding the aggregated value is drawn from
	Prop  string // optional property of Alias; empty means the bound handle itself
	As    string // output binding name
}

type groupRow struct {
	keyValues []interface{}
	accs      []aggregate.Accumulator
}

// Aggregate drains its child to DEPLETED on first Consume, computing one
// group per distinct combination of groupKeys values, then emits one
// grouped row per Consume call thereafter. Reset re-emits the
// already-computed groups from the top rather than re-draining the child.
type Aggregate struct {
	self      *PlanNode // this operator's own wrapping PlanNode, for draining
	groupKeys []string
	calls     []AggCall

	drained bool
	groups  map[string]*groupRow
	order   []string
	cursor  int
}

// NewAggregate builds a PlanNode wrapping an Aggregate operator over one or
// more children. Multiple children arise from a pattern with more than one
// entry point converging on this Aggregate's inputs; they are drained as a
// single combined Cartesian stream via PullFromStreams, same as any other
// multi-child PlanNode.
func NewAggregate(groupKeys []string, calls []AggCall, children ...*PlanNode) *PlanNode {
	op := &Aggregate{groupKeys: groupKeys, calls: calls}
	node := New(op, children...)
	op.self = node
	return node
}

func (a *Aggregate) Type() graph.OperatorType { return graph.AggregateOp }

func (a *Aggregate) Modifies() []string {
	out := append([]string{}, a.groupKeys...)
	for _, c := range a.calls {
		out = append(out, c.As)
	}
	return out
}

func (a *Aggregate) Consume(ctx *graph.Context) (graph.OpResult, error) {
	if !a.drained {
		if err := a.drain(ctx); err != nil {
			return graph.ERR, err
		}
		a.drained = true
		a.cursor = 0
	}

	if a.cursor >= len(a.order) {
		return graph.DEPLETED, nil
	}

	g := a.groups[a.order[a.cursor]]
	for i, k := range a.groupKeys {
		ctx.Record.Set(k, g.keyValues[i])
	}
	for i, c := range a.calls {
		ctx.Record.Set(c.As, g.accs[i].Result())
	}
	a.cursor++
	return graph.OK, nil
}

// drain exhausts the child subtree (or subtrees, coordinated as a
// Cartesian product if there is more than one) via the same
// PullFromStreams protocol the top-level driver uses, stepping every
// aggregate accumulator for each combined tuple before Aggregate ever
// emits a row.
func (a *Aggregate) drain(ctx *graph.Context) error {
	a.groups = make(map[string]*groupRow)
	a.order = nil

	for {
		res, err := PullFromStreams(ctx, a.self)
		if res == graph.ERR {
			return err
		}
		if res == graph.DEPLETED {
			return nil
		}

		keyVals := make([]interface{}, len(a.groupKeys))
		for i, k := range a.groupKeys {
			v, _ := ctx.Record.Get(k)
			keyVals[i] = v
		}
		keyStr := groupKeyString(keyVals)

		g, ok := a.groups[keyStr]
		if !ok {
			g = &groupRow{keyValues: keyVals}
			for _, c := range a.calls {
				g.accs = append(g.accs, aggregate.New(c.Func))
			}
			a.groups[keyStr] = g
			a.order = append(a.order, keyStr)
		}

		for i, c := range a.calls {
			val, ok := ctx.Record.Get(c.Alias)
			if !ok {
				g.accs[i].Step(nil)
				continue
			}
			if c.Prop != "" {
				val, _ = ctx.Graph.Property(val, c.Prop)
			}
			g.accs[i].Step(val)
		}
	}
}

func groupKeyString(vals []interface{}) string {
	var sb strings.Builder
	for i, v := range vals {
		if i > 0 {
			sb.WriteByte('\x1f')
		}
		fmt.Fprintf(&sb, "%v", v)
	}
	return sb.String()
}

func (a *Aggregate) Reset() error {
	a.cursor = 0
	return nil
}

func (a *Aggregate) Free() {
	a.groups = nil
	a.order = nil
}

func (a *Aggregate) String() string {
	names := make([]string, len(a.calls))
	for i, c := range a.calls {
		names[i] = fmt.Sprintf("%s(%s)", c.Func, c.Alias)
	}
	return fmt.Sprintf("Aggregate | group=%v calls=%v", a.groupKeys, names)
}
