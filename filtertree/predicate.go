package filtertree

import (
	"fmt"

	"github.com/spf13/cast"
)

// Op is a comparison operator a Predicate applies.
type Op int

const (
	Eq Op = iota
	Neq
	Lt
	Lte
	Gt
	Gte
)

func (o Op) String() string {
	switch o {
	case Eq:
		return "="
	case Neq:
		return "<>"
	case Lt:
		return "<"
	case Lte:
		return "<="
	case Gt:
		return ">"
	case Gte:
		return ">="
	default:
		return "?"
	}
}

// Predicate is a leaf of the filter tree: alias.prop OP value. Prop is
// empty when the predicate compares the bound handle itself rather than a
// property of it (rare, but legal for e.g. identity checks).
type Predicate struct {
	Alias string
	Prop  string
	Op    Op
	Value interface{}
}

// NewPredicate builds a leaf predicate node.
func NewPredicate(alias, prop string, op Op, value interface{}) *Predicate {
	return &Predicate{Alias: alias, Prop: prop, Op: op, Value: value}
}

func (p *Predicate) Kind() Kind { return PredicateKind }

func (p *Predicate) Aliases() map[string]bool {
	return map[string]bool{p.Alias: true}
}

func (p *Predicate) ContainsNode(available map[string]bool) bool {
	return subset(p.Aliases(), available)
}

func (p *Predicate) MinFilterTree(available map[string]bool) Tree {
	if subset(p.Aliases(), available) {
		return p
	}
	return nil
}

func (p *Predicate) RemovePredNodes(available map[string]bool) Tree {
	if subset(p.Aliases(), available) {
		return nil
	}
	return p
}

func (p *Predicate) Eval(b Bindings, lookup PropertyLookup) (bool, error) {
	bound, ok := b.Get(p.Alias)
	if !ok {
		return false, fmt.Errorf("unbound alias %q in predicate", p.Alias)
	}

	actual := bound
	if p.Prop != "" {
		v, ok := lookup(bound, p.Prop)
		if !ok {
			return false, nil
		}
		actual = v
	}

	return evalOp(p.Op, actual, p.Value)
}

func (p *Predicate) String() string {
	if p.Prop == "" {
		return fmt.Sprintf("%s %s %v", p.Alias, p.Op, p.Value)
	}
	return fmt.Sprintf("%s.%s %s %v", p.Alias, p.Prop, p.Op, p.Value)
}

// evalOp compares actual against want, coercing numeric and string types
// with spf13/cast so storage values of varying concrete type (int, int64,
// float64, string) compare sensibly against literal query values.
func evalOp(op Op, actual, want interface{}) (bool, error) {
	if isNumeric(want) || isNumeric(actual) {
		a, err := cast.ToFloat64E(actual)
		if err != nil {
			return false, fmt.Errorf("cannot compare %v as number: %w", actual, err)
		}
		w, err := cast.ToFloat64E(want)
		if err != nil {
			return false, fmt.Errorf("cannot compare %v as number: %w", want, err)
		}
		return compareFloat(op, a, w)
	}

	a := cast.ToString(actual)
	w := cast.ToString(want)
	switch op {
	case Eq:
		return a == w, nil
	case Neq:
		return a != w, nil
	case Lt:
		return a < w, nil
	case Lte:
		return a <= w, nil
	case Gt:
		return a > w, nil
	case Gte:
		return a >= w, nil
	default:
		return false, fmt.Errorf("unsupported operator %v", op)
	}
}

func compareFloat(op Op, a, w float64) (bool, error) {
	switch op {
	case Eq:
		return a == w, nil
	case Neq:
		return a != w, nil
	case Lt:
		return a < w, nil
	case Lte:
		return a <= w, nil
	case Gt:
		return a > w, nil
	case Gte:
		return a >= w, nil
	default:
		return false, fmt.Errorf("unsupported operator %v", op)
	}
}

func isNumeric(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}
