package filtertree

import "fmt"

// And is a conjunction of two filter sub-trees. Unlike Or, And is
// splittable: the pushdown pass may place its two sides at different DAG
// positions.
type And struct {
	Left, Right Tree
}

// NewAnd builds a conjunction node.
func NewAnd(left, right Tree) *And {
	return &And{Left: left, Right: right}
}

func (a *And) Kind() Kind { return AndKind }

func (a *And) Aliases() map[string]bool {
	return union(a.Left.Aliases(), a.Right.Aliases())
}

func (a *And) ContainsNode(available map[string]bool) bool {
	return a.Left.ContainsNode(available) || a.Right.ContainsNode(available)
}

func (a *And) MinFilterTree(available map[string]bool) Tree {
	l := a.Left.MinFilterTree(available)
	r := a.Right.MinFilterTree(available)
	switch {
	case l != nil && r != nil:
		return &And{Left: l, Right: r}
	case l != nil:
		return l
	case r != nil:
		return r
	default:
		return nil
	}
}

func (a *And) RemovePredNodes(available map[string]bool) Tree {
	l := a.Left.RemovePredNodes(available)
	r := a.Right.RemovePredNodes(available)
	switch {
	case l == nil && r == nil:
		return nil
	case l == nil:
		return r
	case r == nil:
		return l
	default:
		return &And{Left: l, Right: r}
	}
}

func (a *And) Eval(b Bindings, lookup PropertyLookup) (bool, error) {
	left, err := a.Left.Eval(b, lookup)
	if err != nil {
		return false, err
	}
	if !left {
		return false, nil
	}
	return a.Right.Eval(b, lookup)
}

func (a *And) String() string {
	return fmt.Sprintf("(%s AND %s)", a.Left, a.Right)
}

// Or is a disjunction of two filter sub-trees, treated as a single atomic
// placeable unit by the pushdown pass (see Tree's doc comment).
type Or struct {
	Left, Right Tree
}

// NewOr builds a disjunction node.
func NewOr(left, right Tree) *Or {
	return &Or{Left: left, Right: right}
}

func (o *Or) Kind() Kind { return OrKind }

func (o *Or) Aliases() map[string]bool {
	return union(o.Left.Aliases(), o.Right.Aliases())
}

func (o *Or) ContainsNode(available map[string]bool) bool {
	return subset(o.Aliases(), available)
}

func (o *Or) MinFilterTree(available map[string]bool) Tree {
	if subset(o.Aliases(), available) {
		return o
	}
	return nil
}

func (o *Or) RemovePredNodes(available map[string]bool) Tree {
	if subset(o.Aliases(), available) {
		return nil
	}
	return o
}

func (o *Or) Eval(b Bindings, lookup PropertyLookup) (bool, error) {
	left, err := o.Left.Eval(b, lookup)
	if err != nil {
		return false, err
	}
	if left {
		return true, nil
	}
	return o.Right.Eval(b, lookup)
}

func (o *Or) String() string {
	return fmt.Sprintf("(%s OR %s)", o.Left, o.Right)
}
