// Package filtertree implements the WHERE-clause collaborator: a boolean
// expression tree over predicates on bindings, with the three
// FilterTree_* operations the optimizer's
// filter pushdown pass requires (ContainsNode, MinFilterTree,
// RemovePredNodes), plus predicate evaluation so plan.Filter has a real
// tree to drive.
package filtertree

// Bindings is the minimal read surface filter tree evaluation needs from
// a binding tuple. graph.Record satisfies this structurally; filtertree
// does not import the graph package so the two packages can reference
// each other's public types without an import cycle (graph.AST embeds a
// Tree field).
type Bindings interface {
	Get(alias string) (interface{}, bool)
}

// PropertyLookup resolves a property of a bound handle (a graph.NodeHandle
// or graph.EdgeHandle, passed as interface{} for the same reason Bindings
// is duck-typed) to its stored value.
type PropertyLookup func(handle interface{}, name string) (interface{}, bool)

// Kind tags the concrete variant behind a Tree.
type Kind int

const (
	PredicateKind Kind = iota
	AndKind
	OrKind
)

// Tree is a node of the boolean filter expression tree. AND nodes are
// splittable by the pushdown pass (either conjunct may be placed
// independently); OR nodes are treated as an atomic unit and move as a
// whole once all aliases it references become available — splitting an OR
// across DAG positions would require re-deriving the same sub-predicate at
// multiple operators, so the simpler, atomic-OR behavior is the one
// implemented here.
type Tree interface {
	Kind() Kind
	// Aliases returns the set of binding names referenced anywhere in this
	// subtree.
	Aliases() map[string]bool
	// ContainsNode reports whether at least one placeable unit in this
	// subtree (a predicate, or an atomic OR) has all its aliases within
	// available.
	ContainsNode(available map[string]bool) bool
	// MinFilterTree extracts the largest sub-tree all of whose placeable
	// units are satisfied by available, or nil if none are.
	MinFilterTree(available map[string]bool) Tree
	// RemovePredNodes returns the tree with every placeable unit satisfied
	// by available removed, collapsing AND nodes that become trivial. Nil
	// means the whole subtree was removed.
	RemovePredNodes(available map[string]bool) Tree
	// Eval evaluates the tree against a binding tuple.
	Eval(b Bindings, lookup PropertyLookup) (bool, error)
	String() string
}

func subset(need, available map[string]bool) bool {
	for a := range need {
		if !available[a] {
			return false
		}
	}
	return true
}

func union(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}
