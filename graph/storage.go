package graph

// Graph is the storage collaborator this subsystem requires. A real
// implementation sits on a hexastore-indexed triple store; storage/memgraph,
// storage/boltgraph, and storage/badgergraph provide three concrete ones so
// the planner, optimizer, and executor can be exercised without a live
// database behind them.
type Graph interface {
	// GetNDegreeNodes returns the stable handles of every node whose
	// in-degree equals d. The planner and the expand-merge pass do not call
	// it: they find pattern roots and convergence points from in-degrees in
	// the query's PatternGraph.
	GetNDegreeNodes(d int) []NodeHandle

	// GetNodeRef resolves a storage-local node identifier to a stable
	// handle, usable across a plan's lifetime.
	GetNodeRef(id string) (NodeHandle, bool)

	// GetEdgeRef resolves a storage-local edge identifier to a stable
	// handle.
	GetEdgeRef(id string) (EdgeHandle, bool)

	// LabelCardinality reports how many nodes carry the given label, or -1
	// if the label is unknown. Entry-point selection does not consult it.
	LabelCardinality(label string) int

	// ScanAll iterates every node in storage order, calling fn with each
	// handle until fn returns false or the iteration completes.
	ScanAll(fn func(NodeHandle) bool)

	// ScanLabel iterates every node carrying label, in label-store order.
	ScanLabel(label string, fn func(NodeHandle) bool)

	// Expand iterates the outgoing edges of relType (empty matches any
	// type) from src, calling fn with each (edge, destination) pair.
	Expand(src NodeHandle, relType string, fn func(EdgeHandle, NodeHandle) bool)

	// HasEdge reports whether an edge of relType (empty matches any type)
	// connects src to dst directly, and returns its handle if so.
	HasEdge(src, dst NodeHandle, relType string) (EdgeHandle, bool)

	// Property looks up a property value on a node or edge handle. Used by
	// filtertree predicate evaluation and by ProduceResults projection.
	Property(handle interface{}, name string) (interface{}, bool)

	// Label returns the label attached to a node handle, if any.
	Label(handle NodeHandle) (string, bool)
}
