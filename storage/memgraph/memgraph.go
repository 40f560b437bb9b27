// Package memgraph is an in-memory graph.Graph implementation: a real,
// storage-shaped collaborator cheap enough to build a whole test suite on
// top of, with no disk or network dependency.
//
// Adjacency is kept in a hexastore-flavored six-permutation index
// (subject-predicate-object, in every ordering) so ExpandAll/ExpandInto
// have genuine prefix-searchable adjacency data to walk, even though a
// map-backed index has no strict need of all six orderings to answer the
// queries this engine issues.
package memgraph

import (
	"sort"
	"sync"

	uuid "github.com/satori/go.uuid"

	"github.com/relatedb/queryengine/graph"
)

type nodeRecord struct {
	id    string
	label string
	props map[string]interface{}
}

type edgeRecord struct {
	id    string
	src   string
	dst   string
	kind  string
	props map[string]interface{}
}

// Graph is an in-memory, mutex-guarded graph store.
type Graph struct {
	mu sync.RWMutex

	nodes     map[string]*nodeRecord
	nodeOrder []string

	edges map[string]*edgeRecord

	labelIndex map[string][]string // label -> node ids, insertion order

	// hexastore: six permutations of (subject, predicate, object) = (src, kind, dst)
	spo map[string]map[string][]string // src -> kind -> edge ids
	sop map[string]map[string][]string // src -> dst -> edge ids
	pso map[string]map[string][]string // kind -> src -> edge ids
	pos map[string]map[string][]string // kind -> dst -> edge ids
	osp map[string]map[string][]string // dst -> src -> edge ids
	ops map[string]map[string][]string // dst -> kind -> edge ids

	inDegree map[string]int
}

// New returns an empty in-memory graph.
func New() *Graph {
	return &Graph{
		nodes:      make(map[string]*nodeRecord),
		edges:      make(map[string]*edgeRecord),
		labelIndex: make(map[string][]string),
		spo:        make(map[string]map[string][]string),
		sop:        make(map[string]map[string][]string),
		pso:        make(map[string]map[string][]string),
		pos:        make(map[string]map[string][]string),
		osp:        make(map[string]map[string][]string),
		ops:        make(map[string]map[string][]string),
		inDegree:   make(map[string]int),
	}
}

// AddNode inserts a node with the given label (empty for none) and
// properties, returning its stable handle.
func (g *Graph) AddNode(label string, props map[string]interface{}) graph.NodeHandle {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := uuid.NewV4().String()
	g.nodes[id] = &nodeRecord{id: id, label: label, props: props}
	g.nodeOrder = append(g.nodeOrder, id)
	if label != "" {
		g.labelIndex[label] = append(g.labelIndex[label], id)
	}
	return graph.NewNodeHandle(id)
}

// AddEdge inserts a directed edge of the given relationship type between
// two existing nodes, returning its stable handle.
func (g *Graph) AddEdge(src, dst graph.NodeHandle, kind string, props map[string]interface{}) graph.EdgeHandle {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := uuid.NewV4().String()
	s, d := src.ID(), dst.ID()
	g.edges[id] = &edgeRecord{id: id, src: s, dst: d, kind: kind, props: props}

	index2(g.spo, s, kind, id)
	index2(g.sop, s, d, id)
	index2(g.pso, kind, s, id)
	index2(g.pos, kind, d, id)
	index2(g.osp, d, s, id)
	index2(g.ops, d, kind, id)

	g.inDegree[d]++

	return graph.NewEdgeHandle(id, s, d, kind)
}

func index2(idx map[string]map[string][]string, a, b, edgeID string) {
	inner, ok := idx[a]
	if !ok {
		inner = make(map[string][]string)
		idx[a] = inner
	}
	inner[b] = append(inner[b], edgeID)
}

func (g *Graph) handle(id string) graph.NodeHandle {
	return graph.NewNodeHandle(id)
}

func (g *Graph) edgeHandle(e *edgeRecord) graph.EdgeHandle {
	return graph.NewEdgeHandle(e.id, e.src, e.dst, e.kind)
}

// GetNDegreeNodes implements graph.Graph.
func (g *Graph) GetNDegreeNodes(d int) []graph.NodeHandle {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []graph.NodeHandle
	for _, id := range g.nodeOrder {
		if g.inDegree[id] == d {
			out = append(out, g.handle(id))
		}
	}
	return out
}

// GetNodeRef implements graph.Graph.
func (g *Graph) GetNodeRef(id string) (graph.NodeHandle, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[id]; !ok {
		return graph.NodeHandle{}, false
	}
	return g.handle(id), true
}

// GetEdgeRef implements graph.Graph.
func (g *Graph) GetEdgeRef(id string) (graph.EdgeHandle, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, ok := g.edges[id]
	if !ok {
		return graph.EdgeHandle{}, false
	}
	return g.edgeHandle(e), true
}

// LabelCardinality implements graph.Graph.
func (g *Graph) LabelCardinality(label string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ids, ok := g.labelIndex[label]
	if !ok {
		return -1
	}
	return len(ids)
}

// ScanAll implements graph.Graph.
func (g *Graph) ScanAll(fn func(graph.NodeHandle) bool) {
	g.mu.RLock()
	ids := append([]string(nil), g.nodeOrder...)
	g.mu.RUnlock()

	for _, id := range ids {
		if !fn(g.handle(id)) {
			return
		}
	}
}

// ScanLabel implements graph.Graph.
func (g *Graph) ScanLabel(label string, fn func(graph.NodeHandle) bool) {
	g.mu.RLock()
	ids := append([]string(nil), g.labelIndex[label]...)
	g.mu.RUnlock()

	for _, id := range ids {
		if !fn(g.handle(id)) {
			return
		}
	}
}

// Expand implements graph.Graph, iterating via the spo permutation of the
// hexastore index (src-rooted, predicate-prefixed).
func (g *Graph) Expand(src graph.NodeHandle, relType string, fn func(graph.EdgeHandle, graph.NodeHandle) bool) {
	g.mu.RLock()
	byKind, ok := g.spo[src.ID()]
	if !ok {
		g.mu.RUnlock()
		return
	}

	var edgeIDs []string
	if relType != "" {
		edgeIDs = append(edgeIDs, byKind[relType]...)
	} else {
		kinds := make([]string, 0, len(byKind))
		for k := range byKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			edgeIDs = append(edgeIDs, byKind[k]...)
		}
	}

	edges := make([]*edgeRecord, 0, len(edgeIDs))
	for _, id := range edgeIDs {
		edges = append(edges, g.edges[id])
	}
	g.mu.RUnlock()

	for _, e := range edges {
		if !fn(g.edgeHandle(e), g.handle(e.dst)) {
			return
		}
	}
}

// HasEdge implements graph.Graph, using the sop permutation (src-rooted,
// object-prefixed) to look up a direct connection between two bound
// endpoints.
func (g *Graph) HasEdge(src, dst graph.NodeHandle, relType string) (graph.EdgeHandle, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	byDst, ok := g.sop[src.ID()]
	if !ok {
		return graph.EdgeHandle{}, false
	}
	ids, ok := byDst[dst.ID()]
	if !ok {
		return graph.EdgeHandle{}, false
	}
	for _, id := range ids {
		e := g.edges[id]
		if relType == "" || e.kind == relType {
			return g.edgeHandle(e), true
		}
	}
	return graph.EdgeHandle{}, false
}

// Property implements graph.Graph.
func (g *Graph) Property(handle interface{}, name string) (interface{}, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	switch h := handle.(type) {
	case graph.NodeHandle:
		n, ok := g.nodes[h.ID()]
		if !ok {
			return nil, false
		}
		v, ok := n.props[name]
		return v, ok
	case graph.EdgeHandle:
		e, ok := g.edges[h.ID()]
		if !ok {
			return nil, false
		}
		v, ok := e.props[name]
		return v, ok
	default:
		return nil, false
	}
}

// Label implements graph.Graph.
func (g *Graph) Label(handle graph.NodeHandle) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[handle.ID()]
	if !ok || n.label == "" {
		return "", false
	}
	return n.label, true
}

var _ graph.Graph = (*Graph)(nil)
