// Package boltgraph is a disk-backed graph.Graph implementation sitting on
// github.com/boltdb/bolt. It keeps the same hexastore-flavored
// six-permutation adjacency index memgraph keeps, just persisted across
// bolt buckets instead of Go maps, so the planner/optimizer/executor can be
// exercised against a real disk-backed collaborator and not only the
// in-memory one.
package boltgraph

import (
	"encoding/binary"
	"encoding/json"

	bolt "github.com/boltdb/bolt"
	pkgerrors "github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/relatedb/queryengine/graph"
)

var (
	nodesBucket    = []byte("nodes")
	edgesBucket    = []byte("edges")
	labelBucket    = []byte("label_index")
	orderBucket    = []byte("node_order")
	indegreeBucket = []byte("indegree")
	spoBucket      = []byte("spo")
	sopBucket      = []byte("sop")
	psoBucket      = []byte("pso")
	posBucket      = []byte("pos")
	ospBucket      = []byte("osp")
	opsBucket      = []byte("ops")
)

var allBuckets = [][]byte{
	nodesBucket, edgesBucket, labelBucket, orderBucket, indegreeBucket,
	spoBucket, sopBucket, psoBucket, posBucket, ospBucket, opsBucket,
}

type nodeRecord struct {
	ID    string                 `json:"id"`
	Label string                 `json:"label"`
	Props map[string]interface{} `json:"props"`
}

type edgeRecord struct {
	ID    string                 `json:"id"`
	Src   string                 `json:"src"`
	Dst   string                 `json:"dst"`
	Kind  string                 `json:"kind"`
	Props map[string]interface{} `json:"props"`
}

// Graph is a bolt-backed graph.Graph. The zero value is not usable; build
// one with Open.
type Graph struct {
	db *bolt.DB
}

// Open opens (creating if absent) a bolt database at path and returns a
// Graph over it.
func Open(path string) (*Graph, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "boltgraph: open")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, pkgerrors.Wrap(err, "boltgraph: create buckets")
	}

	return &Graph{db: db}, nil
}

// Close closes the underlying bolt database.
func (g *Graph) Close() error {
	return g.db.Close()
}

// AddNode inserts a node with the given label (empty for none) and
// properties, returning its stable handle. Seeding a graph is a
// construction-time concern, not part of the graph.Graph read contract, so
// unlike the rest of this type's methods it panics on a storage fault
// rather than plumbing an error return through every call site.
func (g *Graph) AddNode(label string, props map[string]interface{}) graph.NodeHandle {
	id := uuid.NewV4().String()
	rec := nodeRecord{ID: id, Label: label, Props: props}

	err := g.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := tx.Bucket(nodesBucket).Put([]byte(id), data); err != nil {
			return err
		}
		if err := appendID(tx.Bucket(orderBucket), []byte("_order"), id); err != nil {
			return err
		}
		if label != "" {
			if err := appendID(tx.Bucket(labelBucket), []byte(label), id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		panic(pkgerrors.Wrap(err, "boltgraph: add node"))
	}

	return graph.NewNodeHandle(id)
}

// AddEdge inserts a directed edge of the given relationship type between
// two existing nodes, returning its stable handle. See AddNode's comment on
// why this panics instead of returning an error.
func (g *Graph) AddEdge(src, dst graph.NodeHandle, kind string, props map[string]interface{}) graph.EdgeHandle {
	id := uuid.NewV4().String()
	s, d := src.ID(), dst.ID()
	rec := edgeRecord{ID: id, Src: s, Dst: d, Kind: kind, Props: props}

	err := g.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := tx.Bucket(edgesBucket).Put([]byte(id), data); err != nil {
			return err
		}

		for _, pair := range []struct {
			bucket []byte
			a, b   string
		}{
			{spoBucket, s, kind},
			{sopBucket, s, d},
			{psoBucket, kind, s},
			{posBucket, kind, d},
			{ospBucket, d, s},
			{opsBucket, d, kind},
		} {
			if err := appendID(tx.Bucket(pair.bucket), compositeKey(pair.a, pair.b), id); err != nil {
				return err
			}
		}

		return bumpIndegree(tx.Bucket(indegreeBucket), d, 1)
	})
	if err != nil {
		panic(pkgerrors.Wrap(err, "boltgraph: add edge"))
	}

	return graph.NewEdgeHandle(id, s, d, kind)
}

func compositeKey(a, b string) []byte {
	return []byte(a + "\x00" + b)
}

// appendID reads the JSON-encoded id list under key, appends id, and
// writes it back. Bucket operations inside a single bolt.Update are
// serialized by bolt's own writer lock, so this read-modify-write is safe.
func appendID(bucket *bolt.Bucket, key []byte, id string) error {
	var ids []string
	if raw := bucket.Get(key); raw != nil {
		if err := json.Unmarshal(raw, &ids); err != nil {
			return err
		}
	}
	ids = append(ids, id)
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return bucket.Put(key, data)
}

func readIDs(bucket *bolt.Bucket, key []byte) []string {
	raw := bucket.Get(key)
	if raw == nil {
		return nil
	}
	var ids []string
	_ = json.Unmarshal(raw, &ids)
	return ids
}

func bumpIndegree(bucket *bolt.Bucket, id string, delta int) error {
	key := []byte(id)
	var count int
	if raw := bucket.Get(key); raw != nil {
		count = int(binary.BigEndian.Uint64(raw))
	}
	count += delta
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(count))
	return bucket.Put(key, buf)
}

func (g *Graph) handle(id string) graph.NodeHandle { return graph.NewNodeHandle(id) }

func (g *Graph) edgeHandle(e edgeRecord) graph.EdgeHandle {
	return graph.NewEdgeHandle(e.ID, e.Src, e.Dst, e.Kind)
}

func (g *Graph) loadEdge(tx *bolt.Tx, id string) (edgeRecord, bool) {
	raw := tx.Bucket(edgesBucket).Get([]byte(id))
	if raw == nil {
		return edgeRecord{}, false
	}
	var e edgeRecord
	if err := json.Unmarshal(raw, &e); err != nil {
		return edgeRecord{}, false
	}
	return e, true
}

// GetNDegreeNodes implements graph.Graph.
func (g *Graph) GetNDegreeNodes(d int) []graph.NodeHandle {
	var out []graph.NodeHandle
	_ = g.db.View(func(tx *bolt.Tx) error {
		order := readIDs(tx.Bucket(orderBucket), []byte("_order"))
		deg := tx.Bucket(indegreeBucket)
		for _, id := range order {
			count := 0
			if raw := deg.Get([]byte(id)); raw != nil {
				count = int(binary.BigEndian.Uint64(raw))
			}
			if count == d {
				out = append(out, g.handle(id))
			}
		}
		return nil
	})
	return out
}

// GetNodeRef implements graph.Graph.
func (g *Graph) GetNodeRef(id string) (graph.NodeHandle, bool) {
	var ok bool
	_ = g.db.View(func(tx *bolt.Tx) error {
		ok = tx.Bucket(nodesBucket).Get([]byte(id)) != nil
		return nil
	})
	if !ok {
		return graph.NodeHandle{}, false
	}
	return g.handle(id), true
}

// GetEdgeRef implements graph.Graph.
func (g *Graph) GetEdgeRef(id string) (graph.EdgeHandle, bool) {
	var (
		e  edgeRecord
		ok bool
	)
	_ = g.db.View(func(tx *bolt.Tx) error {
		e, ok = g.loadEdge(tx, id)
		return nil
	})
	if !ok {
		return graph.EdgeHandle{}, false
	}
	return g.edgeHandle(e), true
}

// LabelCardinality implements graph.Graph.
func (g *Graph) LabelCardinality(label string) int {
	count := -1
	_ = g.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(labelBucket).Get([]byte(label))
		if raw == nil {
			return nil
		}
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			return err
		}
		count = len(ids)
		return nil
	})
	return count
}

// ScanAll implements graph.Graph.
func (g *Graph) ScanAll(fn func(graph.NodeHandle) bool) {
	var order []string
	_ = g.db.View(func(tx *bolt.Tx) error {
		order = readIDs(tx.Bucket(orderBucket), []byte("_order"))
		return nil
	})
	for _, id := range order {
		if !fn(g.handle(id)) {
			return
		}
	}
}

// ScanLabel implements graph.Graph.
func (g *Graph) ScanLabel(label string, fn func(graph.NodeHandle) bool) {
	var ids []string
	_ = g.db.View(func(tx *bolt.Tx) error {
		ids = readIDs(tx.Bucket(labelBucket), []byte(label))
		return nil
	})
	for _, id := range ids {
		if !fn(g.handle(id)) {
			return
		}
	}
}

// Expand implements graph.Graph, iterating via the spo permutation of the
// hexastore index (src-rooted, predicate-prefixed).
func (g *Graph) Expand(src graph.NodeHandle, relType string, fn func(graph.EdgeHandle, graph.NodeHandle) bool) {
	var edges []edgeRecord
	_ = g.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(spoBucket)
		var edgeIDs []string
		if relType != "" {
			edgeIDs = readIDs(bucket, compositeKey(src.ID(), relType))
		} else {
			prefix := []byte(src.ID() + "\x00")
			c := bucket.Cursor()
			for k, v := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
				var ids []string
				if err := json.Unmarshal(v, &ids); err == nil {
					edgeIDs = append(edgeIDs, ids...)
				}
			}
		}
		for _, id := range edgeIDs {
			if e, ok := g.loadEdge(tx, id); ok {
				edges = append(edges, e)
			}
		}
		return nil
	})

	for _, e := range edges {
		if !fn(g.edgeHandle(e), g.handle(e.Dst)) {
			return
		}
	}
}

func hasPrefix(k, prefix []byte) bool {
	if len(k) < len(prefix) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// HasEdge implements graph.Graph, using the sop permutation (src-rooted,
// object-prefixed) to look up a direct connection between two bound
// endpoints.
func (g *Graph) HasEdge(src, dst graph.NodeHandle, relType string) (graph.EdgeHandle, bool) {
	var (
		found edgeRecord
		ok    bool
	)
	_ = g.db.View(func(tx *bolt.Tx) error {
		ids := readIDs(tx.Bucket(sopBucket), compositeKey(src.ID(), dst.ID()))
		for _, id := range ids {
			e, loaded := g.loadEdge(tx, id)
			if !loaded {
				continue
			}
			if relType == "" || e.Kind == relType {
				found, ok = e, true
				return nil
			}
		}
		return nil
	})
	if !ok {
		return graph.EdgeHandle{}, false
	}
	return g.edgeHandle(found), true
}

// Property implements graph.Graph.
func (g *Graph) Property(handle interface{}, name string) (interface{}, bool) {
	var (
		v  interface{}
		ok bool
	)
	_ = g.db.View(func(tx *bolt.Tx) error {
		switch h := handle.(type) {
		case graph.NodeHandle:
			raw := tx.Bucket(nodesBucket).Get([]byte(h.ID()))
			if raw == nil {
				return nil
			}
			var n nodeRecord
			if err := json.Unmarshal(raw, &n); err != nil {
				return err
			}
			v, ok = n.Props[name]
		case graph.EdgeHandle:
			e, loaded := g.loadEdge(tx, h.ID())
			if !loaded {
				return nil
			}
			v, ok = e.Props[name]
		}
		return nil
	})
	return v, ok
}

// Label implements graph.Graph.
func (g *Graph) Label(handle graph.NodeHandle) (string, bool) {
	var (
		label string
		ok    bool
	)
	_ = g.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(nodesBucket).Get([]byte(handle.ID()))
		if raw == nil {
			return nil
		}
		var n nodeRecord
		if err := json.Unmarshal(raw, &n); err != nil {
			return err
		}
		if n.Label != "" {
			label, ok = n.Label, true
		}
		return nil
	})
	return label, ok
}

var _ graph.Graph = (*Graph)(nil)
