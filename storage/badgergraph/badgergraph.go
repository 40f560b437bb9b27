// Package badgergraph is a second disk-backed graph.Graph implementation,
// this one on github.com/dgraph-io/badger/v4's LSM-tree engine, the way
// aleksaelezovic/trigo's pkg/store sits on badger for its RDF triple index.
// Like that package, composite index keys are hashed with
// github.com/zeebo/xxh3 rather than stored as raw strings, keeping index
// keys a fixed 17 bytes (a one-byte permutation prefix plus a 16-byte
// hash) regardless of alias/label length.
package badgergraph

import (
	"encoding/binary"
	"encoding/json"

	badger "github.com/dgraph-io/badger/v4"
	pkgerrors "github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/zeebo/xxh3"

	"github.com/relatedb/queryengine/graph"
)

const (
	prefixNode     byte = 'n'
	prefixEdge     byte = 'e'
	prefixLabel    byte = 'l'
	prefixOrder    byte = 'o'
	prefixIndegree byte = 'd'
	prefixSPO      byte = 1
	prefixSOP      byte = 2
	prefixPSO      byte = 3
	prefixPOS      byte = 4
	prefixOSP      byte = 5
	prefixOPS      byte = 6
)

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

// Graph is a badger-backed graph.Graph. The zero value is not usable;
// build one with Open.
type Graph struct {
	db *badger.DB
}

// Open opens (creating if absent) a badger database at path.
func Open(path string) (*Graph, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "badgergraph: open")
	}
	return &Graph{db: db}, nil
}

// Close closes the underlying badger database.
func (g *Graph) Close() error {
	return g.db.Close()
}

func nodeKey(id string) []byte  { return append([]byte{prefixNode}, id...) }
func edgeKey(id string) []byte  { return append([]byte{prefixEdge}, id...) }
func labelKey(l string) []byte  { return append([]byte{prefixLabel}, l...) }
func indegKey(id string) []byte { return append([]byte{prefixIndegree}, id...) }

var orderKey = []byte{prefixOrder}

// indexKey hashes (a, b) with xxh3's 128-bit variant into a fixed 16-byte
// key under the given permutation prefix, mirroring trigo's term-hashing
// approach for its own composite quad keys.
func indexKey(prefix byte, a, b string) []byte {
	h := xxh3.Hash128([]byte(a + "\x00" + b))
	key := make([]byte, 17)
	key[0] = prefix
	binary.BigEndian.PutUint64(key[1:9], h.Hi)
	binary.BigEndian.PutUint64(key[9:17], h.Lo)
	return key
}

// AddNode inserts a node with the given label (empty for none) and
// properties, returning its stable handle. As with boltgraph, seeding a
// graph is a construction-time concern outside graph.Graph's read
// contract, so a storage fault here panics rather than threading an error
// return through every call site.
func (g *Graph) AddNode(label string, props map[string]interface{}) graph.NodeHandle {
	id := uuid.NewV4().String()
	rec := nodeRecord{ID: id, Label: label, Props: props}

	err := g.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := txn.Set(nodeKey(id), data); err != nil {
			return err
		}
		if err := appendID(txn, orderKey, id); err != nil {
			return err
		}
		if label != "" {
			if err := appendID(txn, labelKey(label), id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		panic(pkgerrors.Wrap(err, "badgergraph: add node"))
	}

	return graph.NewNodeHandle(id)
}

// AddEdge inserts a directed edge of the given relationship type between
// two existing nodes, returning its stable handle. See AddNode's comment
// on why this panics instead of returning an error.
func (g *Graph) AddEdge(src, dst graph.NodeHandle, kind string, props map[string]interface{}) graph.EdgeHandle {
	id := uuid.NewV4().String()
	s, d := src.ID(), dst.ID()
	rec := edgeRecord{ID: id, Src: s, Dst: d, Kind: kind, Props: props}

	err := g.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := txn.Set(edgeKey(id), data); err != nil {
			return err
		}

		for _, pair := range []struct {
			prefix byte
			a, b   string
		}{
			{prefixSPO, s, kind},
			{prefixSOP, s, d},
			{prefixPSO, kind, s},
			{prefixPOS, kind, d},
			{prefixOSP, d, s},
			{prefixOPS, d, kind},
		} {
			if err := appendID(txn, indexKey(pair.prefix, pair.a, pair.b), id); err != nil {
				return err
			}
		}

		return bumpIndegree(txn, d, 1)
	})
	if err != nil {
		panic(pkgerrors.Wrap(err, "badgergraph: add edge"))
	}

	return graph.NewEdgeHandle(id, s, d, kind)
}

// appendID reads the JSON-encoded id list under key, appends id, and
// writes it back within txn. Badger transactions serialize conflicting
// writes at commit time, so a single caller-held Update txn makes this
// read-modify-write safe the same way bolt's writer lock does.
func appendID(txn *badger.Txn, key []byte, id string) error {
	var ids []string
	item, err := txn.Get(key)
	switch err {
	case nil:
		if verr := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ids)
		}); verr != nil {
			return verr
		}
	case badger.ErrKeyNotFound:
		// no existing list
	default:
		return err
	}
	ids = append(ids, id)
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

func readIDs(txn *badger.Txn, key []byte) []string {
	item, err := txn.Get(key)
	if err != nil {
		return nil
	}
	var ids []string
	_ = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &ids)
	})
	return ids
}

func bumpIndegree(txn *badger.Txn, id string, delta int) error {
	key := indegKey(id)
	count := 0
	if item, err := txn.Get(key); err == nil {
		_ = item.Value(func(val []byte) error {
			count = int(binary.BigEndian.Uint64(val))
			return nil
		})
	}
	count += delta
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(count))
	return txn.Set(key, buf)
}

func (g *Graph) handle(id string) graph.NodeHandle { return graph.NewNodeHandle(id) }

func (g *Graph) edgeHandle(e edgeRecord) graph.EdgeHandle {
	return graph.NewEdgeHandle(e.ID, e.Src, e.Dst, e.Kind)
}

func (g *Graph) loadEdge(txn *badger.Txn, id string) (edgeRecord, bool) {
	item, err := txn.Get(edgeKey(id))
	if err != nil {
		return edgeRecord{}, false
	}
	var e edgeRecord
	if verr := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &e)
	}); verr != nil {
		return edgeRecord{}, false
	}
	return e, true
}

// GetNDegreeNodes implements graph.Graph.
func (g *Graph) GetNDegreeNodes(d int) []graph.NodeHandle {
	var out []graph.NodeHandle
	_ = g.db.View(func(txn *badger.Txn) error {
		for _, id := range readIDs(txn, orderKey) {
			count := 0
			if item, err := txn.Get(indegKey(id)); err == nil {
				_ = item.Value(func(val []byte) error {
					count = int(binary.BigEndian.Uint64(val))
					return nil
				})
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
	_ = g.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(nodeKey(id))
		ok = err == nil
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
	_ = g.db.View(func(txn *badger.Txn) error {
		e, ok = g.loadEdge(txn, id)
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
	_ = g.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(labelKey(label))
		if err != nil {
			return nil
		}
		var ids []string
		if verr := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ids)
		}); verr != nil {
			return verr
		}
		count = len(ids)
		return nil
	})
	return count
}

// ScanAll implements graph.Graph.
func (g *Graph) ScanAll(fn func(graph.NodeHandle) bool) {
	var order []string
	_ = g.db.View(func(txn *badger.Txn) error {
		order = readIDs(txn, orderKey)
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
	_ = g.db.View(func(txn *badger.Txn) error {
		ids = readIDs(txn, labelKey(label))
		return nil
	})
	for _, id := range ids {
		if !fn(g.handle(id)) {
			return
		}
	}
}

// Expand implements graph.Graph. When relType is empty every kind reachable
// from src must be visited, but the spo index is keyed by hash(src, kind)
// and cannot be prefix-scanned by src alone the way boltgraph's
// lexicographic keys allow, so this case walks the whole edge table and
// keeps the edges whose recorded source is src.
func (g *Graph) Expand(src graph.NodeHandle, relType string, fn func(graph.EdgeHandle, graph.NodeHandle) bool) {
	var edges []edgeRecord
	_ = g.db.View(func(txn *badger.Txn) error {
		var edgeIDs []string
		if relType != "" {
			edgeIDs = readIDs(txn, indexKey(prefixSPO, src.ID(), relType))
		} else {
			// Fall back to every edge whose recorded source matches src,
			// since the hashed spo index cannot be prefix-scanned by src
			// alone without knowing every kind in advance.
			for _, id := range allEdgeIDs(txn) {
				if e, ok := g.loadEdge(txn, id); ok && e.Src == src.ID() {
					edgeIDs = append(edgeIDs, id)
				}
			}
		}
		for _, id := range edgeIDs {
			if e, ok := g.loadEdge(txn, id); ok {
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

// allEdgeIDs walks the whole edge table once. It exists only to serve the
// relType == "" case of Expand, which needs every edge out of src
// regardless of kind and so cannot use the hashed, kind-keyed spo index.
func allEdgeIDs(txn *badger.Txn) []string {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte{prefixEdge}
	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []string
	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		key := it.Item().Key()
		ids = append(ids, string(key[1:]))
	}
	return ids
}

// HasEdge implements graph.Graph, using the sop permutation (src-rooted,
// object-prefixed) to look up a direct connection between two bound
// endpoints.
func (g *Graph) HasEdge(src, dst graph.NodeHandle, relType string) (graph.EdgeHandle, bool) {
	var (
		found edgeRecord
		ok    bool
	)
	_ = g.db.View(func(txn *badger.Txn) error {
		ids := readIDs(txn, indexKey(prefixSOP, src.ID(), dst.ID()))
		for _, id := range ids {
			e, loaded := g.loadEdge(txn, id)
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
	_ = g.db.View(func(txn *badger.Txn) error {
		switch h := handle.(type) {
		case graph.NodeHandle:
			item, err := txn.Get(nodeKey(h.ID()))
			if err != nil {
				return nil
			}
			var n nodeRecord
			if verr := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &n)
			}); verr != nil {
				return verr
			}
			v, ok = n.Props[name]
		case graph.EdgeHandle:
			e, loaded := g.loadEdge(txn, h.ID())
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
	_ = g.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nodeKey(handle.ID()))
		if err != nil {
			return nil
		}
		var n nodeRecord
		if verr := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &n)
		}); verr != nil {
			return verr
		}
		if n.Label != "" {
			label, ok = n.Label, true
		}
		return nil
	})
	return label, ok
}

var _ graph.Graph = (*Graph)(nil)
