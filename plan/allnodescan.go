package plan

import (
	"fmt"

	"github.com/relatedb/queryengine/graph"
)

// AllNodeScan is a leaf operator that binds the next node in storage to its
// target alias, in storage iteration order.
type AllNodeScan struct {
	alias   string
	nodes   []graph.NodeHandle
	cursor  int
	started bool
}

// NewAllNodeScan builds a PlanNode wrapping a full-scan leaf.
func NewAllNodeScan(alias string) *PlanNode {
	return New(&AllNodeScan{alias: alias})
}

func (s *AllNodeScan) Type() graph.OperatorType { return graph.AllNodeScanOp }
func (s *AllNodeScan) Modifies() []string       { return []string{s.alias} }

func (s *AllNodeScan) Consume(ctx *graph.Context) (graph.OpResult, error) {
	if !s.started {
		ctx.Graph.ScanAll(func(h graph.NodeHandle) bool {
			s.nodes = append(s.nodes, h)
			return true
		})
		s.started = true
	}
	if s.cursor >= len(s.nodes) {
		return graph.DEPLETED, nil
	}
	ctx.Record.Set(s.alias, s.nodes[s.cursor])
	s.cursor++
	return graph.OK, nil
}

func (s *AllNodeScan) Reset() error {
	s.cursor = 0
	return nil
}

func (s *AllNodeScan) Free() {
	s.nodes = nil
}

func (s *AllNodeScan) String() string {
	return fmt.Sprintf("AllNodeScan | %s", s.alias)
}

// Alias returns the binding name this scan assigns.
func (s *AllNodeScan) Alias() string { return s.alias }
