package plan

import (
	"fmt"

	"github.com/relatedb/queryengine/graph"
)

// NodeByLabelScan is a leaf operator like AllNodeScan, but iterating only
// the nodes carrying a given label via the graph's label store.
type NodeByLabelScan struct {
	alias   string
	label   string
	nodes   []graph.NodeHandle
	cursor  int
	started bool
}

// NewNodeByLabelScan builds a PlanNode wrapping a label-scan leaf.
func NewNodeByLabelScan(alias, label string) *PlanNode {
	return New(&NodeByLabelScan{alias: alias, label: label})
}

func (s *NodeByLabelScan) Type() graph.OperatorType { return graph.LabelScanOp }
func (s *NodeByLabelScan) Modifies() []string       { return []string{s.alias} }

func (s *NodeByLabelScan) Consume(ctx *graph.Context) (graph.OpResult, error) {
	if !s.started {
		ctx.Graph.ScanLabel(s.label, func(h graph.NodeHandle) bool {
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

func (s *NodeByLabelScan) Reset() error {
	s.cursor = 0
	return nil
}

func (s *NodeByLabelScan) Free() {
	s.nodes = nil
}

func (s *NodeByLabelScan) String() string {
	return fmt.Sprintf("NodeByLabelScan | %s:%s", s.alias, s.label)
}

// Alias returns the binding name this scan assigns.
func (s *NodeByLabelScan) Alias() string { return s.alias }

// Label returns the label this scan filters on.
func (s *NodeByLabelScan) Label() string { return s.label }
