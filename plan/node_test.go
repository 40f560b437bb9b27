package plan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddChildKeepsParentBackReference(t *testing.T) {
	leaf := NewAllNodeScan("n")
	root := New(&ProduceResults{})
	root.AddChild(leaf)

	require.Equal(t, []*PlanNode{leaf}, root.Children())
	require.Equal(t, []*PlanNode{root}, leaf.Parents())
}

func TestRemoveChildClearsBothSides(t *testing.T) {
	leaf := NewAllNodeScan("n")
	root := New(&ProduceResults{})
	root.AddChild(leaf)

	root.RemoveChild(leaf)

	require.Empty(t, root.Children())
	require.Empty(t, leaf.Parents())
}

func TestReplaceChildSpliceInsertsIntermediary(t *testing.T) {
	leaf := NewAllNodeScan("n")
	root := New(&ProduceResults{})
	root.AddChild(leaf)

	splice := New(&ProduceResults{}, leaf)
	root.ReplaceChild(leaf, splice)

	require.Equal(t, []*PlanNode{splice}, root.Children())
	require.Equal(t, []*PlanNode{root}, splice.Parents())
	require.Equal(t, []*PlanNode{splice}, leaf.Parents())
}

func TestSetOperatorReplacesTheOperator(t *testing.T) {
	node := NewExpandAll("a", "", "b", "knows", 0, -1, 1, nil)
	node.SetOperator(&ExpandInto{srcAlias: "a", dstAlias: "b", relType: "knows"})

	_, ok := node.Operator().(*ExpandInto)
	require.True(t, ok)
}
