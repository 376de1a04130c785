package structs

import "github.com/matzehuels/framegraph/pkg/core/topology"

// TreeNode is a binary tree node.
type TreeNode struct {
	membership
	label       string
	Left, Right *TreeNode
}

// NewTreeNode returns a leaf.
func NewTreeNode(label string) *TreeNode {
	return &TreeNode{label: label}
}

// Label implements [topology.Labeler].
func (n *TreeNode) Label() string { return n.label }

// SetLabel changes the display text used by later layouts.
func (n *TreeNode) SetLabel(label string) { n.label = label }

// Neighbors implements [topology.Node]. A missing left child next to a right
// one is reported as an empty slot so the right child keeps its side.
func (n *TreeNode) Neighbors() []topology.Neighbor {
	switch {
	case n.Left != nil && n.Right != nil:
		return []topology.Neighbor{{Node: n.Left}, {Node: n.Right}}
	case n.Left != nil:
		return []topology.Neighbor{{Node: n.Left}}
	case n.Right != nil:
		return []topology.Neighbor{{}, {Node: n.Right}}
	}
	return nil
}
