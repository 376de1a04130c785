package structs

import "github.com/matzehuels/framegraph/pkg/core/topology"

// ListNode is a singly linked list node.
type ListNode struct {
	membership
	label string
	Next  *ListNode
}

// NewListNode returns a node without successor.
func NewListNode(label string) *ListNode {
	return &ListNode{label: label}
}

// NewList links one node per label and returns them in order.
func NewList(labels ...string) []*ListNode {
	nodes := make([]*ListNode, len(labels))
	for i, l := range labels {
		nodes[i] = NewListNode(l)
		if i > 0 {
			nodes[i-1].Next = nodes[i]
		}
	}
	return nodes
}

// Label implements [topology.Labeler].
func (n *ListNode) Label() string { return n.label }

// SetLabel changes the display text used by later layouts.
func (n *ListNode) SetLabel(label string) { n.label = label }

// Neighbors implements [topology.Node].
func (n *ListNode) Neighbors() []topology.Neighbor {
	if n.Next == nil {
		return nil
	}
	return []topology.Neighbor{{Node: n.Next}}
}
