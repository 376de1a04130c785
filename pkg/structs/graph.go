package structs

import "github.com/matzehuels/framegraph/pkg/core/topology"

// GraphNode is a node with ordered, optionally labelled out-links.
type GraphNode struct {
	membership
	label string
	links []link
}

type link struct {
	to    *GraphNode
	label string
}

// NewGraphNode returns an unlinked node.
func NewGraphNode(label string) *GraphNode {
	return &GraphNode{label: label}
}

// Label implements [topology.Labeler].
func (n *GraphNode) Label() string { return n.label }

// SetLabel changes the display text used by later layouts.
func (n *GraphNode) SetLabel(label string) { n.label = label }

// Link appends a link to to. Linking an existing target again only updates
// the label.
func (n *GraphNode) Link(to *GraphNode, label string) {
	for i := range n.links {
		if n.links[i].to == to {
			n.links[i].label = label
			return
		}
	}
	n.links = append(n.links, link{to: to, label: label})
}

// Unlink removes the link to to and reports whether it existed.
func (n *GraphNode) Unlink(to *GraphNode) bool {
	for i := range n.links {
		if n.links[i].to == to {
			n.links = append(n.links[:i], n.links[i+1:]...)
			return true
		}
	}
	return false
}

// Links returns the link targets in order.
func (n *GraphNode) Links() []*GraphNode {
	out := make([]*GraphNode, len(n.links))
	for i, l := range n.links {
		out[i] = l.to
	}
	return out
}

// Neighbors implements [topology.Node].
func (n *GraphNode) Neighbors() []topology.Neighbor {
	out := make([]topology.Neighbor, len(n.links))
	for i, l := range n.links {
		out[i] = topology.Neighbor{Node: l.to, Label: l.label}
	}
	return out
}
