package nodelink

import (
	"context"
)

// Request describes one topology to lay out.
type Request struct {
	Nodes      []Node `json:"nodes"`
	Edges      []Edge `json:"edges"`
	Directed   bool   `json:"directed"`
	Horizontal bool   `json:"horizontal,omitempty"`
}

// Node is one node of a request. ID is the Graphviz node name.
type Node struct {
	ID          int    `json:"id"`
	Label       string `json:"label,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// Edge connects two node ids.
type Edge struct {
	From        int    `json:"from"`
	To          int    `json:"to"`
	Label       string `json:"label,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// Layouter renders a request to a static SVG document.
type Layouter interface {
	Layout(ctx context.Context, req Request) ([]byte, error)
}

// LayouterFunc adapts a function to [Layouter].
type LayouterFunc func(ctx context.Context, req Request) ([]byte, error)

// Layout calls f.
func (f LayouterFunc) Layout(ctx context.Context, req Request) ([]byte, error) {
	return f(ctx, req)
}
