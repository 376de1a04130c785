package trace

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/framegraph/pkg/core/topology"
)

// Target is a node or an edge.
type Target struct {
	Edge   topology.EdgeKey
	Node   topology.Handle
	IsEdge bool
}

// NodeTarget returns the target for node h.
func NodeTarget(h topology.Handle) Target { return Target{Node: h} }

// EdgeTarget returns the target for edge k.
func EdgeTarget(k topology.EdgeKey) Target { return Target{Edge: k, IsEdge: true} }

// Entry is one mark made since the last frame.
type Entry struct {
	Target Target
	Color  colorful.Color
	Hold   bool
}

// Trace owns the color stacks of one engine.
type Trace struct {
	nodeBG, edgeBG colorful.Color

	nodes map[topology.Handle]*Stack
	edges map[topology.EdgeKey]*Stack

	pending   []Entry
	transient []Entry // non-held marks shown in the previous frame
}

// New returns an empty trace with the given backgrounds.
func New(nodeBG, edgeBG colorful.Color) *Trace {
	return &Trace{
		nodeBG: nodeBG,
		edgeBG: edgeBG,
		nodes:  make(map[topology.Handle]*Stack),
		edges:  make(map[topology.EdgeKey]*Stack),
	}
}

// MarkNode pushes c onto the stack of h. Unless hold is set, the color is
// retracted one frame after it was shown.
func (t *Trace) MarkNode(h topology.Handle, c colorful.Color, hold bool) {
	t.EnsureNode(h).Add(c)
	t.pending = append(t.pending, Entry{Target: NodeTarget(h), Color: c, Hold: hold})
}

// MarkEdge pushes c onto the stack of k.
func (t *Trace) MarkEdge(k topology.EdgeKey, c colorful.Color, hold bool) {
	t.EnsureEdge(k).Add(c)
	t.pending = append(t.pending, Entry{Target: EdgeTarget(k), Color: c, Hold: hold})
}

// Unmark removes c from every listed element that has a stack and returns
// the targets whose displayed color changed.
func (t *Trace) Unmark(c colorful.Color, nodes []topology.Handle, edges []topology.EdgeKey) []Target {
	var changed []Target
	for _, h := range nodes {
		if s, ok := t.nodes[h]; ok && unmark(s, c) {
			changed = append(changed, NodeTarget(h))
		}
	}
	for _, k := range edges {
		if s, ok := t.edges[k]; ok && unmark(s, c) {
			changed = append(changed, EdgeTarget(k))
		}
	}
	return changed
}

func unmark(s *Stack, c colorful.Color) bool {
	before := s.Color()
	if !s.Remove(c) {
		return false
	}
	return !Same(before, s.Color())
}

// Retract removes the previous frame's transient colors and returns the
// affected targets. A target marked again with the same color since keeps
// showing it through the newer instance, so refreshed marks never pile up.
func (t *Trace) Retract() []Target {
	var out []Target
	seen := make(map[Target]bool)
	for _, e := range t.transient {
		s, ok := t.stack(e.Target)
		if !ok {
			continue
		}
		s.Remove(e.Color)
		if !seen[e.Target] {
			seen[e.Target] = true
			out = append(out, e.Target)
		}
	}
	t.transient = nil
	return out
}

// Flush returns the targets marked since the last frame and schedules the
// non-held marks for retraction at the next frame.
func (t *Trace) Flush() []Target {
	var out []Target
	seen := make(map[Target]bool)
	for _, e := range t.pending {
		if !e.Hold {
			t.transient = append(t.transient, e)
		}
		if !seen[e.Target] {
			seen[e.Target] = true
			out = append(out, e.Target)
		}
	}
	t.pending = nil
	return out
}

// Pending returns a copy of the marks made since the last frame.
func (t *Trace) Pending() []Entry {
	return append([]Entry(nil), t.pending...)
}

// Color returns the displayed color of target if it has a stack.
func (t *Trace) Color(target Target) (colorful.Color, bool) {
	s, ok := t.stack(target)
	if !ok {
		return colorful.Color{}, false
	}
	return s.Color(), true
}

// EnsureNode returns the stack of h, creating it if needed.
func (t *Trace) EnsureNode(h topology.Handle) *Stack {
	s, ok := t.nodes[h]
	if !ok {
		s = NewStack(t.nodeBG)
		t.nodes[h] = s
	}
	return s
}

// EnsureEdge returns the stack of k, creating it if needed.
func (t *Trace) EnsureEdge(k topology.EdgeKey) *Stack {
	s, ok := t.edges[k]
	if !ok {
		s = NewStack(t.edgeBG)
		t.edges[k] = s
	}
	return s
}

// DropNode discards the stack of h.
func (t *Trace) DropNode(h topology.Handle) { delete(t.nodes, h) }

// DropEdge discards the stack of k.
func (t *Trace) DropEdge(k topology.EdgeKey) { delete(t.edges, k) }

// Clone returns a deep copy, used to stage a frame without touching t.
func (t *Trace) Clone() *Trace {
	c := New(t.nodeBG, t.edgeBG)
	for h, s := range t.nodes {
		c.nodes[h] = s.clone()
	}
	for k, s := range t.edges {
		c.edges[k] = s.clone()
	}
	c.pending = append([]Entry(nil), t.pending...)
	c.transient = append([]Entry(nil), t.transient...)
	return c
}

func (s *Stack) clone() *Stack {
	return &Stack{bg: s.bg, colors: append([]colorful.Color(nil), s.colors...)}
}

func (t *Trace) stack(target Target) (*Stack, bool) {
	if target.IsEdge {
		s, ok := t.edges[target.Edge]
		return s, ok
	}
	s, ok := t.nodes[target.Node]
	return s, ok
}
