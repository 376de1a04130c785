package topology

import (
	"testing"

	"github.com/matzehuels/framegraph/pkg/errors"
)

type node struct {
	name   string
	out    []*node
	labels []string

	added, removed int
}

func (n *node) Neighbors() []Neighbor {
	nbs := make([]Neighbor, len(n.out))
	for i, o := range n.out {
		nbs[i] = Neighbor{Node: o}
		if i < len(n.labels) {
			nbs[i].Label = n.labels[i]
		}
	}
	return nbs
}

func (n *node) Label() string   { return n.name }
func (n *node) OnAdd(*Model)    { n.added++ }
func (n *node) OnRemove(*Model) { n.removed++ }

func (n *node) link(to ...*node) *node {
	n.out = append(n.out, to...)
	return n
}

// valueNode is a non-comparable node type.
type valueNode struct{ out []Neighbor }

func (v valueNode) Neighbors() []Neighbor { return v.out }

func chain(names ...string) []*node {
	nodes := make([]*node, len(names))
	for i, name := range names {
		nodes[i] = &node{name: name}
		if i > 0 {
			nodes[i-1].link(nodes[i])
		}
	}
	return nodes
}

func mustTraverse(t *testing.T, m *Model) Snapshot {
	t.Helper()
	s, err := m.Traverse()
	if err != nil {
		t.Fatalf("Traverse() error: %v", err)
	}
	return s
}

func labels(m *Model, hs []Handle) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = m.Label(h)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddNodeIdempotent(t *testing.T) {
	n := chain("A", "B", "C")
	m := NewModel(true)

	got, err := m.AddNode(n[0])
	if err != nil {
		t.Fatalf("AddNode() error: %v", err)
	}
	if got != 3 {
		t.Errorf("AddNode() = %d, want 3", got)
	}
	if got, _ := m.AddNode(n[0]); got != 0 {
		t.Errorf("second AddNode() = %d, want 0", got)
	}
	if got, _ := m.AddNode(n[1]); got != 0 {
		t.Errorf("AddNode(reachable) = %d, want 0", got)
	}
	for _, x := range n {
		if x.added != 1 {
			t.Errorf("%s.OnAdd called %d times, want 1", x.name, x.added)
		}
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	n := chain("A", "B", "C")
	n[2].link(n[0]) // cycle
	m := NewModel(true)

	added, _ := m.AddNode(n[0])
	removed := m.RemoveNode(n[0], true)
	if added != removed {
		t.Errorf("RemoveNode() = %d, want %d", removed, added)
	}
	for _, x := range n {
		if m.IsLive(x) {
			t.Errorf("IsLive(%s) = true after recursive remove", x.name)
		}
	}
	if s := mustTraverse(t, m); len(s.Nodes) != 0 {
		t.Errorf("Traverse() nodes = %v, want none", labels(m, s.Nodes))
	}
}

func TestRemoveNonRecursive(t *testing.T) {
	n := chain("A", "B", "C")
	m := NewModel(true)
	m.AddNode(n[0])
	m.Commit(mustTraverse(t, m))

	if got := m.RemoveNode(n[2], false); got != 1 {
		t.Fatalf("RemoveNode() = %d, want 1", got)
	}
	if got := m.RemoveNode(n[2], false); got != 0 {
		t.Errorf("second RemoveNode() = %d, want 0", got)
	}

	s := mustTraverse(t, m)
	if got := labels(m, s.Nodes); !equal(got, []string{"A", "B"}) {
		t.Errorf("Traverse() nodes = %v, want [A B]", got)
	}
	// B still links to C, but the edge is gone with C.
	if len(s.Edges) != 1 {
		t.Errorf("Traverse() edges = %v, want 1 edge", s.Edges)
	}
	m.Commit(s)

	if s := mustTraverse(t, m); len(s.Nodes) != 2 {
		t.Errorf("removed node came back: %v", labels(m, s.Nodes))
	}
}

func TestReAddCancelsRemoval(t *testing.T) {
	n := chain("A", "B")
	m := NewModel(true)
	m.AddNode(n[0])
	m.Commit(mustTraverse(t, m))

	m.RemoveNode(n[1], false)
	if got, _ := m.AddNode(n[1]); got != 1 {
		t.Fatalf("AddNode() = %d, want 1", got)
	}
	s := mustTraverse(t, m)
	if got := labels(m, s.Nodes); !equal(got, []string{"A", "B"}) {
		t.Errorf("Traverse() nodes = %v, want [A B]", got)
	}
}

func TestTraverseOrder(t *testing.T) {
	a := &node{name: "A"}
	b := &node{name: "B"}
	c := &node{name: "C"}
	d := &node{name: "D"}
	a.link(b, c)
	b.link(d)
	a.labels = []string{"x", "y"}

	m := NewModel(true)
	m.AddNode(a)
	s := mustTraverse(t, m)

	if got := labels(m, s.Nodes); !equal(got, []string{"A", "B", "D", "C"}) {
		t.Errorf("Traverse() nodes = %v, want [A B D C]", got)
	}
	ab, _ := m.EdgeKey(a, b)
	ac, _ := m.EdgeKey(a, c)
	if s.Edges[0] != ab || s.Edges[1] != ac {
		t.Errorf("Traverse() edges = %v, want A->B first, A->C second", s.Edges)
	}
	if s.Labels[ab] != "x" || s.Labels[ac] != "y" {
		t.Errorf("Labels = %v, want x and y", s.Labels)
	}
}

func TestTraverseDiscoversNewNodes(t *testing.T) {
	n := chain("A", "B")
	m := NewModel(true)
	m.AddNode(n[0])
	m.Commit(mustTraverse(t, m))

	c := &node{name: "C"}
	n[1].link(c)
	if m.IsLive(c) {
		t.Fatal("IsLive(C) = true before traversal")
	}
	s := mustTraverse(t, m)
	if !s.HasNode(mustHandle(t, m, c)) {
		t.Fatal("Traverse() did not discover C")
	}
	m.Commit(s)
	if !m.IsLive(c) || c.added != 1 {
		t.Errorf("C live=%v added=%d, want live and one OnAdd", m.IsLive(c), c.added)
	}
}

func TestPlaceholders(t *testing.T) {
	root := &node{name: "R"}
	right := &node{name: "X"}
	root.out = []*node{nil, right}

	m := NewModel(true)
	m.AddNode(root)
	s := mustTraverse(t, m)

	if len(s.Nodes) != 3 {
		t.Fatalf("Traverse() nodes = %d, want 3", len(s.Nodes))
	}
	ph := s.Nodes[1]
	if !m.IsPlaceholder(ph) {
		t.Errorf("IsPlaceholder(%d) = false, want true", ph)
	}
	if s.Edges[0].To != ph {
		t.Errorf("first edge = %v, want edge to placeholder", s.Edges[0])
	}
	m.Commit(s)

	// The same slot keeps its handle across frames.
	s2 := mustTraverse(t, m)
	if s2.Nodes[1] != ph {
		t.Errorf("placeholder handle = %d, want %d", s2.Nodes[1], ph)
	}

	// Filling the slot retires the placeholder.
	root.out[0] = &node{name: "L"}
	s3 := mustTraverse(t, m)
	if s3.HasNode(ph) {
		t.Error("placeholder still present after slot was filled")
	}
}

func TestUndirectedEdgeKey(t *testing.T) {
	a := &node{name: "A"}
	b := &node{name: "B"}
	a.link(b)
	b.link(a)

	m := NewModel(false)
	m.AddNode(a)
	s := mustTraverse(t, m)

	ab, _ := m.EdgeKey(a, b)
	ba, _ := m.EdgeKey(b, a)
	if ab != ba {
		t.Errorf("EdgeKey(A,B) = %v, EdgeKey(B,A) = %v, want equal", ab, ba)
	}
	if len(s.Edges) != 1 {
		t.Errorf("Traverse() edges = %v, want one undirected edge", s.Edges)
	}

	d := NewModel(true)
	d.AddNode(a)
	ab, _ = d.EdgeKey(a, b)
	ba, _ = d.EdgeKey(b, a)
	if ab == ba {
		t.Errorf("directed EdgeKey(A,B) = EdgeKey(B,A) = %v", ab)
	}
}

func TestNonComparableNode(t *testing.T) {
	m := NewModel(true)
	_, err := m.AddNode(valueNode{})
	if !errors.Is(err, errors.ErrCodeInvalidNode) {
		t.Errorf("AddNode(non-comparable) error = %v, want INVALID_NODE", err)
	}
}

func TestHandlesNeverReused(t *testing.T) {
	m := NewModel(true)
	a := &node{name: "A"}
	b := &node{name: "B"}
	m.AddNode(a)
	m.RemoveNode(a, false)
	m.AddNode(b)
	ha := mustHandle(t, m, a)
	hb := mustHandle(t, m, b)
	if ha == hb || ha == 0 || hb == 0 {
		t.Errorf("handles A=%d B=%d, want distinct non-zero", ha, hb)
	}
	m.AddNode(a)
	if got := mustHandle(t, m, a); got != ha {
		t.Errorf("re-added handle = %d, want %d", got, ha)
	}
}

func mustHandle(t *testing.T, m *Model, n Node) Handle {
	t.Helper()
	h, ok := m.Handle(n)
	if !ok {
		t.Fatalf("Handle(%v) not found", n)
	}
	return h
}
