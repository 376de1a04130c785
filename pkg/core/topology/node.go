package topology

import (
	"fmt"
	"reflect"
)

// Node is the capability a structure element exposes to the model.
//
// Implementations must be comparable (pointer receivers are the norm) because
// identity, not structural equality, decides whether two neighbors are the
// same node.
type Node interface {
	// Neighbors returns the outgoing links in display order. A neighbor with
	// a nil Node is an empty slot that still occupies a position.
	Neighbors() []Neighbor
}

// Neighbor is one outgoing link of a [Node].
type Neighbor struct {
	Node  Node   // nil for a dangling slot
	Label string // empty for an unlabelled edge
}

// Labeler is implemented by nodes that provide their own display text.
// Nodes that don't implement it fall back to [fmt.Stringer], then to no label.
type Labeler interface {
	Label() string
}

// Tracker is implemented by nodes that want to know when a model starts or
// stops tracking them.
type Tracker interface {
	OnAdd(m *Model)
	OnRemove(m *Model)
}

// Handle is the model-scoped identity of a node or placeholder slot.
// Handles start at 1 and are never reused within a model; zero means none.
type Handle uint64

// EdgeKey is the canonical identifier of an edge.
type EdgeKey struct {
	From Handle
	To   Handle
}

// String returns "from->to".
func (k EdgeKey) String() string { return fmt.Sprintf("%d->%d", k.From, k.To) }

// Touches reports whether h is one of the endpoints.
func (k EdgeKey) Touches(h Handle) bool { return k.From == h || k.To == h }

// labelOf returns the display text of n.
func labelOf(n Node) string {
	switch v := n.(type) {
	case Labeler:
		return v.Label()
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

// isNil reports whether n is nil, including typed nil pointers stored in the
// interface.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// isComparable reports whether n can be used as a map key.
func isComparable(n Node) bool {
	return reflect.TypeOf(n).Comparable()
}
