// Package idmap provides a bijection between arbitrary comparable keys and
// dense consecutive integers.
//
// Graphviz numbers the elements it emits ("node1", "edge3", ...) in the order
// they were declared. A [Map] assigns the same numbers to the keys that were
// fed to the layout call, so elements of the rendered document can be traced
// back to the nodes and edges they represent.
//
// A Map is only meaningful for the layout call it was built for. Two frames
// laid out independently may number the same key differently; callers must
// look keys up in the map that belongs to the document they are addressing.
package idmap

// Map is a bidirectional mapping between keys and consecutive ids starting at
// a configurable base. The zero value is not usable; create one with [New].
type Map[K comparable] struct {
	base int
	ids  map[K]int
	keys []K
}

// New creates an empty map whose first assigned id is base.
func New[K comparable](base int) *Map[K] {
	return &Map[K]{
		base: base,
		ids:  make(map[K]int),
	}
}

// ID returns the id of k, assigning the next consecutive id if k is new.
func (m *Map[K]) ID(k K) int {
	if id, ok := m.ids[k]; ok {
		return id
	}
	id := m.base + len(m.keys)
	m.ids[k] = id
	m.keys = append(m.keys, k)
	return id
}

// Lookup returns the id of k without assigning one.
func (m *Map[K]) Lookup(k K) (int, bool) {
	id, ok := m.ids[k]
	return id, ok
}

// Contains reports whether k has an id.
func (m *Map[K]) Contains(k K) bool {
	_, ok := m.ids[k]
	return ok
}

// Key returns the key assigned to id.
func (m *Map[K]) Key(id int) (K, bool) {
	i := id - m.base
	if i < 0 || i >= len(m.keys) {
		var zero K
		return zero, false
	}
	return m.keys[i], true
}

// Keys returns all keys in id order.
func (m *Map[K]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of assigned ids.
func (m *Map[K]) Len() int { return len(m.keys) }

// Base returns the first id handed out by the map.
func (m *Map[K]) Base() int { return m.base }

// Clone returns an independent copy of m.
func (m *Map[K]) Clone() *Map[K] {
	c := &Map[K]{
		base: m.base,
		ids:  make(map[K]int, len(m.ids)),
		keys: append([]K(nil), m.keys...),
	}
	for k, id := range m.ids {
		c.ids[k] = id
	}
	return c
}
