package topology

import (
	"github.com/matzehuels/framegraph/pkg/errors"
)

// slot identifies a dangling neighbor position of a node.
type slot struct {
	parent Handle
	index  int
}

// arena assigns handles to nodes and placeholder slots on first sight.
type arena struct {
	next         Handle
	handles      map[Node]Handle
	nodes        map[Handle]Node
	slots        map[slot]Handle
	placeholders map[Handle]slot
}

func newArena() *arena {
	return &arena{
		next:         1,
		handles:      make(map[Node]Handle),
		nodes:        make(map[Handle]Node),
		slots:        make(map[slot]Handle),
		placeholders: make(map[Handle]slot),
	}
}

// handle returns the handle of n, assigning one if n is new.
func (a *arena) handle(n Node) (Handle, error) {
	if !isComparable(n) {
		return 0, errors.New(errors.ErrCodeInvalidNode, "node type %T is not comparable", n)
	}
	if h, ok := a.handles[n]; ok {
		return h, nil
	}
	h := a.next
	a.next++
	a.handles[n] = h
	a.nodes[h] = n
	return h, nil
}

// lookup returns the handle of n without assigning one.
func (a *arena) lookup(n Node) (Handle, bool) {
	if isNil(n) || !isComparable(n) {
		return 0, false
	}
	h, ok := a.handles[n]
	return h, ok
}

// placeholder returns the handle of the index-th slot of parent.
func (a *arena) placeholder(parent Handle, index int) Handle {
	s := slot{parent: parent, index: index}
	if h, ok := a.slots[s]; ok {
		return h
	}
	h := a.next
	a.next++
	a.slots[s] = h
	a.placeholders[h] = s
	return h
}

func (a *arena) node(h Handle) (Node, bool) {
	n, ok := a.nodes[h]
	return n, ok
}

func (a *arena) isPlaceholder(h Handle) bool {
	_, ok := a.placeholders[h]
	return ok
}
