package topology

// Snapshot is the topology of one frame. Node and edge order follow the
// traversal and drive the order in which elements are handed to the layout.
type Snapshot struct {
	Nodes  []Handle
	Edges  []EdgeKey
	Labels map[EdgeKey]string
}

func emptySnapshot() Snapshot {
	return Snapshot{Labels: make(map[EdgeKey]string)}
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Nodes:  append([]Handle(nil), s.Nodes...),
		Edges:  append([]EdgeKey(nil), s.Edges...),
		Labels: make(map[EdgeKey]string, len(s.Labels)),
	}
	for k, v := range s.Labels {
		c.Labels[k] = v
	}
	return c
}

// HasNode reports whether h is part of s.
func (s Snapshot) HasNode(h Handle) bool {
	for _, n := range s.Nodes {
		if n == h {
			return true
		}
	}
	return false
}

// HasEdge reports whether k is part of s.
func (s Snapshot) HasEdge(k EdgeKey) bool {
	_, ok := s.Labels[k]
	return ok
}

// NodeSet returns the nodes of s as a set.
func (s Snapshot) NodeSet() map[Handle]bool {
	set := make(map[Handle]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		set[n] = true
	}
	return set
}
