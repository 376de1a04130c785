package topology

// Model tracks the live nodes of one structure and its committed topology.
// A Model is not safe for concurrent use.
type Model struct {
	directed bool
	arena    *arena

	live    map[Handle]bool
	retired map[Handle]bool // explicitly removed and not re-added

	pendingAdd    []Handle
	pendingRemove int

	committed Snapshot
}

// NewModel returns an empty model.
func NewModel(directed bool) *Model {
	return &Model{
		directed:  directed,
		arena:     newArena(),
		live:      make(map[Handle]bool),
		retired:   make(map[Handle]bool),
		committed: emptySnapshot(),
	}
}

// Directed reports whether edge keys are ordered.
func (m *Model) Directed() bool { return m.directed }

// AddNode registers root and every live-unknown node reachable from it.
// It returns the number of newly added nodes, zero if root is already live.
func (m *Model) AddNode(root Node) (int, error) {
	if isNil(root) {
		return 0, nil
	}
	if h, ok := m.arena.lookup(root); ok && m.live[h] {
		return 0, nil
	}

	added := 0
	stack := []Node{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		h, err := m.arena.handle(cur)
		if err != nil {
			return added, err
		}
		if m.live[h] {
			continue
		}
		m.admit(h, cur)
		m.pendingAdd = append(m.pendingAdd, h)
		added++

		nbs := cur.Neighbors()
		for i := len(nbs) - 1; i >= 0; i-- {
			if !isNil(nbs[i].Node) {
				stack = append(stack, nbs[i].Node)
			}
		}
	}
	return added, nil
}

// RemoveNode drops root from the live set, together with every live node
// reachable from it when recursive is set. It returns the number of nodes
// removed. Removed nodes stay out of traversals until added again, even if a
// live node still links to them.
func (m *Model) RemoveNode(root Node, recursive bool) int {
	removed := 0
	stack := []Node{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		h, ok := m.arena.lookup(cur)
		if !ok || !m.live[h] {
			continue
		}
		delete(m.live, h)
		m.retired[h] = true
		m.pendingRemove++
		removed++
		if t, ok := cur.(Tracker); ok {
			t.OnRemove(m)
		}

		if recursive {
			for _, nb := range cur.Neighbors() {
				if !isNil(nb.Node) {
					stack = append(stack, nb.Node)
				}
			}
		}
	}
	return removed
}

// Pending reports whether adds or removals are waiting for the next commit.
func (m *Model) Pending() bool {
	return len(m.pendingAdd) > 0 || m.pendingRemove > 0
}

// Traverse walks the structure from the committed node sequence plus pending
// additions and returns the resulting topology. It does not change the model.
func (m *Model) Traverse() (Snapshot, error) {
	snap := emptySnapshot()

	visited := make(map[Handle]bool, len(m.committed.Nodes)+len(m.retired))
	for h := range m.retired {
		visited[h] = true
	}

	starts := make([]Handle, 0, len(m.committed.Nodes)+len(m.pendingAdd))
	for _, h := range m.committed.Nodes {
		if !m.arena.isPlaceholder(h) {
			starts = append(starts, h)
		}
	}
	starts = append(starts, m.pendingAdd...)

	stack := make([]Handle, 0, len(starts))
	for i := len(starts) - 1; i >= 0; i-- {
		stack = append(stack, starts[i])
	}

	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[h] {
			continue
		}
		visited[h] = true
		snap.Nodes = append(snap.Nodes, h)

		n, ok := m.arena.node(h)
		if !ok {
			continue // placeholder
		}

		nbs := n.Neighbors()
		next := make([]Handle, 0, len(nbs))
		for i, nb := range nbs {
			var nh Handle
			if isNil(nb.Node) {
				nh = m.arena.placeholder(h, i)
			} else {
				var err error
				if nh, err = m.arena.handle(nb.Node); err != nil {
					return Snapshot{}, err
				}
				if m.retired[nh] {
					continue
				}
			}
			key := m.key(h, nh)
			if _, seen := snap.Labels[key]; !seen {
				snap.Edges = append(snap.Edges, key)
			}
			snap.Labels[key] = nb.Label
			next = append(next, nh)
		}
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, next[i])
		}
	}
	return snap, nil
}

// Commit makes s the committed topology. Nodes first discovered by the
// traversal that produced s join the live set.
func (m *Model) Commit(s Snapshot) {
	for _, h := range s.Nodes {
		if m.live[h] || m.arena.isPlaceholder(h) {
			continue
		}
		if n, ok := m.arena.node(h); ok {
			m.admit(h, n)
		}
	}
	m.committed = s.Clone()
	m.pendingAdd = nil
	m.pendingRemove = 0
}

// Snapshot returns a copy of the committed topology.
func (m *Model) Snapshot() Snapshot { return m.committed.Clone() }

// Handle returns the handle of n if the model has seen it.
func (m *Model) Handle(n Node) (Handle, bool) { return m.arena.lookup(n) }

// Node returns the node behind h. Placeholders have no node.
func (m *Model) Node(h Handle) (Node, bool) { return m.arena.node(h) }

// IsLive reports whether n is currently tracked.
func (m *Model) IsLive(n Node) bool {
	h, ok := m.arena.lookup(n)
	return ok && m.live[h]
}

// IsPlaceholder reports whether h stands for a dangling neighbor slot.
func (m *Model) IsPlaceholder(h Handle) bool { return m.arena.isPlaceholder(h) }

// Label returns the display text of the node behind h.
func (m *Model) Label(h Handle) string {
	n, ok := m.arena.node(h)
	if !ok {
		return ""
	}
	return labelOf(n)
}

// EdgeKey returns the canonical key of the edge a→b. Both nodes must be known.
func (m *Model) EdgeKey(a, b Node) (EdgeKey, bool) {
	ha, ok := m.arena.lookup(a)
	if !ok {
		return EdgeKey{}, false
	}
	hb, ok := m.arena.lookup(b)
	if !ok {
		return EdgeKey{}, false
	}
	return m.key(ha, hb), true
}

func (m *Model) key(from, to Handle) EdgeKey {
	if !m.directed && to < from {
		from, to = to, from
	}
	return EdgeKey{From: from, To: to}
}

// admit marks h live, cancelling a removal that has not been committed yet.
func (m *Model) admit(h Handle, n Node) {
	m.live[h] = true
	delete(m.retired, h)
	if t, ok := n.(Tracker); ok {
		t.OnAdd(m)
	}
}
