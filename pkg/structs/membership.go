package structs

import "github.com/matzehuels/framegraph/pkg/core/topology"

// membership records the models currently tracking a node.
type membership struct {
	models map[*topology.Model]struct{}
}

// OnAdd implements [topology.Tracker].
func (m *membership) OnAdd(model *topology.Model) {
	if m.models == nil {
		m.models = make(map[*topology.Model]struct{})
	}
	m.models[model] = struct{}{}
}

// OnRemove implements [topology.Tracker].
func (m *membership) OnRemove(model *topology.Model) {
	delete(m.models, model)
}

// Tracked reports whether any model tracks the node.
func (m *membership) Tracked() bool { return len(m.models) > 0 }

// TrackedBy reports whether model tracks the node.
func (m *membership) TrackedBy(model *topology.Model) bool {
	_, ok := m.models[model]
	return ok
}
