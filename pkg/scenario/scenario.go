// Package scenario describes scripted mutations of a linked structure and
// plays them against an [engine.Engine].
//
// Scenarios are TOML or YAML documents:
//
//	name = "insert"
//	kind = "list"
//	delay = "800ms"
//
//	[[nodes]]
//	id = "a"
//	label = "A"
//
//	[[steps]]
//	op = "add"
//	node = "a"
//
//	[[steps]]
//	op = "frame"
//
// Every "frame" step renders one frame. Steps after the last "frame" step are
// flushed by an implicit final frame.
package scenario

import (
	"time"

	"github.com/matzehuels/framegraph/pkg/core/render/animate"
	"github.com/matzehuels/framegraph/pkg/core/trace"
	"github.com/matzehuels/framegraph/pkg/engine"
	"github.com/matzehuels/framegraph/pkg/errors"
)

// Structure kinds.
const (
	KindGraph = "graph"
	KindTree  = "tree"
	KindList  = "list"
)

// Step operations.
const (
	OpAdd       = "add"
	OpRemove    = "remove"
	OpLink      = "link"
	OpUnlink    = "unlink"
	OpMark      = "mark"
	OpMarkEdge  = "mark-edge"
	OpUnmark    = "unmark"
	OpLabel     = "label"
	OpEdgeLabel = "edge-label"
	OpFrame     = "frame"
)

// Tree and list link slots.
const (
	SlotLeft  = "left"
	SlotRight = "right"
	SlotNext  = "next"
)

// DefaultColor is used by mark steps without a color.
const DefaultColor = "#ff6347"

// MaxSteps bounds the size of a scenario.
const MaxSteps = 10000

// ValidKinds is the set of supported structure kinds.
var ValidKinds = map[string]bool{
	KindGraph: true,
	KindTree:  true,
	KindList:  true,
}

// Scenario is a scripted sequence of mutations.
type Scenario struct {
	Name       string `toml:"name" yaml:"name" json:"name"`
	Kind       string `toml:"kind" yaml:"kind" json:"kind"`
	Directed   bool   `toml:"directed" yaml:"directed" json:"directed"`
	Horizontal bool   `toml:"horizontal" yaml:"horizontal" json:"horizontal"`
	Delay      string `toml:"delay" yaml:"delay" json:"delay,omitempty"`
	Easing     string `toml:"easing" yaml:"easing" json:"easing,omitempty"`

	Nodes []NodeSpec `toml:"nodes" yaml:"nodes" json:"nodes"`
	Steps []Step     `toml:"steps" yaml:"steps" json:"steps"`
}

// NodeSpec declares one node. Declared nodes are not tracked until an "add"
// step or a link from a tracked node reaches them.
type NodeSpec struct {
	ID    string `toml:"id" yaml:"id" json:"id"`
	Label string `toml:"label" yaml:"label" json:"label,omitempty"`
}

// Step is one operation. Which fields apply depends on Op.
type Step struct {
	Op        string `toml:"op" yaml:"op" json:"op"`
	Node      string `toml:"node" yaml:"node" json:"node,omitempty"`
	From      string `toml:"from" yaml:"from" json:"from,omitempty"`
	To        string `toml:"to" yaml:"to" json:"to,omitempty"`
	Label     string `toml:"label" yaml:"label" json:"label,omitempty"`
	Slot      string `toml:"slot" yaml:"slot" json:"slot,omitempty"`
	Color     string `toml:"color" yaml:"color" json:"color,omitempty"`
	Hold      bool   `toml:"hold" yaml:"hold" json:"hold,omitempty"`
	Recursive bool   `toml:"recursive" yaml:"recursive" json:"recursive,omitempty"`
}

// IsDirected reports whether edges of the scenario's structure are directed.
// Trees and lists always are.
func (s *Scenario) IsDirected() bool {
	return s.Kind != KindGraph || s.Directed
}

// DelayDuration returns the parsed delay, or zero if unset.
func (s *Scenario) DelayDuration() time.Duration {
	d, _ := time.ParseDuration(s.Delay)
	return d
}

// Frames returns the number of frames Play emits.
func (s *Scenario) Frames() int {
	n := 0
	for _, st := range s.Steps {
		if st.Op == OpFrame {
			n++
		}
	}
	if len(s.Steps) > 0 && s.Steps[len(s.Steps)-1].Op != OpFrame {
		n++
	}
	return n
}

// EngineOptions applies the scenario's settings on top of base.
func (s *Scenario) EngineOptions(base engine.Options) engine.Options {
	base.Directed = s.IsDirected()
	base.Horizontal = s.Horizontal
	if d := s.DelayDuration(); d > 0 {
		base.Delay = d
	}
	if s.Easing != "" {
		base.Easing = s.Easing
	}
	return base
}

// Validate checks the scenario without playing it. An empty kind defaults
// to a graph.
func (s *Scenario) Validate() error {
	if s.Kind == "" {
		s.Kind = KindGraph
	}
	if !ValidKinds[s.Kind] {
		return errors.New(errors.ErrCodeInvalidScenario, "unknown kind %q", s.Kind)
	}
	if s.Delay != "" {
		d, err := time.ParseDuration(s.Delay)
		if err != nil || d <= 0 {
			return errors.New(errors.ErrCodeInvalidScenario, "invalid delay %q", s.Delay)
		}
	}
	if s.Easing != "" {
		if _, err := animate.EasingByName(s.Easing); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "invalid easing")
		}
	}
	if len(s.Steps) > MaxSteps {
		return errors.New(errors.ErrCodeInvalidScenario, "too many steps (max %d)", MaxSteps)
	}

	ids := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return err
		}
		if ids[n.ID] {
			return errors.New(errors.ErrCodeInvalidScenario, "duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
		if err := errors.ValidateLabel(n.Label); err != nil {
			return err
		}
	}
	for i, st := range s.Steps {
		if err := s.validateStep(st, ids); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "step %d (%s)", i+1, st.Op)
		}
	}
	return nil
}

func (s *Scenario) validateStep(st Step, ids map[string]bool) error {
	known := func(id string) error {
		if !ids[id] {
			return errors.New(errors.ErrCodeInvalidScenario, "unknown node %q", id)
		}
		return nil
	}
	color := func() error {
		if st.Color == "" {
			return nil
		}
		if _, err := trace.ParseColor(st.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", st.Color)
		}
		return nil
	}

	switch st.Op {
	case OpAdd, OpRemove:
		return known(st.Node)
	case OpMark:
		if err := known(st.Node); err != nil {
			return err
		}
		return color()
	case OpUnmark:
		return color()
	case OpLabel:
		if err := known(st.Node); err != nil {
			return err
		}
		return errors.ValidateLabel(st.Label)
	case OpLink, OpUnlink, OpMarkEdge, OpEdgeLabel:
		if err := known(st.From); err != nil {
			return err
		}
		if err := known(st.To); err != nil {
			return err
		}
		if st.Op == OpLink || st.Op == OpEdgeLabel {
			if err := errors.ValidateLabel(st.Label); err != nil {
				return err
			}
		}
		if st.Op == OpMarkEdge {
			return color()
		}
		if st.Op == OpLink && s.Kind == KindTree && st.Slot != SlotLeft && st.Slot != SlotRight {
			return errors.New(errors.ErrCodeInvalidScenario, "tree links need slot %q or %q", SlotLeft, SlotRight)
		}
		return nil
	case OpFrame:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidScenario, "unknown op %q", st.Op)
}
