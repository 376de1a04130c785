package scenario

import (
	"context"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/framegraph/pkg/core/diff"
	"github.com/matzehuels/framegraph/pkg/core/topology"
	"github.com/matzehuels/framegraph/pkg/core/trace"
	"github.com/matzehuels/framegraph/pkg/engine"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/structs"
)

// Frame is one rendered frame of a scenario.
type Frame struct {
	Index    int
	SVG      []byte
	Diff     diff.Summary
	Duration time.Duration
}

// EmitFunc receives frames as they are rendered. Returning an error stops
// playback.
type EmitFunc func(Frame) error

// Play runs the steps of s against eng, which must have been created
// without roots for this scenario. Structure nodes are built fresh on every
// call.
func (s *Scenario) Play(ctx context.Context, eng *engine.Engine, emit EmitFunc) error {
	if err := s.Validate(); err != nil {
		return err
	}
	w := newWorld(s)
	index := 0
	render := func() error {
		start := time.Now()
		svg, err := eng.Frame(ctx)
		if err != nil {
			return err
		}
		index++
		return emit(Frame{
			Index:    index,
			SVG:      svg,
			Diff:     eng.LastDiff().Summary(),
			Duration: time.Since(start),
		})
	}

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if st.Op == OpFrame {
			if err := render(); err != nil {
				return err
			}
			continue
		}
		if err := w.apply(eng, st); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "step %d (%s)", i+1, st.Op)
		}
	}
	if len(s.Steps) > 0 && s.Steps[len(s.Steps)-1].Op != OpFrame {
		return render()
	}
	return nil
}

// world holds the structure nodes of one playback.
type world struct {
	kind  string
	graph map[string]*structs.GraphNode
	tree  map[string]*structs.TreeNode
	list  map[string]*structs.ListNode
}

func newWorld(s *Scenario) *world {
	w := &world{kind: s.Kind}
	switch s.Kind {
	case KindTree:
		w.tree = make(map[string]*structs.TreeNode, len(s.Nodes))
	case KindList:
		w.list = make(map[string]*structs.ListNode, len(s.Nodes))
	default:
		w.graph = make(map[string]*structs.GraphNode, len(s.Nodes))
	}
	for _, n := range s.Nodes {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		switch s.Kind {
		case KindTree:
			w.tree[n.ID] = structs.NewTreeNode(label)
		case KindList:
			w.list[n.ID] = structs.NewListNode(label)
		default:
			w.graph[n.ID] = structs.NewGraphNode(label)
		}
	}
	return w
}

// node returns the structure node for id, or nil.
func (w *world) node(id string) topology.Node {
	switch w.kind {
	case KindTree:
		if n, ok := w.tree[id]; ok {
			return n
		}
	case KindList:
		if n, ok := w.list[id]; ok {
			return n
		}
	default:
		if n, ok := w.graph[id]; ok {
			return n
		}
	}
	return nil
}

func (w *world) apply(eng *engine.Engine, st Step) error {
	switch st.Op {
	case OpAdd:
		_, err := eng.AddNode(w.node(st.Node))
		return err
	case OpRemove:
		eng.RemoveNode(w.node(st.Node), st.Recursive)
	case OpLink:
		return w.link(st)
	case OpUnlink:
		w.unlink(st)
	case OpMark:
		c, err := color(st.Color)
		if err != nil {
			return err
		}
		eng.MarkNode(w.node(st.Node), c, st.Hold)
	case OpMarkEdge:
		c, err := color(st.Color)
		if err != nil {
			return err
		}
		eng.MarkEdge(w.node(st.From), w.node(st.To), c, st.Hold)
	case OpUnmark:
		c, err := color(st.Color)
		if err != nil {
			return err
		}
		eng.RemoveMark(c)
	case OpLabel:
		eng.SetNodeLabel(w.node(st.Node), st.Label)
	case OpEdgeLabel:
		eng.SetEdgeLabel(w.node(st.From), w.node(st.To), st.Label)
	default:
		return errors.New(errors.ErrCodeInvalidScenario, "unknown op %q", st.Op)
	}
	return nil
}

func (w *world) link(st Step) error {
	switch w.kind {
	case KindTree:
		from, to := w.tree[st.From], w.tree[st.To]
		switch st.Slot {
		case SlotLeft:
			from.Left = to
		case SlotRight:
			from.Right = to
		default:
			return errors.New(errors.ErrCodeInvalidScenario, "unknown tree slot %q", st.Slot)
		}
	case KindList:
		w.list[st.From].Next = w.list[st.To]
	default:
		w.graph[st.From].Link(w.graph[st.To], st.Label)
	}
	return nil
}

func (w *world) unlink(st Step) {
	switch w.kind {
	case KindTree:
		from, to := w.tree[st.From], w.tree[st.To]
		if from.Left == to {
			from.Left = nil
		}
		if from.Right == to {
			from.Right = nil
		}
	case KindList:
		if from := w.list[st.From]; from.Next == w.list[st.To] {
			from.Next = nil
		}
	default:
		w.graph[st.From].Unlink(w.graph[st.To])
	}
}

func color(s string) (colorful.Color, error) {
	if s == "" {
		s = DefaultColor
	}
	c, err := trace.ParseColor(s)
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", s)
	}
	return c, nil
}
