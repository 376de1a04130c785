// Package engine turns a mutating linked structure into a sequence of
// animated SVG frames.
//
// An [Engine] owns a topology model, the highlight trace and the document of
// the last emitted frame. Each call to [Engine.Frame] lays out the current
// topology, diffs it against the previous one and patches the previous
// document with the animations that lead to the new one:
//
//	eng, err := engine.New(ctx, engine.Options{
//	    Directed: true,
//	    Layouter: nodelink.NewRenderer(),
//	}, head)
//	if err != nil {
//	    return err
//	}
//	eng.MarkNode(head, red, false)
//	svg, err := eng.Frame(ctx)
//
// A failed frame leaves the engine as it was before the call, so the caller
// may retry or keep mutating.
package engine

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/framegraph/pkg/core/diff"
	"github.com/matzehuels/framegraph/pkg/core/idmap"
	"github.com/matzehuels/framegraph/pkg/core/render/animate"
	"github.com/matzehuels/framegraph/pkg/core/render/nodelink"
	"github.com/matzehuels/framegraph/pkg/core/render/svgdoc"
	"github.com/matzehuels/framegraph/pkg/core/topology"
	"github.com/matzehuels/framegraph/pkg/core/trace"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/observability"
)

// Engine produces one frame per [Engine.Frame] call. It is not safe for
// concurrent use.
type Engine struct {
	opts   Options
	logger *log.Logger
	hooks  observability.FrameHooks
	name   string // layout engine name for hooks

	model *topology.Model
	trace *trace.Trace
	base  animate.Layout // last emitted layout with steady-state colors

	nodeLabels map[topology.Handle]string
	edgeLabels map[topology.EdgeKey]string

	state  State
	frames int
	last   *diff.Diff
}

// New returns an engine tracking roots. The initial baseline is the layout
// of the empty structure, so the first frame fades every root in.
func New(ctx context.Context, opts Options, roots ...topology.Node) (*Engine, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	e := &Engine{
		opts:       opts,
		logger:     opts.Logger,
		hooks:      opts.Hooks,
		name:       nodelink.EngineName(opts.Layouter),
		model:      topology.NewModel(opts.Directed),
		trace:      trace.New(opts.nodeBG, opts.edgeBG),
		nodeLabels: make(map[topology.Handle]string),
		edgeLabels: make(map[topology.EdgeKey]string),
		last:       diff.Compute(topology.Snapshot{}, topology.Snapshot{}),
	}
	base, err := e.layout(ctx, e.model.Snapshot())
	if err != nil {
		return nil, err
	}
	e.base = base
	for _, r := range roots {
		if _, err := e.AddNode(r); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// State returns the current phase.
func (e *Engine) State() State { return e.state }

// FrameCount returns the number of frames emitted so far.
func (e *Engine) FrameCount() int { return e.frames }

// LastDiff returns the change set of the last emitted frame.
func (e *Engine) LastDiff() *diff.Diff { return e.last }

// Model exposes the topology model, mostly for inspection in tests.
func (e *Engine) Model() *topology.Model { return e.model }

// AddNode starts tracking n and every node reachable from it.
func (e *Engine) AddNode(n topology.Node) (int, error) {
	e.idle()
	return e.model.AddNode(n)
}

// RemoveNode stops tracking n, and everything reachable from it when
// recursive is set. The removal shows up as a fade-out in the next frame.
func (e *Engine) RemoveNode(n topology.Node, recursive bool) int {
	e.idle()
	return e.model.RemoveNode(n, recursive)
}

// MarkNode highlights n with c in the next frame. Unless hold is set the
// highlight is retracted one frame later. Untracked nodes are ignored.
func (e *Engine) MarkNode(n topology.Node, c colorful.Color, hold bool) {
	e.idle()
	h, ok := e.model.Handle(n)
	if !ok || !e.model.IsLive(n) {
		return
	}
	e.trace.MarkNode(h, c, hold)
}

// MarkEdge highlights the edge a→b with c in the next frame. The edge of an
// undirected structure may be given in either direction.
func (e *Engine) MarkEdge(a, b topology.Node, c colorful.Color, hold bool) {
	e.idle()
	if !e.model.IsLive(a) || !e.model.IsLive(b) {
		return
	}
	k, ok := e.model.EdgeKey(a, b)
	if !ok {
		return
	}
	e.trace.MarkEdge(k, c, hold)
}

// RemoveMark removes one instance of c from every tracked node and edge and
// repaints the elements whose color changed in the current document.
func (e *Engine) RemoveMark(c colorful.Color) {
	e.idle()
	nodes, edges := e.marked()
	for _, t := range e.trace.Unmark(c, nodes, edges) {
		paint(e.base, t, e.trace)
	}
}

// marked returns every element that may carry a stack: the committed
// topology plus targets marked since the last frame.
func (e *Engine) marked() ([]topology.Handle, []topology.EdgeKey) {
	snap := e.model.Snapshot()
	nodes, edges := snap.Nodes, snap.Edges
	seenN := snap.NodeSet()
	seenE := make(map[topology.EdgeKey]bool, len(edges))
	for _, k := range edges {
		seenE[k] = true
	}
	for _, p := range e.trace.Pending() {
		switch t := p.Target; {
		case t.IsEdge && !seenE[t.Edge]:
			seenE[t.Edge] = true
			edges = append(edges, t.Edge)
		case !t.IsEdge && !seenN[t.Node]:
			seenN[t.Node] = true
			nodes = append(nodes, t.Node)
		}
	}
	return nodes, edges
}

// SetNodeLabel replaces the label of n. The current document is rewritten
// immediately and later layouts keep the new label.
func (e *Engine) SetNodeLabel(n topology.Node, label string) {
	e.idle()
	h, ok := e.model.Handle(n)
	if !ok || !e.model.IsLive(n) {
		return
	}
	e.nodeLabels[h] = label
	if id, ok := e.base.Nodes.Lookup(h); ok {
		for _, g := range e.base.Doc.Find(svgdoc.KindNode, id) {
			svgdoc.RelabelNode(g, label)
		}
	}
}

// SetEdgeLabel replaces the label of the edge a→b.
func (e *Engine) SetEdgeLabel(a, b topology.Node, label string) {
	e.idle()
	k, ok := e.model.EdgeKey(a, b)
	if !ok {
		return
	}
	e.edgeLabels[k] = label
	if id, ok := e.base.Edges.Lookup(k); ok {
		for _, g := range e.base.Doc.Find(svgdoc.KindEdge, id) {
			svgdoc.RelabelEdge(g, label)
		}
	}
}

// Current returns the current document without animations, as it would
// look once the last frame finished playing.
func (e *Engine) Current() ([]byte, error) {
	return e.base.Doc.Bytes()
}

// Frame renders the next frame.
func (e *Engine) Frame(ctx context.Context) ([]byte, error) {
	if e.state != Idle && e.state != Emitted {
		return nil, errors.New(errors.ErrCodeInternal, "frame requested while %s", e.state)
	}
	n := e.frames + 1
	start := time.Now()
	e.hooks.OnFrameStart(ctx, n)

	out, stats, err := e.frame(ctx)
	dur := time.Since(start)
	e.hooks.OnFrameComplete(ctx, n, stats, dur, err)
	if err != nil {
		e.state = Idle
		e.logger.Error("frame failed", "frame", n, "error", err)
		return nil, err
	}
	e.state = Emitted
	e.logger.Debug("frame",
		"frame", n,
		"appear", stats.Appear,
		"disappear", stats.Disappear,
		"moved", stats.Moves,
		"bytes", stats.Bytes,
		"duration", dur)
	return out, nil
}

// frame works on copies and commits only after the frame is serialized.
func (e *Engine) frame(ctx context.Context) ([]byte, observability.FrameStats, error) {
	var stats observability.FrameStats

	e.state = Traversing
	prev := e.model.Snapshot()
	snap, err := e.model.Traverse()
	if err != nil {
		return nil, stats, err
	}

	e.state = Diffing
	d := diff.Compute(prev, snap)

	e.state = LayingOut
	next, err := e.layout(ctx, snap)
	if err != nil {
		return nil, stats, err
	}
	from, err := centers(e.base)
	if err != nil {
		return nil, stats, err
	}
	to, err := centers(next)
	if err != nil {
		return nil, stats, err
	}
	d.DetectMoves(snap.Nodes, from, to, e.opts.MoveEpsilon)

	e.state = Patching
	tr := e.trace.Clone()
	for _, h := range d.NodeAppear {
		if !e.model.IsPlaceholder(h) {
			tr.EnsureNode(h)
		}
	}
	for _, k := range d.EdgeAppear {
		tr.EnsureEdge(k)
	}
	changed := append(tr.Retract(), tr.Flush()...)

	// The new layout carries this frame's colors, so elements copied from it
	// into the frame arrive already painted.
	paintAll(next, snap, tr)

	f, err := animate.Patch(e.base, next, d, e.opts.animation())
	if err != nil {
		return nil, stats, err
	}
	for _, t := range changed {
		paint(f.Layout, t, tr)
	}
	out, err := f.Doc.Bytes()
	if err != nil {
		return nil, stats, err
	}

	for _, h := range d.NodeDisappear {
		tr.DropNode(h)
		delete(e.nodeLabels, h)
	}
	for _, k := range d.EdgeDisappear {
		tr.DropEdge(k)
		delete(e.edgeLabels, k)
	}
	e.trace = tr
	e.base = next
	e.model.Commit(snap)
	e.last = d
	e.frames++

	stats = observability.FrameStats{
		Appear:    len(d.NodeAppear) + len(d.EdgeAppear),
		Disappear: len(d.NodeDisappear) + len(d.EdgeDisappear),
		Moves:     len(d.Moves),
		Bytes:     len(out),
	}
	return out, stats, nil
}

// layout renders snap and numbers its elements the way the layout engine
// does: declaration order, starting at 1.
func (e *Engine) layout(ctx context.Context, snap topology.Snapshot) (animate.Layout, error) {
	l := animate.Layout{
		Nodes: idmap.New[topology.Handle](1),
		Edges: idmap.New[topology.EdgeKey](1),
	}
	req := nodelink.Request{Directed: e.opts.Directed, Horizontal: e.opts.Horizontal}
	for _, h := range snap.Nodes {
		n := nodelink.Node{ID: l.Nodes.ID(h), Placeholder: e.model.IsPlaceholder(h)}
		if !n.Placeholder {
			n.Label = e.nodeLabel(h)
		}
		req.Nodes = append(req.Nodes, n)
	}
	for _, k := range snap.Edges {
		l.Edges.ID(k)
		label, ok := e.edgeLabels[k]
		if !ok {
			label = snap.Labels[k]
		}
		req.Edges = append(req.Edges, nodelink.Edge{
			From:        l.Nodes.ID(k.From),
			To:          l.Nodes.ID(k.To),
			Label:       label,
			Placeholder: e.model.IsPlaceholder(k.From) || e.model.IsPlaceholder(k.To),
		})
	}

	e.hooks.OnLayoutStart(ctx, e.name, len(req.Nodes))
	start := time.Now()
	svg, err := e.opts.Layouter.Layout(ctx, req)
	e.hooks.OnLayoutComplete(ctx, e.name, time.Since(start), err)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeLayout, err, "layout %d nodes", len(req.Nodes))
		}
		return animate.Layout{}, err
	}
	if l.Doc, err = svgdoc.Parse(svg); err != nil {
		return animate.Layout{}, err
	}
	return l, nil
}

func (e *Engine) nodeLabel(h topology.Handle) string {
	if l, ok := e.nodeLabels[h]; ok {
		return l
	}
	return e.model.Label(h)
}

// paint applies the displayed color of t to every copy of its element in l.
func paint(l animate.Layout, t trace.Target, tr *trace.Trace) {
	c, ok := tr.Color(t)
	if !ok {
		return
	}
	if t.IsEdge {
		if id, ok := l.Edges.Lookup(t.Edge); ok {
			for _, g := range l.Doc.Find(svgdoc.KindEdge, id) {
				svgdoc.PaintEdge(g, c)
			}
		}
		return
	}
	if id, ok := l.Nodes.Lookup(t.Node); ok {
		for _, g := range l.Doc.Find(svgdoc.KindNode, id) {
			svgdoc.PaintNode(g, c)
		}
	}
}

// paintAll applies the steady-state colors of tr to every element of snap.
func paintAll(l animate.Layout, snap topology.Snapshot, tr *trace.Trace) {
	for _, h := range snap.Nodes {
		c, ok := tr.Color(trace.NodeTarget(h))
		if !ok {
			continue
		}
		id, _ := l.Nodes.Lookup(h)
		for _, g := range l.Doc.Find(svgdoc.KindNode, id) {
			svgdoc.PaintNode(g, c)
		}
	}
	for _, k := range snap.Edges {
		c, ok := tr.Color(trace.EdgeTarget(k))
		if !ok {
			continue
		}
		id, _ := l.Edges.Lookup(k)
		for _, g := range l.Doc.Find(svgdoc.KindEdge, id) {
			svgdoc.PaintEdge(g, c)
		}
	}
}

// centers returns the rendered node centers of l keyed by handle.
func centers(l animate.Layout) (map[topology.Handle]diff.Point, error) {
	byID, err := l.Doc.Centers()
	if err != nil {
		return nil, err
	}
	out := make(map[topology.Handle]diff.Point, len(byID))
	for id, p := range byID {
		h, ok := l.Nodes.Key(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeInconsistentIDs, "node%d has no key", id)
		}
		out[h] = p
	}
	return out, nil
}

// idle ends the emitted phase once the caller starts mutating again.
func (e *Engine) idle() {
	if e.state == Emitted {
		e.state = Idle
	}
}
