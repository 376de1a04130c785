package animate

import (
	"math"
	"time"

	"github.com/beevik/etree"

	"github.com/matzehuels/framegraph/pkg/core/diff"
	"github.com/matzehuels/framegraph/pkg/core/idmap"
	"github.com/matzehuels/framegraph/pkg/core/render/svgdoc"
	"github.com/matzehuels/framegraph/pkg/core/topology"
	"github.com/matzehuels/framegraph/pkg/errors"
)

// Options configures the generated animations.
type Options struct {
	Delay  time.Duration // length of every animation
	Easing Easing
	Steps  int // keyframe samples per animation
}

// Default option values.
const (
	DefaultDelay = time.Second
	DefaultSteps = 8
)

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Delay <= 0 {
		o.Delay = DefaultDelay
	}
	if o.Easing == nil {
		o.Easing, _ = EasingByName(DefaultEasing)
	}
	if o.Steps <= 0 {
		o.Steps = DefaultSteps
	}
}

// Layout is a rendered document together with the id maps that address it.
type Layout struct {
	Doc   *svgdoc.Document
	Nodes *idmap.Map[topology.Handle]
	Edges *idmap.Map[topology.EdgeKey]
}

// Frame is a patched document. Its id maps extend the previous layout's
// maps with the elements copied in from the next layout.
type Frame struct {
	Layout
	Overlay *etree.Element
}

// Patch builds the animated transition from prev to next. Neither input is
// modified.
func Patch(prev, next Layout, d *diff.Diff, opts Options) (*Frame, error) {
	opts.SetDefaults()
	tl := newTimeline(opts.Delay, opts.Easing, opts.Steps)

	f := &Frame{Layout: Layout{
		Doc:   prev.Doc.Copy(),
		Nodes: prev.Nodes.Clone(),
		Edges: prev.Edges.Clone(),
	}}

	pw, ph := prev.Doc.Size()
	nw, nh := next.Doc.Size()
	f.Doc.SetSize(math.Max(pw, nw), math.Max(ph, nh))

	moves := make(map[topology.Handle]diff.Point, len(d.Moves))
	for _, m := range d.Moves {
		moves[m.Node] = m.Delta()
	}
	gone := make(map[topology.Handle]bool, len(d.NodeDisappear))
	for _, h := range d.NodeDisappear {
		gone[h] = true
	}

	// Outgoing side: animate what the viewer already sees.
	for id, g := range f.Doc.Elements(svgdoc.KindNode) {
		h, ok := f.Nodes.Key(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeInconsistentIDs, "node%d has no key in the previous layout", id)
		}
		if delta, moved := moves[h]; moved {
			tl.move(g, delta)
		} else if gone[h] {
			tl.fade(g, false)
		}
	}
	for id, g := range f.Doc.Elements(svgdoc.KindEdge) {
		k, ok := f.Edges.Key(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeInconsistentIDs, "edge%d has no key in the previous layout", id)
		}
		if d.Redrawn(k) {
			tl.fade(g, false)
		}
	}

	// Incoming side: copy from the next layout into the overlay.
	f.Overlay = f.Doc.AddOverlay(next.Doc)
	for _, h := range d.NodeAppear {
		id, ok := next.Nodes.Lookup(h)
		if !ok {
			return nil, errors.New(errors.ErrCodeInconsistentIDs, "appearing node %d missing from the next layout", h)
		}
		if g := bring(f.Overlay, next.Doc, svgdoc.KindNode, id, f.Nodes.ID(h)); g != nil {
			tl.fade(g, true)
		}
	}
	appear := make(map[topology.EdgeKey]bool, len(d.EdgeAppear))
	for _, k := range d.EdgeAppear {
		if _, ok := next.Edges.Lookup(k); !ok {
			return nil, errors.New(errors.ErrCodeInconsistentIDs, "appearing edge %s missing from the next layout", k)
		}
		appear[k] = true
	}
	for _, k := range next.Edges.Keys() {
		if !appear[k] && !d.Moved(k.From) && !d.Moved(k.To) {
			continue
		}
		id, _ := next.Edges.Lookup(k)
		if g := bring(f.Overlay, next.Doc, svgdoc.KindEdge, id, f.Edges.ID(k)); g != nil {
			tl.fade(g, true)
		}
	}
	return f, nil
}

// bring deep-copies element kind/id of src into overlay under a new id.
// A missing source element is skipped.
func bring(overlay *etree.Element, src *svgdoc.Document, kind string, id, newID int) *etree.Element {
	found := src.Find(kind, id)
	if len(found) == 0 {
		return nil
	}
	g := found[0].Copy()
	g.CreateAttr("id", svgdoc.FormatID(kind, newID))
	overlay.AddChild(g)
	return g
}
