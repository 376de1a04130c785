package engine

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/framegraph/pkg/core/render/nodelink"
	"github.com/matzehuels/framegraph/pkg/core/render/svgdoc"
	"github.com/matzehuels/framegraph/pkg/core/topology"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/observability"
	"github.com/matzehuels/framegraph/pkg/structs"
)

var (
	green = colorful.Color{G: 1}
	red   = colorful.Color{R: 1}
)

func newEngine(t *testing.T, opts Options, roots ...*structs.GraphNode) *Engine {
	t.Helper()
	if opts.Layouter == nil {
		opts.Layouter = nodelink.Layered{}
	}
	opts.Directed = true
	e, err := New(context.Background(), opts, nodes(roots)...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e
}

func nodes(gs []*structs.GraphNode) []topology.Node {
	out := make([]topology.Node, len(gs))
	for i, g := range gs {
		out[i] = g
	}
	return out
}

func path(labels ...string) []*structs.GraphNode {
	out := make([]*structs.GraphNode, len(labels))
	for i, l := range labels {
		out[i] = structs.NewGraphNode(l)
		if i > 0 {
			out[i-1].Link(out[i], "")
		}
	}
	return out
}

func frame(t *testing.T, e *Engine) *svgdoc.Document {
	t.Helper()
	out, err := e.Frame(context.Background())
	if err != nil {
		t.Fatalf("Frame() error: %v", err)
	}
	doc, err := svgdoc.Parse(out)
	if err != nil {
		t.Fatalf("frame does not parse: %v", err)
	}
	return doc
}

func current(t *testing.T, e *Engine) *svgdoc.Document {
	t.Helper()
	out, err := e.Current()
	if err != nil {
		t.Fatalf("Current() error: %v", err)
	}
	doc, err := svgdoc.Parse(out)
	if err != nil {
		t.Fatalf("Current() does not parse: %v", err)
	}
	return doc
}

// nodeGroups returns every node group showing label.
func nodeGroups(doc *svgdoc.Document, label string) []*etree.Element {
	var out []*etree.Element
	for _, g := range doc.Root().FindElements(".//g[@class='node']") {
		if txt := g.SelectElement("text"); txt != nil && txt.Text() == label {
			out = append(out, g)
		}
	}
	return out
}

func fill(t *testing.T, doc *svgdoc.Document, label string) string {
	t.Helper()
	gs := nodeGroups(doc, label)
	if len(gs) == 0 {
		t.Fatalf("no node labelled %q", label)
	}
	return gs[0].SelectElement("ellipse").SelectAttrValue("fill", "")
}

func fadesOut(g *etree.Element) bool {
	a := g.SelectElement("animate")
	return a != nil && strings.HasSuffix(a.SelectAttrValue("values", ""), ";0")
}

func TestPathScenario(t *testing.T) {
	abc := path("A", "B", "C")
	e := newEngine(t, Options{}, abc[0])

	// Frame 1: everything fades in with default colors.
	doc := frame(t, e)
	d := e.LastDiff()
	if len(d.NodeAppear) != 3 || len(d.EdgeAppear) != 2 {
		t.Errorf("frame 1 appear = %d nodes, %d edges, want 3, 2", len(d.NodeAppear), len(d.EdgeAppear))
	}
	if got := len(doc.Overlay().FindElements("./g[@class='node']")); got != 3 {
		t.Errorf("frame 1 overlay nodes = %d, want 3", got)
	}
	if got := fill(t, doc, "B"); got != "#ffffff" {
		t.Errorf("frame 1 B fill = %q, want #ffffff", got)
	}

	// Frame 2: A is green, nothing appears or disappears.
	e.MarkNode(abc[0], green, true)
	doc = frame(t, e)
	if !e.LastDiff().Empty() {
		t.Errorf("frame 2 diff = %v, want empty", e.LastDiff().Summary())
	}
	if got := fill(t, doc, "A"); got != "#00ff00" {
		t.Errorf("frame 2 A fill = %q, want #00ff00", got)
	}
	if got := fill(t, doc, "C"); got != "#ffffff" {
		t.Errorf("frame 2 C fill = %q, want #ffffff", got)
	}
	w2, h2 := doc.Size()

	// Frame 3: C fades out, the canvas does not clip the transition.
	e.RemoveNode(abc[2], false)
	doc = frame(t, e)
	d = e.LastDiff()
	if len(d.NodeDisappear) != 1 || len(d.EdgeDisappear) != 1 {
		t.Errorf("frame 3 disappear = %d nodes, %d edges, want 1, 1", len(d.NodeDisappear), len(d.EdgeDisappear))
	}
	gs := nodeGroups(doc, "C")
	if len(gs) != 1 || !fadesOut(gs[0]) {
		t.Error("frame 3: C does not fade out")
	}
	if w, h := doc.Size(); w < w2 || h < h2 {
		t.Errorf("frame 3 size = %vx%v, clips frame 2 (%vx%v)", w, h, w2, h2)
	}
	if got := fill(t, doc, "A"); got != "#00ff00" {
		t.Errorf("frame 3 A fill = %q, held mark lost", got)
	}

	// The next baseline shrinks.
	if _, h := current(t, e).Size(); h >= h2 {
		t.Errorf("baseline height = %v, want below %v", h, h2)
	}
	if got := len(nodeGroups(current(t, e), "C")); got != 0 {
		t.Errorf("baseline still shows C %d times", got)
	}
}

func TestInsertNeighbor(t *testing.T) {
	abc := path("A", "B", "C")
	e := newEngine(t, Options{}, abc[0])
	frame(t, e)

	d := structs.NewGraphNode("D")
	abc[1].Link(d, "")
	frame(t, e)

	diff := e.LastDiff()
	hd, ok := e.Model().Handle(d)
	if !ok {
		t.Fatal("D was not discovered")
	}
	if len(diff.NodeAppear) != 1 || diff.NodeAppear[0] != hd {
		t.Errorf("NodeAppear = %v, want [D]", diff.NodeAppear)
	}
	key, _ := e.Model().EdgeKey(abc[1], d)
	if len(diff.EdgeAppear) != 1 || diff.EdgeAppear[0] != key {
		t.Errorf("EdgeAppear = %v, want [%s]", diff.EdgeAppear, key)
	}
	if len(diff.NodeDisappear) != 0 || len(diff.EdgeDisappear) != 0 {
		t.Errorf("disappear sets = %v, %v, want empty", diff.NodeDisappear, diff.EdgeDisappear)
	}
	if !e.Model().IsLive(d) {
		t.Error("discovered node did not join the live set")
	}
}

func TestTransientMarkDecays(t *testing.T) {
	ab := path("A", "B")
	e := newEngine(t, Options{}, ab[0])
	frame(t, e)

	e.MarkNode(ab[1], red, false)
	doc := frame(t, e) // frame N
	if got := fill(t, doc, "B"); got != "#ff0000" {
		t.Errorf("frame N B fill = %q, want #ff0000", got)
	}
	if got := fill(t, current(t, e), "B"); got != "#ff0000" {
		t.Errorf("baseline after N B fill = %q, want #ff0000", got)
	}

	doc = frame(t, e) // frame N+1 retracts
	if got := fill(t, doc, "B"); got != "#ffffff" {
		t.Errorf("frame N+1 B fill = %q, want #ffffff", got)
	}
	if got := fill(t, current(t, e), "B"); got != "#ffffff" {
		t.Errorf("baseline after N+1 B fill = %q, want #ffffff", got)
	}
}

func TestRefreshedTransientMarkStays(t *testing.T) {
	ab := path("A", "B")
	e := newEngine(t, Options{}, ab[0])
	frame(t, e)

	e.MarkNode(ab[1], red, false)
	frame(t, e)
	e.MarkNode(ab[1], red, false)
	doc := frame(t, e)
	if got := fill(t, doc, "B"); got != "#ff0000" {
		t.Errorf("refreshed mark fill = %q, want #ff0000", got)
	}
	doc = frame(t, e)
	if got := fill(t, doc, "B"); got != "#ffffff" {
		t.Errorf("expired mark fill = %q, want #ffffff", got)
	}
}

func TestRemoveMark(t *testing.T) {
	ab := path("A", "B")
	e := newEngine(t, Options{}, ab[0])
	e.MarkNode(ab[0], green, true)
	e.MarkNode(ab[0], green, true)
	frame(t, e)

	e.RemoveMark(green)
	if got := fill(t, current(t, e), "A"); got != "#00ff00" {
		t.Errorf("after one unmark A fill = %q, want #00ff00", got)
	}
	e.RemoveMark(green)
	if got := fill(t, current(t, e), "A"); got != "#ffffff" {
		t.Errorf("after two unmarks A fill = %q, want #ffffff", got)
	}
}

func TestMarkUntrackedIsNoop(t *testing.T) {
	ab := path("A", "B")
	e := newEngine(t, Options{}, ab[0])
	stray := structs.NewGraphNode("X")
	e.MarkNode(stray, red, true)
	e.MarkEdge(ab[0], stray, red, true)
	e.RemoveMark(red)
	frame(t, e)
	if got := len(nodeGroups(current(t, e), "X")); got != 0 {
		t.Errorf("untracked node rendered %d times", got)
	}
}

func TestMarkEdge(t *testing.T) {
	ab := path("A", "B")
	e := newEngine(t, Options{}, ab[0])
	e.MarkEdge(ab[0], ab[1], red, true)
	frame(t, e)

	edges := current(t, e).Root().FindElements(".//g[@class='edge']")
	if len(edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(edges))
	}
	if got := edges[0].SelectElement("path").SelectAttrValue("stroke", ""); got != "#ff0000" {
		t.Errorf("edge stroke = %q, want #ff0000", got)
	}
}

func TestMarkEdgeUndirected(t *testing.T) {
	ab := path("A", "B")
	e, err := New(context.Background(), Options{Layouter: nodelink.Layered{}}, ab[0])
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if e.Model().Directed() {
		t.Fatal("Model().Directed() = true, want false")
	}
	e.MarkEdge(ab[0], ab[1], red, true)
	e.MarkEdge(ab[1], ab[0], red, true)
	frame(t, e)

	stroke := func() string {
		edges := current(t, e).Root().FindElements(".//g[@class='edge']")
		if len(edges) != 1 {
			t.Fatalf("edges = %d, want 1", len(edges))
		}
		return edges[0].SelectElement("path").SelectAttrValue("stroke", "")
	}
	e.RemoveMark(red)
	if got := stroke(); got != "#ff0000" {
		t.Errorf("after one unmark stroke = %q, want #ff0000", got)
	}
	e.RemoveMark(red)
	if got := stroke(); got == "#ff0000" {
		t.Errorf("after two unmarks stroke = %q, want the background", got)
	}
}

func TestMovedNodesRedrawEdges(t *testing.T) {
	abc := path("A", "B", "C")
	e := newEngine(t, Options{}, abc[0])
	frame(t, e)

	// A second child widens the middle rank, so A and C shift right.
	d := structs.NewGraphNode("D")
	abc[0].Link(d, "")
	doc := frame(t, e)

	last := e.LastDiff()
	if len(last.Moves) != 2 {
		t.Fatalf("Moves = %d, want 2", len(last.Moves))
	}
	for _, n := range []*structs.GraphNode{abc[0], abc[2]} {
		h, _ := e.Model().Handle(n)
		if !last.Moved(h) {
			t.Errorf("%s did not move", n.Label())
		}
	}
	for _, label := range []string{"A", "C"} {
		if g := nodeGroups(doc, label)[0]; g.SelectElement("animateMotion") == nil {
			t.Errorf("%s has no animateMotion", label)
		}
	}
	if g := nodeGroups(doc, "B")[0]; g.SelectElement("animateMotion") != nil {
		t.Error("B moved although its rank position is unchanged")
	}

	// Both old edges touch a moved node: they fade out and fresh copies fade in.
	var faded int
	for _, g := range doc.Graph().FindElements("./g[@class='edge']") {
		if fadesOut(g) {
			faded++
		}
	}
	if faded != 2 {
		t.Errorf("faded-out edges = %d, want 2", faded)
	}
	var fresh int
	for _, g := range doc.Overlay().FindElements("./g[@class='edge']") {
		a := g.SelectElement("animate")
		if a != nil && strings.HasPrefix(a.SelectAttrValue("values", ""), "0;") &&
			strings.HasSuffix(a.SelectAttrValue("values", ""), ";1") {
			fresh++
		}
	}
	if fresh != 3 { // A-B and B-C redrawn, A-D appearing
		t.Errorf("faded-in edges = %d, want 3", fresh)
	}
}

func TestSetLabels(t *testing.T) {
	ab := path("A", "B")
	ab[0].Link(ab[1], "next")
	e := newEngine(t, Options{}, ab[0])
	frame(t, e)

	e.SetNodeLabel(ab[0], "head")
	if got := len(nodeGroups(current(t, e), "head")); got != 1 {
		t.Errorf("relabelled node found %d times, want 1", got)
	}
	e.SetEdgeLabel(ab[0], ab[1], "succ")
	frame(t, e)
	if got := len(nodeGroups(current(t, e), "head")); got != 1 {
		t.Error("node label did not survive the next layout")
	}
	txt := current(t, e).Root().FindElement(".//g[@class='edge']/text")
	if txt == nil || txt.Text() != "succ" {
		t.Errorf("edge label = %v, want succ", txt)
	}
}

func TestFailedFrameLeavesStateUnchanged(t *testing.T) {
	var fail atomic.Bool
	layouter := nodelink.LayouterFunc(func(ctx context.Context, req nodelink.Request) ([]byte, error) {
		if fail.Load() {
			return nil, context.DeadlineExceeded
		}
		return nodelink.Layered{}.Layout(ctx, req)
	})
	abc := path("A", "B", "C")
	e := newEngine(t, Options{Layouter: layouter}, abc[0])
	frame(t, e)
	before, _ := e.Current()

	e.MarkNode(abc[0], red, false)
	e.RemoveNode(abc[2], false)
	fail.Store(true)
	if _, err := e.Frame(context.Background()); !errors.Is(err, errors.ErrCodeLayout) {
		t.Fatalf("Frame() error = %v, want LAYOUT_FAILED", err)
	}
	if e.FrameCount() != 1 {
		t.Errorf("FrameCount() = %d, want 1", e.FrameCount())
	}
	if e.State() != Idle {
		t.Errorf("State() = %v, want idle", e.State())
	}
	after, _ := e.Current()
	if string(before) != string(after) {
		t.Error("failed frame modified the baseline")
	}
	if got := len(e.Model().Snapshot().Nodes); got != 3 {
		t.Errorf("committed nodes = %d, want 3", got)
	}

	// The retried frame still carries the pending changes.
	fail.Store(false)
	doc := frame(t, e)
	if got := len(e.LastDiff().NodeDisappear); got != 1 {
		t.Errorf("retried NodeDisappear = %d, want 1", got)
	}
	if got := fill(t, doc, "A"); got != "#ff0000" {
		t.Errorf("retried A fill = %q, want #ff0000", got)
	}
}

func TestUnsupportedLayoutOutput(t *testing.T) {
	var calls atomic.Int32
	layouter := nodelink.LayouterFunc(func(ctx context.Context, req nodelink.Request) ([]byte, error) {
		if calls.Add(1) > 1 {
			return []byte(`<svg width="10px" height="10px"><g id="graph0"/></svg>`), nil
		}
		return nodelink.Layered{}.Layout(ctx, req)
	})
	e := newEngine(t, Options{Layouter: layouter}, path("A")...)
	if _, err := e.Frame(context.Background()); !errors.Is(err, errors.ErrCodeUnsupportedFormat) {
		t.Errorf("Frame() error = %v, want UNSUPPORTED_FORMAT", err)
	}

	bad := nodelink.LayouterFunc(func(context.Context, nodelink.Request) ([]byte, error) {
		return []byte("not xml"), nil
	})
	if _, err := New(context.Background(), Options{Layouter: bad}); !errors.Is(err, errors.ErrCodeUnsupportedFormat) {
		t.Errorf("New() error = %v, want UNSUPPORTED_FORMAT", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no layouter", Options{}, errors.ErrCodeInvalidInput},
		{"bad easing", Options{Layouter: nodelink.Layered{}, Easing: "wobble"}, errors.ErrCodeInvalidInput},
		{"bad color", Options{Layouter: nodelink.Layered{}, NodeColor: "teal"}, errors.ErrCodeInvalidColor},
		{"negative steps", Options{Layouter: nodelink.Layered{}, Steps: -1}, errors.ErrCodeInvalidInput},
		{"ok", Options{Layouter: nodelink.Layered{}}, ""},
	}
	for _, tt := range tests {
		err := tt.opts.ValidateAndSetDefaults()
		if got := errors.GetCode(err); got != tt.code {
			t.Errorf("%s: ValidateAndSetDefaults() code = %q, want %q (%v)", tt.name, got, tt.code, err)
		}
	}
}

func TestCustomBackground(t *testing.T) {
	e := newEngine(t, Options{NodeColor: "#222"}, path("A")...)
	frame(t, e)
	doc := current(t, e)
	if got := fill(t, doc, "A"); got != "#222222" {
		t.Errorf("A fill = %q, want #222222", got)
	}
	txt := nodeGroups(doc, "A")[0].SelectElement("text")
	if got := txt.SelectAttrValue("fill", ""); got != "#ffffff" {
		t.Errorf("text on dark fill = %q, want #ffffff", got)
	}
}

type recordingHooks struct {
	observability.NoopFrameHooks
	frames, layouts int
	lastStats       observability.FrameStats
}

func (r *recordingHooks) OnFrameComplete(_ context.Context, _ int, s observability.FrameStats, _ time.Duration, _ error) {
	r.frames++
	r.lastStats = s
}

func (r *recordingHooks) OnLayoutStart(context.Context, string, int) { r.layouts++ }

func TestHooks(t *testing.T) {
	hooks := &recordingHooks{}
	e := newEngine(t, Options{Hooks: hooks}, path("A", "B")...)
	frame(t, e)

	if hooks.frames != 1 {
		t.Errorf("frames = %d, want 1", hooks.frames)
	}
	if hooks.layouts != 2 { // initial empty baseline plus frame 1
		t.Errorf("layouts = %d, want 2", hooks.layouts)
	}
	if hooks.lastStats.Appear != 3 || hooks.lastStats.Bytes == 0 {
		t.Errorf("stats = %+v, want 3 appearing and a size", hooks.lastStats)
	}
}

func TestStateString(t *testing.T) {
	if got := LayingOut.String(); got != "laying-out" {
		t.Errorf("LayingOut.String() = %q", got)
	}
	if got := State(42).String(); got != "unknown" {
		t.Errorf("State(42).String() = %q", got)
	}
}
