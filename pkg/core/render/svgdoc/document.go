package svgdoc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/framegraph/pkg/core/diff"
	"github.com/matzehuels/framegraph/pkg/errors"
)

// Element kinds, matching the class attribute Graphviz writes.
const (
	KindNode = "node"
	KindEdge = "edge"
)

// Group ids.
const (
	GraphID   = "graph0"
	OverlayID = "graph1"
)

var translateRe = regexp.MustCompile(`translate\(\s*([-\d.eE+]+)[\s,]+([-\d.eE+]+)\s*\)`)

// Document is a parsed layout output.
type Document struct {
	doc   *etree.Document
	root  *etree.Element
	graph *etree.Element
}

// Parse reads and validates a Graphviz SVG document.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupportedFormat, err, "layout output is not XML")
	}
	d, err := wrap(doc)
	if err != nil {
		return nil, err
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func wrap(doc *etree.Document) (*Document, error) {
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return nil, errors.New(errors.ErrCodeUnsupportedFormat, "layout output has no <svg> root")
	}
	graph := root.FindElement(fmt.Sprintf(".//g[@id='%s']", GraphID))
	if graph == nil {
		return nil, errors.New(errors.ErrCodeUnsupportedFormat, "layout output has no %s group", GraphID)
	}
	return &Document{doc: doc, root: root, graph: graph}, nil
}

func (d *Document) validate() error {
	if _, _, err := d.size(); err != nil {
		return err
	}
	for _, kind := range []string{KindNode, KindEdge} {
		for _, g := range d.root.FindElements(fmt.Sprintf(".//g[@class='%s']", kind)) {
			if _, err := ParseID(kind, g.SelectAttrValue("id", "")); err != nil {
				return err
			}
		}
	}
	return nil
}

// Copy returns a deep copy of d.
func (d *Document) Copy() *Document {
	c, err := wrap(d.doc.Copy())
	if err != nil {
		// d was valid, so its copy is too.
		panic(err)
	}
	return c
}

// Bytes serializes d.
func (d *Document) Bytes() ([]byte, error) {
	b, err := d.doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "serialize document")
	}
	return b, nil
}

// Root returns the <svg> element.
func (d *Document) Root() *etree.Element { return d.root }

// Graph returns the graph0 group.
func (d *Document) Graph() *etree.Element { return d.graph }

// Size returns the canvas size in points.
func (d *Document) Size() (w, h float64) {
	w, h, _ = d.size()
	return w, h
}

func (d *Document) size() (w, h float64, err error) {
	if w, err = parsePt(d.root.SelectAttrValue("width", "")); err != nil {
		return 0, 0, err
	}
	if h, err = parsePt(d.root.SelectAttrValue("height", "")); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// SetSize sets the canvas size and a matching viewBox.
func (d *Document) SetSize(w, h float64) {
	d.root.CreateAttr("width", formatPt(w))
	d.root.CreateAttr("height", formatPt(h))
	d.root.CreateAttr("viewBox", fmt.Sprintf("0.00 0.00 %.2f %.2f", w, h))
}

// Translate returns the offset applied to graph0.
func (d *Document) Translate() (x, y float64) {
	m := translateRe.FindStringSubmatch(d.graph.SelectAttrValue("transform", ""))
	if m == nil {
		return 0, 0
	}
	x, _ = strconv.ParseFloat(m[1], 64)
	y, _ = strconv.ParseFloat(m[2], 64)
	return x, y
}

// Overlay returns the overlay group, or nil if none was added.
func (d *Document) Overlay() *etree.Element {
	return d.root.FindElement(fmt.Sprintf("./g[@id='%s']", OverlayID))
}

// AddOverlay appends a shallow copy of src's graph0 group to the root as the
// overlay group and returns it. The copy keeps src's transform, so elements
// cloned from src land where src placed them.
func (d *Document) AddOverlay(src *Document) *etree.Element {
	g := d.root.CreateElement("g")
	for _, a := range src.graph.Attr {
		g.CreateAttr(a.FullKey(), a.Value)
	}
	g.CreateAttr("id", OverlayID)
	return g
}

// Find returns every group with the given kind and id, in document order.
// Frames may hold a fading and an incoming copy of the same element.
func (d *Document) Find(kind string, id int) []*etree.Element {
	return d.root.FindElements(fmt.Sprintf(".//g[@id='%s']", FormatID(kind, id)))
}

// Elements returns the groups of one kind keyed by id. When an id occurs
// more than once the first occurrence wins.
func (d *Document) Elements(kind string) map[int]*etree.Element {
	out := make(map[int]*etree.Element)
	for _, g := range d.root.FindElements(fmt.Sprintf(".//g[@class='%s']", kind)) {
		id, err := ParseID(kind, g.SelectAttrValue("id", ""))
		if err != nil {
			continue
		}
		if _, ok := out[id]; !ok {
			out[id] = g
		}
	}
	return out
}

// Centers returns the absolute center of every visible node keyed by id.
// Invisible nodes have no ellipse and are left out.
func (d *Document) Centers() (map[int]diff.Point, error) {
	tx, ty := d.Translate()
	out := make(map[int]diff.Point)
	for id, g := range d.Elements(KindNode) {
		e := g.SelectElement("ellipse")
		if e == nil {
			continue
		}
		cx, err := strconv.ParseFloat(e.SelectAttrValue("cx", ""), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "node%d: bad cx", id)
		}
		cy, err := strconv.ParseFloat(e.SelectAttrValue("cy", ""), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "node%d: bad cy", id)
		}
		out[id] = diff.Point{X: cx + tx, Y: cy + ty}
	}
	return out, nil
}

// FormatID returns the element id for kind and n, e.g. "node3".
func FormatID(kind string, n int) string { return kind + strconv.Itoa(n) }

// ParseID parses an element id of the given kind.
func ParseID(kind, id string) (int, error) {
	rest, ok := strings.CutPrefix(id, kind)
	if !ok {
		return 0, errors.New(errors.ErrCodeUnsupportedFormat, "element id %q is not a %s id", id, kind)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, errors.New(errors.ErrCodeUnsupportedFormat, "element id %q has no number", id)
	}
	return n, nil
}

func parsePt(s string) (float64, error) {
	v, ok := strings.CutSuffix(s, "pt")
	if !ok {
		return 0, errors.New(errors.ErrCodeUnsupportedFormat, "size %q is not in points", s)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeUnsupportedFormat, "size %q is not a number", s)
	}
	return f, nil
}

func formatPt(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "pt"
}
