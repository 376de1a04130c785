package svgdoc

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/lucasb-eyer/go-colorful"
)

// Label sizing for circle nodes.
const (
	MaxNodeFontSize = 14.0
	NodeLabelWidth  = 32.0
	glyphAspect     = 0.6 // average glyph width relative to the font size
)

var (
	black = colorful.Color{}
	white = colorful.Color{R: 1, G: 1, B: 1}
)

// TextColor returns black for light fills and white for dark ones.
func TextColor(fill colorful.Color) colorful.Color {
	l, _, _ := fill.Clamped().Lab()
	if l > 0.5 {
		return black
	}
	return white
}

// FitFontSize returns the font size at which text spans width.
func FitFontSize(width float64, text string) float64 {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return width
	}
	return width / (glyphAspect * float64(n))
}

// NodeFontSize returns the font size used for a node label.
func NodeFontSize(label string) float64 {
	return math.Min(MaxNodeFontSize, FitFontSize(NodeLabelWidth, label))
}

// PaintNode fills the node's ellipse with c and picks a readable text color.
// Groups without an ellipse are left alone.
func PaintNode(g *etree.Element, c colorful.Color) {
	e := g.SelectElement("ellipse")
	if e == nil {
		return
	}
	e.CreateAttr("fill", c.Hex())
	if t := g.SelectElement("text"); t != nil {
		t.CreateAttr("fill", TextColor(c).Hex())
	}
}

// PaintEdge strokes the edge path and its arrowhead with c.
func PaintEdge(g *etree.Element, c colorful.Color) {
	p := g.SelectElement("path")
	if p == nil {
		return
	}
	p.CreateAttr("stroke", c.Hex())
	if poly := g.SelectElement("polygon"); poly != nil {
		poly.CreateAttr("fill", c.Hex())
		poly.CreateAttr("stroke", c.Hex())
	}
}

// RelabelNode replaces the node's text with label, centred on the ellipse.
func RelabelNode(g *etree.Element, label string) {
	e := g.SelectElement("ellipse")
	if e == nil {
		return
	}
	fill, err := colorful.Hex(e.SelectAttrValue("fill", ""))
	if err != nil {
		fill = white
	}
	if t := g.SelectElement("text"); t != nil {
		g.RemoveChild(t)
	}
	t := g.CreateElement("text")
	t.CreateAttr("alignment-baseline", "middle")
	t.CreateAttr("text-anchor", "middle")
	t.CreateAttr("font-family", "Times,serif")
	t.CreateAttr("x", e.SelectAttrValue("cx", "0"))
	t.CreateAttr("y", e.SelectAttrValue("cy", "0"))
	t.CreateAttr("font-size", fmt.Sprintf("%.2f", NodeFontSize(label)))
	t.CreateAttr("fill", TextColor(fill).Hex())
	t.SetText(label)
}

// RelabelEdge replaces the text of an edge label. Unlabelled edges have no
// text element to rewrite and are left alone.
func RelabelEdge(g *etree.Element, label string) {
	if t := g.SelectElement("text"); t != nil {
		t.SetText(label)
	}
}
