package svgdoc

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestTextColor(t *testing.T) {
	tests := []struct {
		fill string
		want string
	}{
		{"#ffffff", "#000000"},
		{"#ffff00", "#000000"},
		{"#000000", "#ffffff"},
		{"#0000ff", "#ffffff"},
	}
	for _, tt := range tests {
		c, _ := colorful.Hex(tt.fill)
		if got := TextColor(c).Hex(); got != tt.want {
			t.Errorf("TextColor(%s) = %s, want %s", tt.fill, got, tt.want)
		}
	}
}

func TestNodeFontSize(t *testing.T) {
	if got := NodeFontSize("7"); got != MaxNodeFontSize {
		t.Errorf("NodeFontSize(short) = %v, want %v", got, MaxNodeFontSize)
	}
	if got := NodeFontSize("123456"); math.Abs(got-32.0/3.6) > 1e-9 {
		t.Errorf("NodeFontSize(6 runes) = %v, want %v", got, 32.0/3.6)
	}
	if got := FitFontSize(10, ""); got != 10 {
		t.Errorf("FitFontSize(empty) = %v, want 10", got)
	}
}

func TestPaint(t *testing.T) {
	d := mustParse(t, twoNodes)
	green, _ := colorful.Hex("#00aa00")
	navy, _ := colorful.Hex("#000080")

	n := d.Find(KindNode, 1)[0]
	PaintNode(n, navy)
	if got := n.SelectElement("ellipse").SelectAttrValue("fill", ""); got != "#000080" {
		t.Errorf("ellipse fill = %s, want #000080", got)
	}
	if got := n.SelectElement("text").SelectAttrValue("fill", ""); got != "#ffffff" {
		t.Errorf("text fill = %s, want #ffffff", got)
	}

	e := d.Find(KindEdge, 1)[0]
	PaintEdge(e, green)
	if got := e.SelectElement("path").SelectAttrValue("stroke", ""); got != "#00aa00" {
		t.Errorf("path stroke = %s, want #00aa00", got)
	}
	poly := e.SelectElement("polygon")
	if poly.SelectAttrValue("fill", "") != "#00aa00" || poly.SelectAttrValue("stroke", "") != "#00aa00" {
		t.Error("arrowhead not painted")
	}
}

func TestRelabel(t *testing.T) {
	d := mustParse(t, twoNodes)

	n := d.Find(KindNode, 2)[0]
	RelabelNode(n, "hello world")
	texts := n.SelectElements("text")
	if len(texts) != 1 {
		t.Fatalf("node has %d text elements, want 1", len(texts))
	}
	txt := texts[0]
	if txt.Text() != "hello world" {
		t.Errorf("label = %q, want %q", txt.Text(), "hello world")
	}
	if txt.SelectAttrValue("x", "") != "27" || txt.SelectAttrValue("y", "") != "-18" {
		t.Error("label not centred on the ellipse")
	}
	if txt.SelectAttrValue("font-size", "") != "4.85" {
		t.Errorf("font-size = %s, want 4.85", txt.SelectAttrValue("font-size", ""))
	}

	e := d.Find(KindEdge, 1)[0]
	RelabelEdge(e, "prev")
	if got := e.SelectElement("text").Text(); got != "prev" {
		t.Errorf("edge label = %q, want prev", got)
	}
}
