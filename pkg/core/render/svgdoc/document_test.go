package svgdoc

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/framegraph/pkg/errors"
)

// twoNodes is Graphviz output for `digraph { 1 -> 2 }` with circle nodes.
const twoNodes = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN"
 "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
<svg width="62pt" height="116pt"
 viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
<g id="graph0" class="graph" transform="scale(1 1) rotate(0) translate(4 112)">
<title>G</title>
<polygon fill="white" stroke="none" points="-4,4 -4,-112 58,-112 58,4 -4,4"/>
<g id="node1" class="node">
<title>1</title>
<ellipse fill="none" stroke="#7b7b7b" cx="27" cy="-90" rx="18" ry="18"/>
<text text-anchor="middle" x="27" y="-85.8" font-family="Times,serif" font-size="14.00">A</text>
</g>
<g id="node2" class="node">
<title>2</title>
<ellipse fill="none" stroke="#7b7b7b" cx="27" cy="-18" rx="18" ry="18"/>
<text text-anchor="middle" x="27" y="-13.8" font-family="Times,serif" font-size="14.00">B</text>
</g>
<g id="edge1" class="edge">
<title>1&#45;&gt;2</title>
<path fill="none" stroke="#7b7b7b" d="M27,-71.7C27,-63.98 27,-54.71 27,-46.11"/>
<polygon fill="#7b7b7b" stroke="#7b7b7b" points="31.5,-46.1 27,-36.1 22.5,-46.1 27,-41.1 31.5,-46.1"/>
<text text-anchor="middle" x="36" y="-50" font-family="Times,serif" font-size="12.00" fill="#c0c0c0">next</text>
</g>
</g>
</svg>
`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	d, err := Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return d
}

func TestParse(t *testing.T) {
	d := mustParse(t, twoNodes)

	if w, h := d.Size(); w != 62 || h != 116 {
		t.Errorf("Size() = %vx%v, want 62x116", w, h)
	}
	if x, y := d.Translate(); x != 4 || y != 112 {
		t.Errorf("Translate() = %v,%v, want 4,112", x, y)
	}
	if got := len(d.Elements(KindNode)); got != 2 {
		t.Errorf("Elements(node) = %d, want 2", got)
	}
	if got := len(d.Elements(KindEdge)); got != 1 {
		t.Errorf("Elements(edge) = %d, want 1", got)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not xml", "digraph {}"},
		{"no svg root", `<html><g id="graph0"/></html>`},
		{"no graph0", `<svg width="8pt" height="8pt"><g id="other"/></svg>`},
		{"pixel size", `<svg width="8px" height="8pt"><g id="graph0"/></svg>`},
		{"bad node id", `<svg width="8pt" height="8pt"><g id="graph0"><g id="n1" class="node"/></g></svg>`},
		{"bad edge id", `<svg width="8pt" height="8pt"><g id="graph0"><g id="edgeX" class="edge"/></g></svg>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			if !errors.Is(err, errors.ErrCodeUnsupportedFormat) {
				t.Errorf("Parse() error = %v, want UNSUPPORTED_FORMAT", err)
			}
		})
	}
}

func TestCenters(t *testing.T) {
	d := mustParse(t, twoNodes)
	c, err := d.Centers()
	if err != nil {
		t.Fatalf("Centers() error: %v", err)
	}
	if c[1].X != 31 || c[1].Y != 22 {
		t.Errorf("center of node1 = %v, want {31 22}", c[1])
	}
	if c[2].Y != 94 {
		t.Errorf("center of node2 = %v, want y=94", c[2])
	}
}

func TestCentersMalformed(t *testing.T) {
	d := mustParse(t, strings.Replace(twoNodes, `cx="27" cy="-90"`, `cx="x" cy="-90"`, 1))
	if _, err := d.Centers(); !errors.Is(err, errors.ErrCodeMalformedDocument) {
		t.Errorf("Centers() error = %v, want MALFORMED_DOCUMENT", err)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	d := mustParse(t, twoNodes)
	c := d.Copy()
	c.SetSize(100, 200)
	PaintNode(c.Find(KindNode, 1)[0], colorful.Color{R: 1})

	if w, _ := d.Size(); w != 62 {
		t.Errorf("original width changed to %v", w)
	}
	if got := d.Find(KindNode, 1)[0].SelectElement("ellipse").SelectAttrValue("fill", ""); got != "none" {
		t.Errorf("original fill changed to %q", got)
	}
}

func TestSetSize(t *testing.T) {
	d := mustParse(t, twoNodes)
	d.SetSize(70.5, 116)
	out, err := d.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`width="70.5pt"`, `height="116pt"`, `viewBox="0.00 0.00 70.50 116.00"`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("Bytes() missing %s", want)
		}
	}
}

func TestOverlay(t *testing.T) {
	prev := mustParse(t, twoNodes)
	next := mustParse(t, strings.Replace(twoNodes, "translate(4 112)", "translate(4 184)", 1))

	if prev.Overlay() != nil {
		t.Fatal("Overlay() before AddOverlay should be nil")
	}
	g := prev.AddOverlay(next)
	if prev.Overlay() != g {
		t.Error("Overlay() should return the added group")
	}
	if got := g.SelectAttrValue("transform", ""); !strings.Contains(got, "translate(4 184)") {
		t.Errorf("overlay transform = %q, want the new translate", got)
	}
	if len(g.ChildElements()) != 0 {
		t.Error("overlay should be a shallow copy")
	}
}

func TestFormatParseID(t *testing.T) {
	if got := FormatID(KindEdge, 12); got != "edge12" {
		t.Errorf("FormatID() = %q, want edge12", got)
	}
	if n, err := ParseID(KindNode, "node7"); err != nil || n != 7 {
		t.Errorf("ParseID(node7) = %d, %v", n, err)
	}
	if _, err := ParseID(KindNode, "edge7"); err == nil {
		t.Error("ParseID(node, edge7) should fail")
	}
}
