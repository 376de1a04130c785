package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/framegraph/pkg/core/render/svgdoc"
)

// Outline is the default node and edge color.
const Outline = "#7B7B7B"

// ToDOT converts a request to Graphviz DOT source.
func ToDOT(req Request) string {
	kind, arrow := "graph", "--"
	if req.Directed {
		kind, arrow = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	if req.Horizontal {
		buf.WriteString("  rankdir=LR;\n")
	}
	fmt.Fprintf(&buf, "  node [shape=circle, fixedsize=shape, color=%q];\n", Outline)
	fmt.Fprintf(&buf, "  edge [arrowhead=vee, color=%q];\n", Outline)
	buf.WriteString("\n")

	for _, n := range req.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", fmt.Sprint(n.ID), strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range req.Edges {
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q %s %q;\n", fmt.Sprint(e.From), arrow, fmt.Sprint(e.To))
			continue
		}
		fmt.Fprintf(&buf, "  %q %s %q [%s];\n", fmt.Sprint(e.From), arrow, fmt.Sprint(e.To), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n Node) []string {
	if n.Placeholder {
		return []string{`label=""`, "style=invis"}
	}
	return []string{
		fmt.Sprintf("label=%q", n.Label),
		fmt.Sprintf("fontsize=\"%.2f\"", svgdoc.NodeFontSize(n.Label)),
	}
}

func edgeAttrs(e Edge) []string {
	var attrs []string
	if e.Placeholder {
		attrs = append(attrs, "style=invis")
	}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label), `fontcolor="#C0C0C0"`, "fontsize=12")
	}
	return attrs
}
