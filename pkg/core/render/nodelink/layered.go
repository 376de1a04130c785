package nodelink

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/beevik/etree"

	"github.com/matzehuels/framegraph/pkg/core/render/svgdoc"
)

// Geometry of the layered layout, in points.
const (
	nodeRadius = 18.0
	nodeStep   = 54.0 // center distance within a rank
	rankStep   = 72.0 // center distance between ranks
	margin     = 4.0
	arrowSize  = 7.0
)

// Layered is a pure-Go layouter. Nodes are ranked by breadth-first distance
// from the sources of the structure and placed left to right in request
// order, each rank centred on the widest one. The output mimics Graphviz
// SVG closely enough for the animation layer.
type Layered struct{}

// Name identifies the layout engine in cache keys and metrics.
func (Layered) Name() string { return "layered" }

// Layout renders req to SVG.
func (Layered) Layout(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pos, w, h := place(req)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="no"`)
	svg := doc.CreateElement("svg")
	svg.CreateAttr("width", num(w+2*margin)+"pt")
	svg.CreateAttr("height", num(h+2*margin)+"pt")
	svg.CreateAttr("viewBox", fmt.Sprintf("0.00 0.00 %.2f %.2f", w+2*margin, h+2*margin))
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("xmlns:xlink", "http://www.w3.org/1999/xlink")

	graph := svg.CreateElement("g")
	graph.CreateAttr("id", svgdoc.GraphID)
	graph.CreateAttr("class", "graph")
	graph.CreateAttr("transform", fmt.Sprintf("scale(1 1) rotate(0) translate(%s %s)", num(margin), num(h+margin)))
	graph.CreateElement("title").SetText("G")

	// Graph coordinates grow upwards from the bottom edge.
	at := func(id int) (float64, float64) {
		p := pos[id]
		return p[0], p[1] - h
	}

	for i, n := range req.Nodes {
		g := group(graph, svgdoc.KindNode, i+1, strconv.Itoa(n.ID))
		if n.Placeholder {
			continue
		}
		cx, cy := at(n.ID)
		e := g.CreateElement("ellipse")
		e.CreateAttr("fill", "none")
		e.CreateAttr("stroke", Outline)
		e.CreateAttr("cx", num(cx))
		e.CreateAttr("cy", num(cy))
		e.CreateAttr("rx", num(nodeRadius))
		e.CreateAttr("ry", num(nodeRadius))
		size := svgdoc.NodeFontSize(n.Label)
		text(g, cx, cy+size*0.3, size, n.Label, "")
	}

	for i, e := range req.Edges {
		arrow := "--"
		if req.Directed {
			arrow = "->"
		}
		g := group(graph, svgdoc.KindEdge, i+1, fmt.Sprintf("%d%s%d", e.From, arrow, e.To))
		if e.Placeholder {
			continue
		}
		x1, y1 := at(e.From)
		x2, y2 := at(e.To)
		edge(g, x1, y1, x2, y2, req.Directed)
		if e.Label != "" {
			text(g, (x1+x2)/2+nodeRadius/2, (y1+y2)/2, 12, e.Label, "#C0C0C0")
		}
	}

	return doc.WriteToBytes()
}

// place returns node centers keyed by request id, measured from the top-left
// corner of the drawing, and the drawing size.
func place(req Request) (map[int][2]float64, float64, float64) {
	pos := make(map[int][2]float64, len(req.Nodes))
	if len(req.Nodes) == 0 {
		return pos, 0, 0
	}

	rank := ranks(req)
	var rows [][]int
	for _, n := range req.Nodes {
		r := rank[n.ID]
		for len(rows) <= r {
			rows = append(rows, nil)
		}
		rows[r] = append(rows[r], n.ID)
	}
	widest := 0
	for _, row := range rows {
		widest = max(widest, len(row))
	}

	across := float64(widest-1)*nodeStep + 2*nodeRadius
	down := float64(len(rows)-1)*rankStep + 2*nodeRadius
	for r, row := range rows {
		offset := float64(widest-len(row)) * nodeStep / 2
		for c, id := range row {
			a := nodeRadius + offset + float64(c)*nodeStep
			d := nodeRadius + float64(r)*rankStep
			if req.Horizontal {
				pos[id] = [2]float64{d, a}
			} else {
				pos[id] = [2]float64{a, d}
			}
		}
	}
	if req.Horizontal {
		return pos, down, across
	}
	return pos, across, down
}

// ranks assigns every node its breadth-first depth from the nearest source.
// Nodes only reachable through cycles start new trees at rank zero.
func ranks(req Request) map[int]int {
	out := make(map[int][]int)
	indeg := make(map[int]int)
	for _, e := range req.Edges {
		out[e.From] = append(out[e.From], e.To)
		if req.Directed {
			indeg[e.To]++
		} else {
			out[e.To] = append(out[e.To], e.From)
		}
	}

	rank := make(map[int]int, len(req.Nodes))
	bfs := func(root int) {
		rank[root] = 0
		queue := []int{root}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, nb := range out[cur] {
				if _, seen := rank[nb]; !seen {
					rank[nb] = rank[cur] + 1
					queue = append(queue, nb)
				}
			}
		}
	}
	for _, n := range req.Nodes {
		if _, seen := rank[n.ID]; !seen && indeg[n.ID] == 0 {
			bfs(n.ID)
		}
	}
	for _, n := range req.Nodes {
		if _, seen := rank[n.ID]; !seen {
			bfs(n.ID)
		}
	}
	return rank
}

func group(parent *etree.Element, kind string, n int, title string) *etree.Element {
	g := parent.CreateElement("g")
	g.CreateAttr("id", svgdoc.FormatID(kind, n))
	g.CreateAttr("class", kind)
	g.CreateElement("title").SetText(title)
	return g
}

func text(g *etree.Element, x, y, size float64, label, color string) {
	t := g.CreateElement("text")
	t.CreateAttr("text-anchor", "middle")
	t.CreateAttr("x", num(x))
	t.CreateAttr("y", num(y))
	t.CreateAttr("font-family", "Times,serif")
	t.CreateAttr("font-size", fmt.Sprintf("%.2f", size))
	if color != "" {
		t.CreateAttr("fill", color)
	}
	t.SetText(label)
}

// edge draws a straight cubic between the node borders, or a loop for
// self-edges, with a vee arrowhead when directed.
func edge(g *etree.Element, x1, y1, x2, y2 float64, directed bool) {
	path := g.CreateElement("path")
	path.CreateAttr("fill", "none")
	path.CreateAttr("stroke", Outline)

	if x1 == x2 && y1 == y2 {
		top := y1 - nodeRadius
		path.CreateAttr("d", fmt.Sprintf("M%s,%sC%s,%s %s,%s %s,%s",
			num(x1-6), num(top), num(x1-24), num(top-30), num(x1+24), num(top-30), num(x1+6), num(top)))
		if directed {
			vee(g, x1+6, top, math.Pi/2)
		}
		return
	}

	dx, dy := x2-x1, y2-y1
	dist := math.Hypot(dx, dy)
	ux, uy := dx/dist, dy/dist
	sx, sy := x1+ux*nodeRadius, y1+uy*nodeRadius
	ex, ey := x2-ux*nodeRadius, y2-uy*nodeRadius
	if directed {
		ex, ey = ex-ux*arrowSize, ey-uy*arrowSize
	}
	path.CreateAttr("d", fmt.Sprintf("M%s,%sC%s,%s %s,%s %s,%s",
		num(sx), num(sy), num(sx), num(sy), num(ex), num(ey), num(ex), num(ey)))
	if directed {
		vee(g, x2-ux*nodeRadius, y2-uy*nodeRadius, math.Atan2(dy, dx))
	}
}

// vee draws an arrowhead with its tip at (x, y) pointing along angle.
func vee(g *etree.Element, x, y, angle float64) {
	back := func(da, l float64) string {
		return num(x-l*math.Cos(angle+da)) + "," + num(y-l*math.Sin(angle+da))
	}
	poly := g.CreateElement("polygon")
	poly.CreateAttr("fill", Outline)
	poly.CreateAttr("stroke", Outline)
	poly.CreateAttr("points", fmt.Sprintf("%s,%s %s %s %s %s,%s",
		num(x), num(y), back(0.45, arrowSize*1.4), back(0, arrowSize*0.6), back(-0.45, arrowSize*1.4), num(x), num(y)))
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
