// Package diff computes what changed between two consecutive frames: which
// nodes and edges appear or disappear, and which nodes moved.
package diff

import (
	"fmt"
	"math"

	"github.com/matzehuels/framegraph/pkg/core/topology"
)

// DefaultEpsilon is the displacement below which a node is not considered
// moved.
const DefaultEpsilon = 0.001

// Point is a rendered node center in document coordinates.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Move is the displacement of one node.
type Move struct {
	Node     topology.Handle
	From, To Point
}

// Delta returns To - From.
func (m Move) Delta() Point { return m.To.Sub(m.From) }

// Diff is the change set between an old and a new topology.
type Diff struct {
	NodeAppear    []topology.Handle
	NodeDisappear []topology.Handle
	EdgeAppear    []topology.EdgeKey
	EdgeDisappear []topology.EdgeKey
	Moves         []Move

	moved map[topology.Handle]bool
	gone  map[topology.EdgeKey]bool
}

// Compute returns the appear and disappear sets between prev and next.
// Results follow the order of the snapshot they come from.
func Compute(prev, next topology.Snapshot) *Diff {
	d := &Diff{
		moved: make(map[topology.Handle]bool),
		gone:  make(map[topology.EdgeKey]bool),
	}
	prevNodes, nextNodes := prev.NodeSet(), next.NodeSet()
	for _, h := range next.Nodes {
		if !prevNodes[h] {
			d.NodeAppear = append(d.NodeAppear, h)
		}
	}
	for _, h := range prev.Nodes {
		if !nextNodes[h] {
			d.NodeDisappear = append(d.NodeDisappear, h)
		}
	}
	for _, k := range next.Edges {
		if !prev.HasEdge(k) {
			d.EdgeAppear = append(d.EdgeAppear, k)
		}
	}
	for _, k := range prev.Edges {
		if !next.HasEdge(k) {
			d.EdgeDisappear = append(d.EdgeDisappear, k)
			d.gone[k] = true
		}
	}
	return d
}

// DetectMoves records every node present in both layouts whose center moved
// by more than eps. Nodes are visited in order so the move set is stable.
func (d *Diff) DetectMoves(order []topology.Handle, prev, next map[topology.Handle]Point, eps float64) {
	d.Moves = d.Moves[:0]
	clear(d.moved)
	for _, h := range order {
		from, ok := prev[h]
		if !ok {
			continue
		}
		to, ok := next[h]
		if !ok {
			continue
		}
		if from.Dist(to) > eps {
			d.Moves = append(d.Moves, Move{Node: h, From: from, To: to})
			d.moved[h] = true
		}
	}
}

// Moved reports whether h is in the move set.
func (d *Diff) Moved(h topology.Handle) bool { return d.moved[h] }

// Redrawn reports whether edge k has to be faded out of the old frame: it
// disappears or touches a moved node.
func (d *Diff) Redrawn(k topology.EdgeKey) bool {
	return d.gone[k] || d.moved[k.From] || d.moved[k.To]
}

// Empty reports whether nothing changed.
func (d *Diff) Empty() bool {
	return len(d.NodeAppear) == 0 && len(d.NodeDisappear) == 0 &&
		len(d.EdgeAppear) == 0 && len(d.EdgeDisappear) == 0 && len(d.Moves) == 0
}

// Summary counts the entries of a Diff.
type Summary struct {
	NodeAppear    int `json:"node_appear"`
	NodeDisappear int `json:"node_disappear"`
	EdgeAppear    int `json:"edge_appear"`
	EdgeDisappear int `json:"edge_disappear"`
	Moves         int `json:"moves"`
}

// Summary returns the entry counts of d.
func (d *Diff) Summary() Summary {
	return Summary{
		NodeAppear:    len(d.NodeAppear),
		NodeDisappear: len(d.NodeDisappear),
		EdgeAppear:    len(d.EdgeAppear),
		EdgeDisappear: len(d.EdgeDisappear),
		Moves:         len(d.Moves),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("+%d/-%d nodes, +%d/-%d edges, %d moved",
		s.NodeAppear, s.NodeDisappear, s.EdgeAppear, s.EdgeDisappear, s.Moves)
}
