// Package layout computes the geometry of the world graph: a longest-path
// layer per world, barycenter ordering within layers, and a circular
// footprint per world with its levels placed on an orbit around the center.
// It produces coordinates only; drawing is left to the consumer.
package layout

import (
	"math"
	"unicode/utf8"

	"github.com/papapumpkin/orrery/internal/dag"
	"github.com/papapumpkin/orrery/internal/game"
)

// Geometry constants, in pixels.
const (
	DotRadius   = 11 // level dot radius
	MinSlots    = 5  // minimum orbit slots
	MaxSlots    = 16 // orbital density cap
	HGap        = 60 // horizontal gap between footprints
	VGap        = 80 // vertical gap between layers, below the label box
	LabelHeight = 22
	LabelPad    = 10
	Margin      = 28
)

// Metrics is the orbital geometry of a world with a given level count.
type Metrics struct {
	Beta  float64 `json:"beta"`  // angle between adjacent level slots
	Orbit float64 `json:"orbit"` // radius of the level-dot orbit
	World float64 `json:"world"` // radius of the world bubble
	Outer float64 `json:"outer"` // radius of the whole footprint
}

// MetricsFor returns the geometry for a world with n levels. The orbit is
// sized so that dots of DotRadius fit around max(n, MinSlots)+2 slots,
// never denser than MaxSlots+1.
func MetricsFor(n int) Metrics {
	slots := max(n, MinSlots) + 2
	slots = min(slots, MaxSlots+1)
	beta := 2 * math.Pi / float64(slots)
	orbit := 1.1 * DotRadius / math.Sin(beta/2)
	return Metrics{
		Beta:  beta,
		Orbit: orbit,
		World: orbit - 1.2*DotRadius,
		Outer: orbit + DotRadius + 6,
	}
}

// World is the layout input for one world: its name and level numbers.
type World struct {
	Name   string
	Levels []int
}

// Dot is a level's position on its world's orbit.
type Dot struct {
	Level int     `json:"level"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Rect is an axis-aligned box.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Node is a placed world.
type Node struct {
	ID      string  `json:"id"`
	Layer   int     `json:"layer"`
	Order   int     `json:"order"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Metrics Metrics `json:"metrics"`
	Dots    []Dot   `json:"dots"`
	Label   Rect    `json:"label"`
	// Known is false for worlds named only by an edge.
	Known bool `json:"known"`
}

// Path is an edge drawn from the bottom of From's footprint to the top of
// To's, as a cubic curve with both control points at MidY.
type Path struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
	X2       float64 `json:"x2"`
	Y2       float64 `json:"y2"`
	MidY     float64 `json:"midY"`
	Inferred bool    `json:"inferred,omitempty"`
}

// Layout is the placed world graph.
type Layout struct {
	Nodes  []Node  `json:"nodes"`
	Edges  []Path  `json:"edges"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Cyclic lists worlds reached again while their own layer was being
	// computed; they are placed as if the closing edge were absent.
	Cyclic []string `json:"cyclic,omitempty"`
}

// Node returns the placed world with the given id.
func (l Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Graph builds the prerequisite graph over worlds and every edge endpoint,
// worlds first in their given order.
func Graph(worlds []World, edges []game.WorldEdge) *dag.Graph {
	g := dag.New()
	for _, w := range worlds {
		g.AddNode(w.Name)
	}
	for _, e := range edges {
		g.AddEdge(e.From, e.To)
	}
	return g
}

// Compute lays out worlds and edges. Every world named by either input gets
// a position; a world known only from an edge has no levels.
func Compute(worlds []World, edges []game.WorldEdge) Layout {
	levels := make(map[string][]int, len(worlds))
	known := make(map[string]bool, len(worlds))
	for _, w := range worlds {
		levels[w.Name] = w.Levels
		known[w.Name] = true
	}
	metricsOf := func(id string) Metrics { return MetricsFor(len(levels[id])) }

	g := Graph(worlds, edges)
	lay := g.Layers()
	ordered := g.OrderLayers(lay)

	out := Layout{Cyclic: lay.Cyclic}
	pos := make(map[string]int, g.Len())

	top := float64(Margin)
	for l, layer := range ordered {
		maxOuter := 0.0
		for _, id := range layer {
			maxOuter = math.Max(maxOuter, metricsOf(id).Outer)
		}
		cy := top + maxOuter

		cx := float64(Margin)
		for i, id := range layer {
			m := metricsOf(id)
			cx += m.Outer
			pos[id] = len(out.Nodes)
			out.Nodes = append(out.Nodes, placeNode(id, l, i, cx, cy, m, levels[id], known[id]))
			cx += m.Outer + HGap
		}
		top = cy + maxOuter + LabelHeight + VGap
	}

	for _, e := range edges {
		from, okF := pos[e.From]
		to, okT := pos[e.To]
		if !okF || !okT {
			continue
		}
		a, b := out.Nodes[from], out.Nodes[to]
		y1 := a.Y + a.Metrics.Outer
		y2 := b.Y - b.Metrics.Outer
		out.Edges = append(out.Edges, Path{
			From: e.From, To: e.To,
			X1: a.X, Y1: y1,
			X2: b.X, Y2: y2,
			MidY:     (y1 + y2) / 2,
			Inferred: e.Inferred,
		})
	}

	if len(out.Nodes) > 0 {
		var maxX, maxY float64
		for _, n := range out.Nodes {
			maxX = math.Max(maxX, n.X+n.Metrics.Outer)
			maxY = math.Max(maxY, n.Y+n.Metrics.Outer+LabelHeight+8)
		}
		out.Width = maxX + Margin
		out.Height = maxY + Margin
	}
	return out
}

func placeNode(id string, layer, order int, cx, cy float64, m Metrics, levels []int, known bool) Node {
	n := Node{ID: id, Layer: layer, Order: order, X: cx, Y: cy, Metrics: m, Known: known}
	for _, lv := range levels {
		n.Dots = append(n.Dots, DotFor(cx, cy, m, lv))
	}
	w := math.Max(float64(utf8.RuneCountInString(id))*7.5+LabelPad*2, m.World*2+16)
	n.Label = Rect{X: cx - w/2, Y: cy + m.Outer + 3, W: w, H: LabelHeight}
	return n
}

// DotFor places level number lv on the orbit around (cx, cy). Angle 0 is
// straight up and angles grow clockwise.
func DotFor(cx, cy float64, m Metrics, lv int) Dot {
	a := float64(lv) * m.Beta
	return Dot{Level: lv, X: cx + math.Sin(a)*m.Orbit, Y: cy - math.Cos(a)*m.Orbit}
}
