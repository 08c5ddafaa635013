package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/causalab/internal/graph"
	"github.com/san-kum/causalab/internal/score"
)

// RenderEdges lists a graph's edges one per line, colored by kind.
// Marked directed edges carry a star: those are orientations forced by
// propagation rather than read directly from a collider.
func RenderEdges(g *graph.Graph) string {
	edges := g.Edges()
	if len(edges) == 0 {
		return Subtle.Render("(no edges)")
	}

	var b strings.Builder
	for _, e := range edges {
		b.WriteString("  ")
		b.WriteString(renderEdge(e))
		b.WriteString("\n")
	}
	return b.String()
}

func renderEdge(e graph.Edge) string {
	switch e.Kind {
	case graph.Directed:
		arrow := "→"
		if e.Marked {
			return MarkedStyle.Render(fmt.Sprintf("%s %s* %s", e.From, arrow, e.To))
		}
		return DirectedStyle.Render(fmt.Sprintf("%s %s %s", e.From, arrow, e.To))
	case graph.Bidirected:
		return BidirectedStyle.Render(fmt.Sprintf("%s ↔ %s", e.From, e.To))
	default:
		return UndirectedStyle.Render(fmt.Sprintf("%s — %s", e.From, e.To))
	}
}

// RenderAdjacency draws the graph as a numbered matrix. Row i, column
// j holds '>' for i→j, '<' for j→i, 'o' for an undirected edge, 'x'
// for a bidirected one and '·' for no adjacency.
func RenderAdjacency(g *graph.Graph) string {
	nodes := g.Nodes()
	var b strings.Builder

	for i, n := range nodes {
		b.WriteString(Subtle.Render(fmt.Sprintf("%3d ", i)))
		b.WriteString(ValueStyle.Render(n))
		b.WriteString("\n")
	}
	b.WriteString("\n    ")
	for j := range nodes {
		b.WriteString(Subtle.Render(fmt.Sprintf("%3d", j)))
	}
	b.WriteString("\n")

	for i, from := range nodes {
		b.WriteString(Subtle.Render(fmt.Sprintf("%3d ", i)))
		for j, to := range nodes {
			cell := "·"
			if i != j {
				if e, ok := g.EdgeBetween(from, to); ok {
					switch e.Kind {
					case graph.Directed:
						if e.From == from {
							cell = ">"
						} else {
							cell = "<"
						}
					case graph.Bidirected:
						cell = "x"
					default:
						cell = "o"
					}
				}
			}
			b.WriteString(fmt.Sprintf("%3s", cell))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderReport formats recovery metrics as labeled lines.
func RenderReport(r score.Report) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(LabelStyle.Render(label))
		b.WriteString(ValueStyle.Render(value))
		b.WriteString("\n")
	}

	row("precision", fmt.Sprintf("%.3f", r.AdjacencyPrecision))
	row("recall", fmt.Sprintf("%.3f", r.AdjacencyRecall))
	row("f1", fmt.Sprintf("%.3f", r.AdjacencyF1))
	row("orientation", fmt.Sprintf("%.3f", r.OrientationAccuracy))
	row("shd", fmt.Sprintf("%d", r.SHD))
	row("edges", fmt.Sprintf("%d true / %d recovered", r.TrueEdges, r.RecoveredEdges))
	return b.String()
}
