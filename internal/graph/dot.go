package graph

import (
	"fmt"
	"strings"
)

// DOT renders the graph in Graphviz dot syntax. Undirected edges use
// dir=none, bidirected edges dir=both, and marked directed edges are
// drawn bold.
func (g *Graph) DOT(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", name)
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=ellipse, fontsize=10];\n")

	for _, n := range g.nodes {
		fmt.Fprintf(&b, "  %q;\n", n)
	}

	for _, e := range g.order {
		attrs := make([]string, 0, 2)
		switch e.Kind {
		case Undirected:
			attrs = append(attrs, "dir=none")
		case Bidirected:
			attrs = append(attrs, "dir=both", "style=dashed")
		case Directed:
			if e.Marked {
				attrs = append(attrs, "style=bold")
			}
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&b, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&b, "  %q -> %q;\n", e.From, e.To)
		}
	}

	b.WriteString("}\n")
	return b.String()
}
