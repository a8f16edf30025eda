package constraint

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of the legal gives-to relation.
//
// Each participant becomes a node labeled with its display name. Each legal
// edge A → B is drawn as an arrow. Participants with no legal receiver or no
// legal giver are filled red, since no assignment can include them.
//
// If highlight is non-nil, edges for which highlight(giver, receiver) is true
// are drawn bold; pass the chosen assignment to show it on top of the
// relation.
//
// Example:
//
//	g := constraint.Build(r)
//	dot := g.ToDOT(nil)
//	// Use 'dot' command or RenderSVG to visualize
func (g *Graph) ToDOT(highlight func(giver, receiver int) bool) string {
	var buf bytes.Buffer
	buf.WriteString("digraph GiftRing {\n")
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, style=filled, fillcolor=white, shape=box];\n")
	buf.WriteString("  edge [color=\"#999999\"];\n\n")

	for i := range g.n {
		p := g.roster.At(i)
		fill := "white"
		if g.out[i] == 0 || g.in[i] == 0 {
			fill = "\"#f4a6a6\""
		}
		fmt.Fprintf(&buf, "  n%d [label=%q, tooltip=%q, fillcolor=%s];\n", i, p.Name, string(p.ID), fill)
	}
	buf.WriteString("\n")

	for i := range g.n {
		for j := range g.n {
			if !g.Allowed(i, j) {
				continue
			}
			if highlight != nil && highlight(i, j) {
				fmt.Fprintf(&buf, "  n%d -> n%d [color=\"#2a9d8f\", penwidth=2.5];\n", i, j)
				continue
			}
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", i, j)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders the legal relation as an SVG image.
//
// RenderSVG generates a DOT representation via ToDOT, then uses Graphviz to
// render it. The highlight parameter is passed to ToDOT unchanged.
//
// RenderSVG requires the Graphviz library (github.com/goccy/go-graphviz).
// Errors are returned if Graphviz cannot initialize, the DOT is malformed, or
// rendering fails.
func (g *Graph) RenderSVG(ctx context.Context, highlight func(giver, receiver int) bool) ([]byte, error) {
	dot := g.ToDOT(highlight)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
