package roadnet

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

var statusColors = map[Status]string{
	StatusKept:        "black",
	StatusEmpty:       "gray80",
	StatusOffMain:     "gray60",
	StatusStub:        "red",
	StatusUnreachable: "orange",
}

// DOT writes the road graph in Graphviz format. Each road is a vertex,
// colored by its Status; roads sharing a node are joined by an edge.
// Anchor roads are drawn bold.
func (n *Network) DOT() string {
	var buf bytes.Buffer
	buf.WriteString("graph roads {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded\", fontsize=10];\n")
	buf.WriteString("  overlap=false;\n\n")

	for i, r := range n.roads {
		label := r.Name
		if label == "" {
			label = r.Category
		}
		label = fmt.Sprintf("%d: %s\n%s", i, label, n.status[i])
		style := "rounded"
		if n.anchor[i] {
			style = "rounded,bold"
		}
		fmt.Fprintf(&buf, "  r%d [label=%q, color=%q, style=%q];\n", i, label, statusColors[n.status[i]], style)
	}

	buf.WriteString("\n")
	for i, nb := range n.Adjacency() {
		for _, j := range nb {
			if j > i {
				fmt.Fprintf(&buf, "  r%d -- r%d;\n", i, j)
			}
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
