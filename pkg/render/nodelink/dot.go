package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/jsonpath"
	"github.com/matzehuels/jsongraph/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node's JSON path above its rows.
	Detailed bool

	// Selected is the ID of a node to highlight. Empty highlights nothing.
	Selected string

	// Memo, when set, is used to project row texts.
	Memo *render.Memo
}

// ToDOT converts a display graph to Graphviz DOT format.
// Each node becomes a box listing its projected rows; edges point from a
// container to the node of each container child.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i := range g.Nodes {
		n := &g.Nodes[i]
		label := fmtLabel(n, opts)
		attrs := fmtAttrs(n, label, n.ID == opts.Selected)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *graph.Node, opts Options) string {
	var texts []string
	if opts.Memo != nil {
		texts = opts.Memo.Texts(n)
	} else {
		for _, row := range n.Rows {
			texts = append(texts, render.Project(row))
		}
	}

	lines := make([]string, 0, len(texts)+1)
	if opts.Detailed {
		lines = append(lines, jsonpath.Format(n.Path))
	}
	for i, text := range texts {
		if key := n.Rows[i].Key; key != "" {
			text = key + ": " + text
		}
		lines = append(lines, text)
	}
	if len(lines) == 0 {
		return string(n.Kind)
	}
	// "\l" left-justifies each line in Graphviz labels.
	return strings.Join(lines, `\l`) + `\l`
}

func fmtAttrs(n *graph.Node, label string, selected bool) []string {
	attrs := []string{"label=" + quoteLabel(label)}
	if n.Kind == graph.KindArray {
		attrs = append(attrs, "fillcolor=\"#f3f4f6\"")
	}
	if selected {
		attrs = append(attrs, "color=\"#2563eb\"", "penwidth=2")
	}
	return attrs
}

// quoteLabel quotes a label for DOT while keeping "\l" escapes intact.
func quoteLabel(label string) string {
	parts := strings.Split(label, `\l`)
	for i, p := range parts {
		q := strconv.Quote(p)
		parts[i] = q[1 : len(q)-1]
	}
	return `"` + strings.Join(parts, `\l`) + `"`
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
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
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion. It needs
// rsvg-convert on PATH and fails with UNSUPPORTED otherwise.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
