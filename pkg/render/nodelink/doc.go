// Package nodelink renders display graphs as node-link diagrams.
//
// Every node of a [graph.Graph] becomes a rounded box listing its rows as
// "key: text" lines; edges run from a container to each nested container.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// PDF and PNG output go through SVG and require librsvg (rsvg-convert):
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// SVG rendering runs in-process through [github.com/goccy/go-graphviz].
package nodelink
