// Package render turns graph nodes into displayable text and images.
//
// # Overview
//
// This package sits between the display graph built by [graph.Build] and the
// surfaces that show it (terminal UI, HTTP API, Graphviz). It provides:
//
//   - Row projection: the text shown for each row ([Project])
//   - Row placement: row index and anchor coordinates ([Lines])
//   - Node sizing: width and height from row text ([Measure])
//   - Memoized projection keyed on row content and width ([Memo])
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Row Projection
//
// Leaf values are shown verbatim; containers are summarized as a count:
//
//	{"type": "object", "childrenCount": 3}  -> "{3 keys}"
//	{"type": "array",  "childrenCount": 2}  -> "[2 items]"
//	{"type": "string", "value": "apple"}    -> "apple"
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [nodelink]: github.com/matzehuels/jsongraph/pkg/render/nodelink
package render
