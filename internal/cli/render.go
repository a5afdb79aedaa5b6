package cli

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/jsonpath"
	"github.com/matzehuels/jsongraph/pkg/render"
	"github.com/matzehuels/jsongraph/pkg/render/nodelink"
)

// Output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

var validFormats = []string{formatDOT, formatSVG, formatPDF, formatPNG}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file path; the extension picks the format
	format   string  // explicit format, overrides the extension
	detailed bool    // prepend each node's JSON path to its label
	selected string  // highlight the node at this path
	scale    float64 // PNG scale factor
	noCache  bool    // skip the render cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the document graph with Graphviz",
		Long: `Render the document graph as Graphviz DOT, SVG, PDF or PNG.

SVG output is cached by the hash of the DOT source. PDF and PNG are converted
from SVG and need rsvg-convert on PATH.`,
		Example: `  jsongraph render -d fruits.json -o fruits.svg
  jsongraph render -d fruits.json -o fruits.dot --detailed --select '$["fruits"][0]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(opts.output, opts.format)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), format, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: document name with the format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg (default), pdf, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show each node's JSON path")
	cmd.Flags().StringVar(&opts.selected, "select", "", "highlight the node at this path")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or write the render cache")

	return cmd
}

// resolveFormat picks the output format from the explicit flag, else the
// output extension, else SVG.
func resolveFormat(output, format string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	if format == "" {
		format = formatSVG
	}
	if !slices.Contains(validFormats, format) {
		return "", errs.New(errs.ErrCodeInvalidInput, "invalid format: %s (must be one of %s)", format, strings.Join(validFormats, ", "))
	}
	return format, nil
}

// outputPath derives the output file from the document path when no
// output was given.
func outputPath(output, document, format string) string {
	if output != "" {
		return output
	}
	base := "graph"
	if document != "" {
		base = strings.TrimSuffix(filepath.Base(document), filepath.Ext(document))
	}
	return base + "." + format
}

func (c *CLI) runRender(ctx context.Context, format string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	h, closeStore, err := c.openHandle(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	g := h.Graph(ctx)
	dotOpts := nodelink.Options{Detailed: opts.detailed, Memo: render.NewMemo()}
	if opts.selected != "" {
		id, err := selectedID(g, opts.selected)
		if err != nil {
			return err
		}
		dotOpts.Selected = id
	}
	dot := nodelink.ToDOT(g, dotOpts)

	data, cached, err := c.renderDOT(ctx, dot, format, opts)
	if err != nil {
		return err
	}

	out := outputPath(opts.output, c.cfg.Store.Path, format)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "write %s", out)
	}

	prog.done("Rendered " + format)
	printStats(len(g.Nodes), len(g.Edges), cached)
	printFile(out)
	return nil
}

// renderDOT converts dot to the requested format. SVG goes through the
// render cache; PDF and PNG are converted from freshly rendered SVG.
func (c *CLI) renderDOT(ctx context.Context, dot, format string, opts *renderOpts) ([]byte, bool, error) {
	if format == formatDOT {
		return []byte(dot), false, nil
	}

	spinner := newSpinner(ctx, "Rendering "+format+"...")
	spinner.Start()
	defer spinner.Stop()

	switch format {
	case formatSVG:
		store, err := c.newCache(ctx, opts.noCache)
		if err != nil {
			return nil, false, err
		}
		defer store.Close()
		return nodelink.CachedSVG(ctx, store, nil, dot, c.cfg.Cache.TTL.Duration)
	case formatPDF:
		data, err := nodelink.RenderPDF(ctx, dot)
		return data, false, err
	case formatPNG:
		data, err := nodelink.RenderPNG(ctx, dot, opts.scale)
		return data, false, err
	}
	return nil, false, errs.New(errs.ErrCodeUnsupported, "unsupported format %s", format)
}

// selectedID maps a path in bracket notation to a node id.
func selectedID(g *graph.Graph, text string) (string, error) {
	p, err := jsonpath.Parse(text)
	if err != nil {
		return "", err
	}
	n, err := findNode(g, p)
	if err != nil {
		return "", err
	}
	return n.ID, nil
}
