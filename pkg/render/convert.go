package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	errs "github.com/matzehuels/jsongraph/pkg/errors"
)

// converter is the librsvg command line tool used for PDF and PNG output.
const converter = "rsvg-convert"

var (
	execLookPath = exec.LookPath
	// lookPath is swapped in tests.
	lookPath = execLookPath
)

// ToPDF converts an SVG document to PDF with rsvg-convert.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG converts an SVG document to PNG with rsvg-convert. A scale of 2
// doubles the pixel size; values <= 0 mean 1.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(ctx, svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

func convert(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := lookPath(converter)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeUnsupported, err,
			"%s output needs %s (librsvg2-bin on Debian/Ubuntu, librsvg on Homebrew)", format, converter)
	}

	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "%s: %s", converter, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
