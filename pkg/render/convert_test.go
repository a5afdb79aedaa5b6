package render

import (
	"context"
	"errors"
	"testing"

	errs "github.com/matzehuels/jsongraph/pkg/errors"
)

func TestConvertWithoutRsvg(t *testing.T) {
	lookPath = func(string) (string, error) { return "", errors.New("not found") }
	t.Cleanup(func() { lookPath = execLookPath })

	ctx := context.Background()
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)

	if _, err := ToPDF(ctx, svg); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("ToPDF() error = %v, want %s", err, errs.ErrCodeUnsupported)
	}
	if _, err := ToPNG(ctx, svg, 2); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("ToPNG() error = %v, want %s", err, errs.ErrCodeUnsupported)
	}
}
