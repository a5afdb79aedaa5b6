package document

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"

	errs "github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/jsonpath"
	"github.com/matzehuels/jsongraph/pkg/observability"
	"github.com/matzehuels/jsongraph/pkg/render"
)

// SourcePatch marks revisions written by [Handle.Apply].
const SourcePatch = "patch"

// Change records one applied patch.
type Change struct {
	Path       jsonpath.Path   `json:"path"`
	Revision   string          `json:"revision"`
	MergePatch json.RawMessage `json:"mergePatch"`
}

// Handle owns a decoded document. It is safe for concurrent use; writes
// are serialized and the last writer wins.
type Handle struct {
	store  Store
	logger *log.Logger

	mu    sync.RWMutex
	value any
	text  string
	meta  Meta
}

// Load reads and decodes the document held by store. A nil logger uses the
// default charm logger.
func Load(ctx context.Context, store Store, logger *log.Logger) (*Handle, error) {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handle{store: store, logger: logger}
	if err := h.Reload(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// Reload replaces the in-memory document with the store's current text.
// Paths computed before a reload may become stale.
func (h *Handle) Reload(ctx context.Context) error {
	text, err := h.store.Text(ctx)
	observability.Store().OnLoad(ctx, h.store.Backend(), len(text), err)
	if err != nil {
		return err
	}
	value, err := Decode(text)
	if err != nil {
		return err
	}

	var meta Meta
	if ms, ok := h.store.(MetaStore); ok {
		if meta, err = ms.Meta(ctx); err != nil {
			h.logger.Warn("could not read document meta", "backend", h.store.Backend(), "err", err)
		}
	}

	h.mu.Lock()
	h.value, h.text, h.meta = value, text, meta
	h.mu.Unlock()

	h.logger.Debug("document loaded", "backend", h.store.Backend(), "bytes", len(text), "revision", meta.Revision)
	return nil
}

// Value returns a deep copy of the document.
func (h *Handle) Value() any {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return jsonpath.Clone(h.value)
}

// Text returns the document text as last loaded or written.
func (h *Handle) Text() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.text
}

// Meta returns the metadata of the current revision.
func (h *Handle) Meta() Meta {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.meta
}

// Store returns the underlying store.
func (h *Handle) Store() Store { return h.store }

// Resolve returns a deep copy of the value at p.
func (h *Handle) Resolve(p jsonpath.Path) (any, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, err := jsonpath.Resolve(h.value, p)
	if err != nil {
		return nil, err
	}
	return jsonpath.Clone(v), nil
}

// Graph builds and measures the display graph of the current document.
func (h *Handle) Graph(ctx context.Context) *graph.Graph {
	h.mu.RLock()
	g := graph.Build(h.value)
	h.mu.RUnlock()

	render.Measure(g)
	observability.Render().OnGraphBuilt(ctx, len(g.Nodes), len(g.Edges))
	return g
}

// Apply replaces the value at p and writes the new document through the
// store. On any error the document is left unchanged.
func (h *Handle) Apply(ctx context.Context, p jsonpath.Path, value any) (Change, error) {
	return h.update(ctx, p, func(any) (any, error) { return value, nil })
}

// Modify is like Apply but computes the new value from the current one
// under the same lock.
func (h *Handle) Modify(ctx context.Context, p jsonpath.Path, fn func(existing any) (any, error)) error {
	_, err := h.update(ctx, p, fn)
	return err
}

func (h *Handle) update(ctx context.Context, p jsonpath.Path, fn func(any) (any, error)) (Change, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	existing, err := current(h.value, p)
	if err != nil {
		return Change{}, err
	}
	value, err := fn(jsonpath.Clone(existing))
	if err != nil {
		return Change{}, err
	}
	next, err := jsonpath.Patch(h.value, p, value)
	if err != nil {
		return Change{}, err
	}
	text, err := Encode(next)
	if err != nil {
		return Change{}, err
	}

	meta := Meta{
		Revision:   uuid.NewString(),
		HasChanges: true,
		Source:     SourcePatch,
		SavedAt:    time.Now().UTC(),
	}
	err = h.store.SetText(ctx, text, meta)
	observability.Store().OnWrite(ctx, h.store.Backend(), len(text), err)
	if err != nil {
		return Change{}, errs.Wrap(errs.ErrCodeInternal, err, "write document")
	}

	change := Change{Path: p, Revision: meta.Revision}
	if mp, err := jsonpatch.CreateMergePatch([]byte(h.text), []byte(text)); err == nil {
		change.MergePatch = mp
	} else {
		h.logger.Warn("could not compute merge patch", "err", err)
	}

	h.value, h.text, h.meta = next, text, meta
	h.logger.Debug("document patched",
		"pointer", jsonpath.Pointer(p),
		"revision", meta.Revision,
		"patch", string(change.MergePatch))
	return change, nil
}

// current returns the value at p, or nil when p names a key that its
// object parent does not have yet. Stale parents fail; an unassignable last
// segment is left for jsonpath.Patch to report.
func current(doc any, p jsonpath.Path) (any, error) {
	last, ok := p.Last()
	if !ok {
		return doc, nil
	}
	parent, err := jsonpath.Resolve(doc, p.Parent())
	if err != nil {
		return nil, err
	}
	if obj, isObj := parent.(map[string]any); isObj {
		if key, isKey := last.Key(); isKey {
			return obj[key], nil
		}
	}
	v, _ := jsonpath.Resolve(doc, p)
	return v, nil
}

// Decode parses document text. Numbers keep their original text as
// json.Number. Trailing data after the first value is an error.
func Decode(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidDocument, err, "decode document")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errs.New(errs.ErrCodeInvalidDocument, "unexpected data after document")
	}
	return v, nil
}

// Encode serializes a document with 2-space indentation and without HTML
// escaping.
func Encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidDocument, err, "encode document")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
