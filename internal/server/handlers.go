package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/jsongraph/pkg/buildinfo"
	"github.com/matzehuels/jsongraph/pkg/document"
	"github.com/matzehuels/jsongraph/pkg/edit"
	errs "github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/jsonpath"
	"github.com/matzehuels/jsongraph/pkg/observability"
	"github.com/matzehuels/jsongraph/pkg/render"
	"github.com/matzehuels/jsongraph/pkg/render/nodelink"
)

type nodeSummary struct {
	ID       string   `json:"id"`
	Path     string   `json:"path"`
	Kind     string   `json:"kind"`
	Shape    string   `json:"shape"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Texts    []string `json:"texts"`
	Editable bool     `json:"editable"`
}

type nodeDetail struct {
	ID       string        `json:"id"`
	Path     string        `json:"path"`
	Pointer  string        `json:"pointer"`
	Kind     string        `json:"kind"`
	Rows     []graph.Row   `json:"rows"`
	Lines    []render.Line `json:"lines"`
	Content  string        `json:"content"`
	Shape    string        `json:"shape"`
	Editable bool          `json:"editable"`
	Fields   []edit.Field  `json:"fields"`
}

type saveRequest struct {
	Path   jsonpath.Path     `json:"path"`
	Fields map[string]string `json:"fields"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "version": buildinfo.Get().Version})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"text": s.handle.Text(),
		"meta": s.handle.Meta(),
	})
}

// handleNodes lists every node. The response depends only on the document
// text and the collection, so it is cached under the keyer's graph key.
func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := s.opts.Keyer.GraphKey(s.opts.Collection + "\x00" + s.handle.Text())
	if data, ok, err := s.opts.Cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "graph")
		writeRaw(w, "HIT", data)
		return
	}
	observability.Cache().OnCacheMiss(ctx, "graph")

	g := s.handle.Graph(ctx)
	nodes := make([]nodeSummary, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		shape := edit.Classify(n.Path, s.opts.Collection)
		nodes[i] = nodeSummary{
			ID:       n.ID,
			Path:     jsonpath.Format(n.Path),
			Kind:     string(n.Kind),
			Shape:    shape.String(),
			Width:    n.Width,
			Height:   n.Height,
			Texts:    s.memo.Texts(n),
			Editable: shape.Editable(),
		}
	}

	data, err := json.Marshal(map[string]any{"nodes": nodes, "edges": g.Edges})
	if err != nil {
		s.fail(w, errs.Wrap(errs.ErrCodeInternal, err, "encode nodes"))
		return
	}
	if err := s.opts.Cache.Set(ctx, key, data, s.opts.CacheTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "graph", len(data))
	}
	writeRaw(w, "MISS", data)
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	p, err := jsonpath.Parse(r.URL.Query().Get("path"))
	if err != nil {
		s.fail(w, err)
		return
	}
	n, err := s.lookup(r, p)
	if err != nil {
		s.fail(w, err)
		return
	}

	sess := edit.NewSession(s.opts.Collection, s.opts.Logger)
	sess.Open(n)
	fields := sess.Fields().Fields
	if fields == nil {
		fields = []edit.Field{}
	}
	writeJSON(w, http.StatusOK, nodeDetail{
		ID:       n.ID,
		Path:     sess.PathText(),
		Pointer:  jsonpath.Pointer(n.Path),
		Kind:     string(n.Kind),
		Rows:     n.Rows,
		Lines:    render.Lines(n, 0, 0),
		Content:  sess.Content(),
		Shape:    sess.Shape().String(),
		Editable: sess.Editable(),
		Fields:   fields,
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	n, err := s.lookup(r, req.Path)
	if err != nil {
		s.fail(w, err)
		return
	}

	sess := edit.NewSession(s.opts.Collection, s.opts.Logger)
	sess.Open(n)
	if err := sess.BeginEdit(); err != nil {
		s.fail(w, err)
		return
	}
	for k, v := range req.Fields {
		if err := sess.Set(k, v); err != nil {
			s.fail(w, err)
			return
		}
	}

	note := sess.Save(r.Context(), s.handle)
	if note.Level == edit.LevelError {
		status, code := mapError(note.Cause)
		writeError(w, status, code, note.Message)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"message":  note.Message,
		"revision": s.handle.Meta().Revision,
	})
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	dot := nodelink.ToDOT(s.handle.Graph(r.Context()), nodelink.Options{Memo: s.memo})
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(dot))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	dot := nodelink.ToDOT(s.handle.Graph(r.Context()), nodelink.Options{Memo: s.memo})
	svg, hit, err := nodelink.CachedSVG(r.Context(), s.opts.Cache, s.opts.Keyer, dot, s.opts.CacheTTL)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	status := "MISS"
	if hit {
		status = "HIT"
	}
	w.Header().Set("X-Cache", status)
	_, _ = w.Write(svg)
}

// lookup finds the node at p in a freshly built graph.
func (s *Server) lookup(r *http.Request, p jsonpath.Path) (*graph.Node, error) {
	n, ok := s.handle.Graph(r.Context()).NodeByPath(p)
	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "no node at %s", jsonpath.Format(p))
	}
	return n, nil
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status, code := mapError(err)
	if status >= http.StatusInternalServerError {
		s.opts.Logger.Error("request failed", "err", err)
	}
	writeError(w, status, code, errs.UserMessage(err))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeRaw(w http.ResponseWriter, cacheStatus string, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"code":  code,
		"error": message,
	})
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return errs.New(errs.ErrCodeInvalidInput, "missing request body")
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if code := errs.GetCode(err); code != "" {
			return err
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}

// mapError converts an error to an HTTP status and error code.
func mapError(err error) (int, string) {
	code := errs.GetCode(err)
	switch code {
	case errs.ErrCodeStalePath:
		return http.StatusConflict, string(code)
	case errs.ErrCodeNotEditable:
		return http.StatusUnprocessableEntity, string(code)
	case errs.ErrCodeInvalidPath, errs.ErrCodeInvalidInput, errs.ErrCodeInvalidDocument:
		return http.StatusBadRequest, string(code)
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound, string(code)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return http.StatusBadRequest, string(errs.ErrCodeInvalidInput)
	}
	if code == "" {
		code = errs.ErrCodeInternal
	}
	return http.StatusInternalServerError, string(code)
}

var _ edit.Applier = (*document.Handle)(nil)
