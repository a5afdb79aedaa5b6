// Package server exposes a document handle over a small JSON HTTP API.
//
// Routes:
//
//	GET  /api/health        liveness
//	GET  /api/document      document text and revision metadata
//	GET  /api/nodes         every node with its projected rows, plus edges
//	GET  /api/node?path=…   one node: rows, placed lines, content, shape, fields
//	POST /api/node/save     {"path": "$[...]", "fields": {...}}
//	GET  /api/graph.dot     Graphviz source of the display graph
//	GET  /api/graph.svg     rendered graph, cached by DOT hash
//
// Failures are reported as {"code": "...", "error": "..."}.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/jsongraph/pkg/cache"
	"github.com/matzehuels/jsongraph/pkg/document"
	"github.com/matzehuels/jsongraph/pkg/edit"
	"github.com/matzehuels/jsongraph/pkg/render"
)

// Options configures a Server.
type Options struct {
	Collection string
	CORSOrigin string
	Logger     *log.Logger
	Cache      cache.Cache
	Keyer      cache.Keyer
	CacheTTL   time.Duration
}

// Server serves one document.
type Server struct {
	handle *document.Handle
	opts   Options
	memo   *render.Memo
}

// New returns a server for h. Zero options get defaults: the default
// collection, the default charm logger and no render cache.
func New(h *document.Handle, opts Options) *Server {
	if opts.Collection == "" {
		opts.Collection = edit.DefaultCollection
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	return &Server{handle: h, opts: opts, memo: render.NewMemo()}
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	if s.opts.CORSOrigin != "" {
		r.Use(s.cors)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/document", s.handleDocument)
		r.Get("/nodes", s.handleNodes)
		r.Get("/node", s.handleNode)
		r.Post("/node/save", s.handleSave)
		r.Get("/graph.dot", s.handleDOT)
		r.Get("/graph.svg", s.handleSVG)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.opts.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.opts.CORSOrigin)
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
