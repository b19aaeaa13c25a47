// Package server exposes a built diagram document over HTTP.
//
// The existing d3 renderer fetches the document with a plain GET; serving it
// from rosterflow itself avoids a separate static file server during
// development. The server holds one immutable diagram for its lifetime -
// rebuilds require a restart, matching the batch nature of the pipeline.
package server

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mkazantsev/rosterflow/pkg/sankey"
	"github.com/mkazantsev/rosterflow/pkg/sink"
)

// Server serves one diagram document.
type Server struct {
	diagram *sankey.Diagram
	logger  *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger attaches a request/startup logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a server for the given diagram.
func New(d *sankey.Diagram, opts ...Option) *Server {
	s := &Server{
		diagram: d,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/diagram", s.handleDiagram)

	return r
}

// ListenAndServe blocks serving the router on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("serving diagram",
		"addr", addr,
		"nodes", s.diagram.NodeCount(),
		"links", s.diagram.LinkCount())
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	// Open CORS: the d3 page is typically served from elsewhere in dev.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := sink.WriteJSON(s.diagram, w); err != nil {
		s.logger.Error("write diagram response", "err", err)
	}
}
