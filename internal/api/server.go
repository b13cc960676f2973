// Package api exposes the service's HTTP surface: liveness, readiness
// and the Prometheus scrape endpoint.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fyxed/rentcrawl/internal/metrics"
)

// ReadyFunc reports whether downstream dependencies (the store) are
// reachable. A nil ReadyFunc means always ready.
type ReadyFunc func() error

// Server is the HTTP endpoint of the crawler service.
type Server struct {
	logger *zap.Logger
	ready  ReadyFunc
	router chi.Router
}

// NewServer builds the router.
func NewServer(logger *zap.Logger, ready ReadyFunc) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{logger: logger, ready: ready}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(Metrics)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if s.ready != nil {
		if err := s.ready(); err != nil {
			s.logger.Warn("readiness check failed", zap.Error(err))
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
