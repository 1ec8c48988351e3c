// Package server wires the HTTP API: auth endpoints, the query surface and
// health probes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"nlquery/internal/auth"
	"nlquery/internal/common/errors"
	"nlquery/internal/common/logger"
	"nlquery/internal/common/observability"
	"nlquery/internal/query"
	"nlquery/internal/query/schema"
)

// Server is the HTTP front of the query engine.
type Server struct {
	router     chi.Router
	queries    *query.Service
	inspector  *schema.Inspector
	authSvc    *auth.Service
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	obs        *observability.Observability
	readyCheck func(ctx context.Context) error
}

// New assembles the router. obs and readyCheck may be nil.
func New(queries *query.Service, inspector *schema.Inspector, authSvc *auth.Service, log logger.Logger, obs *observability.Observability, readyCheck func(ctx context.Context) error) *Server {
	s := &Server{
		queries:    queries,
		inspector:  inspector,
		authSvc:    authSvc,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
		obs:        obs,
		readyCheck: readyCheck,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(s.authSvc))
		r.Post("/query", s.handleQuery)
		r.Post("/explain", s.handleExplain)
		r.Post("/validate", s.handleValidate)
		r.Get("/schema", s.handleSchema)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Welcome to the Mini Data Query Simulation Engine API",
		"version": "1.0.0",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.readyCheck != nil {
		if err := s.readyCheck(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "ready"})
}
