// Package server provides the HTTP API for the document finder.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/intecdocs/docfinder/internal/config"
	"github.com/intecdocs/docfinder/internal/ingest"
	"github.com/intecdocs/docfinder/internal/interpret"
	"github.com/intecdocs/docfinder/internal/metrics"
	"github.com/intecdocs/docfinder/internal/store"
)

// Server is the HTTP server for the document API.
type Server struct {
	intake      *ingest.Service
	store       store.Store
	interpreter interpret.Interpreter
	metrics     *metrics.Metrics
	config      *config.Config
	logger      *zap.Logger
	limiter     *rate.Limiter
	server      *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	intake *ingest.Service,
	st store.Store,
	interpreter interpret.Interpreter,
	m *metrics.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		intake:      intake,
		store:       st,
		interpreter: interpreter,
		metrics:     m,
		config:      cfg,
		logger:      logger,
		limiter:     rate.NewLimiter(rate.Limit(cfg.Limits.UploadsPerSecond), cfg.Limits.Burst),
	}
}

// Routes builds the router. Split out from Start so tests can drive the
// handlers through httptest.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(s.metrics.Middleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.throttleUploads)
			r.Post("/documents", s.handleUpload)
			r.Post("/documents/batch", s.handleUploadBatch)
		})
		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{id}", s.handleGetDocument)
		r.Get("/search", s.handleSearch)
		r.Post("/query", s.handleQuery)
		r.Get("/categories", s.handleCategories)
		r.Get("/stats", s.handleStats)
		r.Get("/report", s.handleReport)
	})
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	return r
}

// throttleUploads rate-limits mutating routes so a bulk drop of scans cannot
// starve readers.
func (s *Server) throttleUploads(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.respondError(w, http.StatusTooManyRequests, "upload rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
