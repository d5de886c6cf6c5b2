// Package web serves the dashboard views as a JSON API.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sdshc/costshare/internal/conservation"
	"github.com/sdshc/costshare/internal/dashboard"
)

// Engine is the part of *dashboard.Engine the server uses.
type Engine interface {
	Load(ctx context.Context) error
	Select(seg conservation.Segment) (*dashboard.Snapshot, error)
	Status() dashboard.Status
}

// Options configures the server.
type Options struct {
	// AllowedOrigins lists CORS origins; empty allows any.
	AllowedOrigins []string
	// ReloadTimeout bounds POST /api/reload. Zero means two minutes.
	ReloadTimeout time.Duration
}

// Server is the dashboard HTTP server.
type Server struct {
	engine Engine
	opts   Options
	router *chi.Mux
	server *http.Server
}

// NewServer creates a Server over engine.
func NewServer(engine Engine, opts Options) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.ReloadTimeout == 0 {
		opts.ReloadTimeout = 2 * time.Minute
	}
	s := &Server{
		engine: engine,
		opts:   opts,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{headerRunID},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/segments", s.handleSegments)
		r.Get("/status", s.handleStatus)
		r.Post("/reload", s.handleReload)

		r.Get("/snapshot", s.withSnapshot(func(snap *dashboard.Snapshot) any { return snap }))
		r.Get("/overview", s.withSnapshot(func(snap *dashboard.Snapshot) any { return snap.Views.Overview }))
		r.Get("/practices", s.withSnapshot(func(snap *dashboard.Snapshot) any { return snap.Views.Practices }))
		r.Get("/years", s.withSnapshot(func(snap *dashboard.Snapshot) any { return snap.Views.Years }))
		r.Get("/impact", s.withSnapshot(func(snap *dashboard.Snapshot) any { return snap.Views.Impact }))
		r.Get("/funding", s.withSnapshot(func(snap *dashboard.Snapshot) any { return newFundingResponse(snap.Views.Budget) }))
		r.Get("/records", s.withSnapshot(func(snap *dashboard.Snapshot) any { return snap.Records }))
		r.Get("/locations", s.handleLocations)
	})
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	zap.L().Info("web: starting server", zap.String("addr", addr))
	if err := s.server.ListenAndServe(); err != nil && !eris.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "web: listen")
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("web: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type errorResponse struct {
	Error string          `json:"error"`
	State dashboard.State `json:"state,omitempty"`
}

func writeError(w http.ResponseWriter, status int, resp errorResponse) {
	if status >= 500 {
		zap.L().Warn("web: request failed", zap.Int("status", status), zap.String("error", resp.Error))
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("web: encode response", zap.Error(err))
	}
}
