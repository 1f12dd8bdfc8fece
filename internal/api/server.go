package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/siteprovision/internal/api/handler"
	mw "github.com/edvin/siteprovision/internal/api/middleware"
	"github.com/edvin/siteprovision/internal/config"
	"github.com/edvin/siteprovision/internal/provision"
	"github.com/edvin/siteprovision/internal/upload"
)

type Server struct {
	router chi.Router
	logger zerolog.Logger
	cfg    *config.Config
	svc    *provision.Service
}

func NewServer(logger zerolog.Logger, cfg *config.Config, svc *provision.Service, uploads *upload.Store) *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: logger,
		cfg:    cfg,
		svc:    svc,
	}

	s.setupMiddleware()
	s.setupRoutes(uploads)

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes(uploads *upload.Store) {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth(s.cfg.APIKey))

		site := handler.NewSite(s.svc, uploads, s.cfg.MaxUploadBytes)
		r.Post("/sites", site.Create)
		r.Get("/jobs/{id}", site.GetJob)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleReadyz verifies that the scripts directory is reachable; without it
// every pipeline step would fail to start.
func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if _, err := os.Stat(s.cfg.ScriptsDir); err != nil {
		http.Error(w, "scripts directory unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
