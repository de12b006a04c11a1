package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vinotinto/certificados/internal/api/handler"
	mw "github.com/vinotinto/certificados/internal/api/middleware"
	"github.com/vinotinto/certificados/internal/config"
	"github.com/vinotinto/certificados/internal/contact"
	"github.com/vinotinto/certificados/internal/core"
	"github.com/vinotinto/certificados/internal/crm"
)

type Server struct {
	router      chi.Router
	logger      zerolog.Logger
	services    *core.Services
	contacts    *contact.Service
	slugs       *crm.SlugCache
	pool        *pgxpool.Pool
	cfg         *config.Config
	tokens      *mw.TokenIssuer
	auditLogger *mw.AuditLogger
}

func NewServer(logger zerolog.Logger, pool *pgxpool.Pool, cfg *config.Config, services *core.Services, contacts *contact.Service, slugs *crm.SlugCache) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		logger:      logger,
		services:    services,
		contacts:    contacts,
		slugs:       slugs,
		pool:        pool,
		cfg:         cfg,
		tokens:      mw.NewTokenIssuer(cfg.PublicTokenSecret),
		auditLogger: mw.NewAuditLogger(pool, logger),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	// Locally stored certificate PDFs.
	if s.cfg.StorageBackend == "local" {
		fs := http.StripPrefix("/certificados/", http.FileServer(http.Dir(s.cfg.StorageDir)))
		s.router.Get("/certificados/*", fs.ServeHTTP)
	}

	// Self-serve student lookup, no API key required.
	public := handler.NewPublic(s.services.Certificate, s.tokens)
	s.router.Route("/public", func(r chi.Router) {
		r.Get("/token", public.Token)
		r.Post("/certificates", public.Certificates)
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth(s.pool))
		r.Use(s.auditLogger.Middleware)

		// Dashboard
		dashboard := handler.NewDashboard(s.services.Dashboard)
		r.Get("/dashboard/stats", dashboard.Stats)

		// Contacts
		contactH := handler.NewContact(s.contacts, s.slugs)
		r.Post("/contacts/search", contactH.Search)

		// Certificates
		cert := handler.NewCertificate(s.services.Certificate)
		r.Get("/certificates", cert.List)
		r.Post("/certificates", cert.Generate)
		r.Get("/certificates/{id}", cert.Get)
		r.Delete("/certificates/{id}", cert.Delete)

		// Admission verifications
		verification := handler.NewVerification(s.services.Verification)
		r.Get("/verifications", verification.List)
		r.Post("/verifications", verification.Create)

		// Trainers
		trainer := handler.NewTrainer(s.services.Trainer)
		r.Get("/trainers", trainer.List)
		r.Post("/trainers", trainer.Create)
		r.Get("/trainers/{id}", trainer.Get)
		r.Put("/trainers/{id}", trainer.Update)
		r.Delete("/trainers/{id}", trainer.Delete)

		// API keys
		apiKey := handler.NewAPIKey(s.services.APIKey)
		r.Get("/api-keys", apiKey.List)
		r.Post("/api-keys", apiKey.Create)
		r.Delete("/api-keys/{id}", apiKey.Revoke)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.pool.Ping(ctx); err != nil {
		checks["db"] = err.Error()
		healthy = false
	} else {
		checks["db"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close shuts down the async audit writer.
func (s *Server) Close() {
	s.auditLogger.Close()
}
