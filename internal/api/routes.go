package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"atelier/internal/config"
	"atelier/internal/metrics"
)

// NewRouter wires the HTTP surface: public submission, authentication, and
// the bearer-protected admin routes.
func NewRouter(h *Handlers, verifier TokenVerifier, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(requestLogging)
	r.Use(metrics.PrometheusMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
		MaxAge:         cfg.CORS.MaxAge,
	}))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/inquiries", h.SubmitInquiry)
	r.Post("/authenticate", h.Authenticate)

	r.Route("/admin", func(r chi.Router) {
		r.Use(RequireAuth(verifier))
		r.Get("/inquiries", h.ListInquiries)
		r.Delete("/inquiries/{id}", h.DeleteInquiry)
	})

	return r
}
