/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the registry frontend

ROUTE GROUPS:
  /api/districts/*   District and locality lookups
  /api/estimate      Price estimates
  /healthz           Liveness and index size
  /metrics           Prometheus scrape endpoint

SECURITY NOTE:
  No authentication middleware. Estimates are public reference data; the
  registry application in front of this service owns user sessions.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/landprice/serve.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultAllowedOrigins are used when the caller passes none.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/districts", func(r chi.Router) {
			r.Get("/", h.ListDistricts)
			r.Get("/{district}/localities", h.ListLocalities)
		})

		r.Get("/estimate", h.GetEstimate)
		r.Post("/estimate", h.PostEstimate)
	})

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", h.Metrics.Handler())

	return r
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
