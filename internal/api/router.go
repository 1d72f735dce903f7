package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler, cfg MiddlewareConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling
	r.Use(corsMiddleware(cfg))

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", HealthHandler)
		r.Post("/streaming", apiHandler.StreamingHandler)

		// LLM-backed routes
		r.Group(func(r chi.Router) {
			r.Use(rateLimitByIP(cfg))

			r.Post("/recommendations", apiHandler.RecommendationsHandler)
			r.Post("/swap", apiHandler.SwapHandler)
			r.Post("/reviews", apiHandler.ReviewsHandler)
		})
	})

	return r
}
