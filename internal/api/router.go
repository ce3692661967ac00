// Package api serves the note endpoint over HTTP.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/playnotes/internal/dispatch"
)

// NewRouter creates the Chi router with all routes and middleware. The
// endpoint is served on both "/" and "/exec".
func NewRouter(d *dispatch.Dispatcher, pinger Pinger, apiKey string, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on ALL routes including /health)
	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	healthH := NewHealthHandler(pinger)
	execH := NewExecHandler(d)

	r.Get("/health", healthH.Health)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(apiKey))

		r.Post("/", execH.Exec)
		r.Post("/exec", execH.Exec)
	})

	return r
}
