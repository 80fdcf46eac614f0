package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured. staticDir
// optionally mounts the game-asset file server at /; pass "" to serve
// the API only.
func NewRouter(h *Handler, staticDir string) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(CORSMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/user/{userID}", h.GetUser)
		r.Post("/tap", h.Tap)
		r.Get("/leaderboard", h.Leaderboard)
		r.Get("/journal", h.Journal)
	})

	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}

	return r
}
