package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/marks/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	sub := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)

	// Mutations hit the backend; reads serve from memory and a polling
	// UI must never trip the limiter.
	limited := sub.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateBurst,
		RefillPerIPPerMin: d.RateRefillPerMin,
		TrustProxy:        d.TrustProxy,
	}))

	sub.Get("/bookmarks", handlers.ListBookmarks(d))
	limited.Post("/bookmarks", handlers.AddBookmark(d))
	limited.Delete("/bookmarks/{id}", handlers.RemoveBookmark(d))
	limited.Post("/bookmarks/resync", handlers.Resync(d))
}
