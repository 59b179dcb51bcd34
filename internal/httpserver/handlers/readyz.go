package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz reports whether the daemon can serve. Redis is the only hard
// dependency: without it sessions cannot be persisted across restarts.
// The bookmarks backend being down is a degraded state, not unready.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if d.RedisClient == nil || d.RedisClient.Ping(r.Context()).Err() != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(readyzResponse{
				Ready: false,
				Error: "redis unreachable",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(readyzResponse{
			Ready: true,
		})
	}
}
