package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/marks/internal/engine"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
)

type componentStatus struct {
	OK              bool   `json:"ok"`
	BookmarksLoaded *int   `json:"bookmarks_loaded,omitempty"`
	LastSync        string `json:"last_sync,omitempty"`
	SignedIn        *bool  `json:"signed_in,omitempty"`
	Mode            string `json:"mode,omitempty"`
	Impact          string `json:"impact,omitempty"`
	Error           string `json:"error,omitempty"`
}

type infraResponse struct {
	SyncMode   string                     `json:"sync_mode"`
	Backend    string                     `json:"backend"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		snap := d.Engine.Snapshot()
		count := len(snap.Entries)
		lastSyncStr := "never"
		if !snap.LastSync.IsZero() {
			lastSyncStr = snap.LastSync.Format("2006-01-02 15:04:05")
		}

		signedIn := snap.Identity != nil

		components := map[string]componentStatus{
			"engine": {
				OK:              snap.State != engine.StateLoading,
				BookmarksLoaded: &count,
				LastSync:        lastSyncStr,
				Mode:            string(snap.State),
			},
			"session": {
				OK:       true,
				SignedIn: &signedIn,
				Mode:     sessionMode(signedIn, d.SignInEnabled),
			},
			"redis": checkRedis(d),
		}

		response := infraResponse{
			SyncMode:   determineSyncMode(components),
			Backend:    d.BackendURL,
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func sessionMode(signedIn, signInEnabled bool) string {
	switch {
	case signedIn:
		return "signed-in"
	case !signInEnabled:
		return "sign-in-disabled"
	default:
		return "signed-out"
	}
}

func determineSyncMode(components map[string]componentStatus) string {
	if eng, exists := components["engine"]; exists {
		if eng.Mode == string(engine.StateUnbound) {
			return "idle" // Nobody signed in = nothing to synchronize
		}
		if !eng.OK {
			return "degraded" // Collection not loaded yet
		}
	}

	// Redis down means sessions stop surviving restarts, nothing more.
	if rd, exists := components["redis"]; exists && !rd.OK {
		return "degraded"
	}

	return "live"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "session-persistence-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := d.RedisClient.Ping(ctx).Err()
	if err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "session-persistence-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "session-persistence-enabled",
		Error:  "none",
	}
}
