package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marks/internal/engine"
	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

type bookmarkView struct {
	ID        string     `json:"id,omitempty"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Pending   bool       `json:"pending,omitempty"`
}

type identityView struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

type collectionResponse struct {
	State     string         `json:"state"`
	Identity  *identityView  `json:"identity,omitempty"`
	LastSync  *time.Time     `json:"last_sync,omitempty"`
	Count     int            `json:"count"`
	Bookmarks []bookmarkView `json:"bookmarks"`
}

type addBookmarkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListBookmarks serves the current collection, newest first, pending
// entries included. The UI renders straight from this.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeCollection(w, http.StatusOK, d.Engine.Snapshot())
	}
}

// AddBookmark stores a new bookmark. The call returns once the backend
// confirmed or rejected it; the response carries the settled
// collection either way the client should render.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addBookmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.URL) == "" {
			writeError(w, http.StatusBadRequest, "title and url are required")
			return
		}

		if err := d.Engine.Add(r.Context(), req.Title, req.URL); err != nil {
			writeEngineError(w, d, err)
			return
		}
		writeCollection(w, http.StatusCreated, d.Engine.Snapshot())
	}
}

// RemoveBookmark deletes a bookmark by ID.
func RemoveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "bookmark id is required")
			return
		}

		if err := d.Engine.Remove(r.Context(), id); err != nil {
			writeEngineError(w, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Resync triggers a manual reconciliation against the backend.
func Resync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Engine.Snapshot().State == engine.StateUnbound {
			writeError(w, http.StatusConflict, "not signed in, nothing to resync")
			return
		}

		d.Engine.Resync()
		d.Logger.Info("manual resync triggered via endpoint",
			logger.String("remote_ip", r.RemoteAddr))

		w.WriteHeader(http.StatusAccepted)
		if _, err := w.Write([]byte("✅ Resync triggered\n")); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}

func writeCollection(w http.ResponseWriter, status int, snap engine.Snapshot) {
	resp := collectionResponse{
		State:     string(snap.State),
		Count:     len(snap.Entries),
		Bookmarks: make([]bookmarkView, 0, len(snap.Entries)),
	}
	if snap.Identity != nil {
		resp.Identity = &identityView{ID: snap.Identity.ID, Email: snap.Identity.Email}
	}
	if !snap.LastSync.IsZero() {
		ts := snap.LastSync
		resp.LastSync = &ts
	}
	for _, e := range snap.Entries {
		view := bookmarkView{
			ID:      e.ID,
			Title:   e.Title,
			URL:     e.URL,
			Pending: e.Pending,
		}
		if !e.CreatedAt.IsZero() {
			created := e.CreatedAt
			view.CreatedAt = &created
		}
		resp.Bookmarks = append(resp.Bookmarks, view)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func writeEngineError(w http.ResponseWriter, d deps.Deps, err error) {
	var mutErr *engine.MutationError
	switch {
	case errors.Is(err, engine.ErrNotBound):
		writeError(w, http.StatusUnauthorized, "not signed in")
	case errors.As(err, &mutErr):
		// The backend refused the mutation; the collection already
		// rolled back.
		writeError(w, http.StatusBadGateway, mutErr.Error())
	default:
		d.Logger.Error("bookmark request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
