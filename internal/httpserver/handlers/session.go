package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/marks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/session"
)

type providerView struct {
	Name  string `json:"name"`
	Scope string `json:"scope,omitempty"`
}

type sessionResponse struct {
	SignedIn      bool           `json:"signed_in"`
	SignInEnabled bool           `json:"sign_in_enabled"`
	Identity      *identityView  `json:"identity,omitempty"`
	Providers     []providerView `json:"providers"`
}

type signInRequest struct {
	Provider string `json:"provider"`
}

// Session reports who is signed in and which providers are available.
func Session(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := sessionResponse{
			SignInEnabled: d.SignInEnabled,
			Providers:     make([]providerView, 0),
		}

		ident, err := d.Session.Current(r.Context())
		if err != nil {
			d.Logger.Error("failed to resolve current identity", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if ident != nil {
			resp.SignedIn = true
			resp.Identity = &identityView{ID: ident.ID, Email: ident.Email}
		}
		for _, p := range d.Session.Providers() {
			resp.Providers = append(resp.Providers, providerView{Name: p.Name, Scope: p.Scope})
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// SignIn starts a device-code flow and hands the grant back to the
// caller. The flow finishes in the background; clients poll GET
// /session (or watch the collection state) for completion.
func SignIn(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		grant, err := d.Session.SignIn(r.Context(), req.Provider)
		switch {
		case errors.Is(err, session.ErrSignInDisabled):
			writeError(w, http.StatusConflict, "sign-in is disabled, no providers configured")
			return
		case errors.Is(err, session.ErrUnknownProvider):
			writeError(w, http.StatusBadRequest, "unknown provider "+req.Provider)
			return
		case err != nil:
			d.Logger.Error("sign-in request failed", logger.Error(err))
			writeError(w, http.StatusBadGateway, "failed to start sign-in flow")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(grant)
	}
}

// SignOut ends the session.
func SignOut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Session.SignOut(r.Context()); err != nil {
			d.Logger.Error("sign-out request failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
