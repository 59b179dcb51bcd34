package remote

import (
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// Wire representations of the backend REST payloads. Kept separate
// from domain types so backend field renames stay contained here.

type bookmarkRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}

func (r bookmarkRecord) toDomain() domain.Bookmark {
	return domain.Bookmark{
		ID:        r.ID,
		Title:     r.Title,
		URL:       r.URL,
		Owner:     r.Owner,
		CreatedAt: r.CreatedAt,
	}
}

type insertRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Owner string `json:"owner"`
}

// changeFrame is one message on the /v1/changes websocket.
type changeFrame struct {
	Table string `json:"table"`
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
}

// auth endpoints

type deviceRequest struct {
	Provider string `json:"provider"`
	ClientID string `json:"client_id"`
	Scope    string `json:"scope,omitempty"`
}

type deviceResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

type tokenRequest struct {
	DeviceCode string `json:"device_code"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}
