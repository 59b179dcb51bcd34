package domain

import (
	"strings"
	"time"
)

// Bookmark represents a single saved link owned by one identity.
// The backend is the source of truth: ID and CreatedAt are assigned
// server-side on insert and never produced locally.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, assigned by the backend.
	// Empty on records that have not been persisted yet.
	ID string

	// Owner is the identity the bookmark belongs to.
	// A collection only ever holds bookmarks of a single owner.
	Owner string

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Title is the display label. Never empty once persisted.
	Title string

	// URL is the absolute link target, normalized via NormalizeURL.
	// Example: https://chat.openai.com/
	URL string

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is assigned by the backend at insert time and is
	// authoritative for ordering (newest first).
	CreatedAt time.Time
}

// NewBookmark carries the caller-supplied fields of a bookmark about
// to be inserted. Everything else is filled in by the backend.
type NewBookmark struct {
	Title string
	URL   string
	Owner string
}

// NormalizeURL trims surrounding whitespace and prepends "https://"
// when the input carries no http or https scheme. The scheme check is
// case-insensitive; inputs that already carry one pass through
// untouched. Returns "" for blank input.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return u
	}
	return "https://" + u
}
