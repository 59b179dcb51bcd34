package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

// TokenProvider supplies the bearer token attached to backend
// requests. It returns "" when no session exists; requests then go
// out unauthenticated and the backend answers 401.
type TokenProvider func() string

// Client talks to the bookmarks backend REST surface for a single
// table. All reads are owner-scoped and ordered newest first, which
// is the only ordering the sync engine consumes.
type Client struct {
	httpClient *http.Client
	baseURL    string
	table      string
	token      TokenProvider
	log        logger.Logger
}

func NewClient(baseURL, table string, token TokenProvider, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		table:      table,
		token:      token,
		log:        log,
	}
}

// Query fetches every bookmark of the given owner, newest first.
func (c *Client) Query(ctx context.Context, owner string) ([]domain.Bookmark, error) {
	q := url.Values{}
	q.Set("owner", owner)
	q.Set("order", "created_at.desc")
	endpoint := fmt.Sprintf("%s/v1/%s?%s", c.baseURL, url.PathEscape(c.table), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build query request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bookmark query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiErrorFrom(resp)
	}

	var records []bookmarkRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode bookmark list: %w", err)
	}

	books := make([]domain.Bookmark, 0, len(records))
	for _, rec := range records {
		books = append(books, rec.toDomain())
	}
	c.log.Debug("fetched bookmarks", logger.Int("count", len(books)), logger.String("owner", owner))
	return books, nil
}

// Insert persists a new bookmark and returns the stored record with
// its backend-assigned ID and CreatedAt.
func (c *Client) Insert(ctx context.Context, rec domain.NewBookmark) (domain.Bookmark, error) {
	body, err := json.Marshal(insertRequest{Title: rec.Title, URL: rec.URL, Owner: rec.Owner})
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/%s", c.baseURL, url.PathEscape(c.table))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to build insert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("bookmark insert failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return domain.Bookmark{}, apiErrorFrom(resp)
	}

	var stored bookmarkRecord
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to decode stored bookmark: %w", err)
	}
	return stored.toDomain(), nil
}

// Delete removes a bookmark by ID. Deleting an ID the backend no
// longer knows is not an error here; the next reconciliation settles
// the final state either way.
func (c *Client) Delete(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("%s/v1/%s/%s", c.baseURL, url.PathEscape(c.table), url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bookmark delete failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK, http.StatusNotFound:
		return nil
	default:
		return apiErrorFrom(resp)
	}
}

func (c *Client) authorize(req *http.Request) {
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}
