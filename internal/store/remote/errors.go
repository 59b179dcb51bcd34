package remote

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError reports a non-2xx response from the bookmarks backend.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Body)
}

// IsStatus reports whether err wraps an APIError with the given
// HTTP status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// apiErrorFrom drains up to 4KB of the response body into an APIError
// so failures carry whatever detail the backend sent.
func apiErrorFrom(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
}
