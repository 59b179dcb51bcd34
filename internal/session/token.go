package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Token is the persisted state of one signed-in session.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	Provider     string    `json:"provider,omitempty"`
}

// DeviceAuthorization describes a device-code sign-in flow in
// progress: the user opens VerificationURL and enters UserCode while
// the session polls the backend with DeviceCode.
type DeviceAuthorization struct {
	Provider        string        `json:"provider"`
	DeviceCode      string        `json:"-"`
	UserCode        string        `json:"user_code"`
	VerificationURL string        `json:"verification_url"`
	Interval        time.Duration `json:"-"`
	ExpiresAt       time.Time     `json:"expires_at"`
}

var errNoSubject = errors.New("token carries no sub claim")

// Identity extracts the identity from the access token claims. The
// token is parsed without signature verification: the backend verifies
// it on every request anyway, locally the claims only scope and label
// the session.
func (t *Token) Identity() (*domain.Identity, error) {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(t.AccessToken, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", parsed.Claims)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errNoSubject
	}
	email, _ := claims["email"].(string)

	return &domain.Identity{ID: sub, Email: email}, nil
}

// ExpiresWithin reports whether the access token expires within d.
// Tokens without an expiry never report true.
func (t *Token) ExpiresWithin(d time.Duration) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return time.Until(t.ExpiresAt) <= d
}
