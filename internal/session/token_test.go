package session

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"
)

// makeJWT builds an unsigned JWT carrying the given claims, enough for
// ParseUnverified to chew on.
func makeJWT(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	body, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("failed to marshal claims: %v", err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(body) + "."
}

func TestTokenIdentity(t *testing.T) {
	t.Run("sub and email", func(t *testing.T) {
		tok := &Token{AccessToken: makeJWT(t, map[string]any{"sub": "user-1", "email": "u@example.com"})}
		ident, err := tok.Identity()
		if err != nil {
			t.Fatalf("Identity() error = %v", err)
		}
		if ident.ID != "user-1" || ident.Email != "u@example.com" {
			t.Errorf("Identity() = %+v, want {user-1 u@example.com}", ident)
		}
	})

	t.Run("email is optional", func(t *testing.T) {
		tok := &Token{AccessToken: makeJWT(t, map[string]any{"sub": "user-2"})}
		ident, err := tok.Identity()
		if err != nil {
			t.Fatalf("Identity() error = %v", err)
		}
		if ident.ID != "user-2" || ident.Email != "" {
			t.Errorf("Identity() = %+v, want {user-2 }", ident)
		}
	})

	t.Run("missing sub", func(t *testing.T) {
		tok := &Token{AccessToken: makeJWT(t, map[string]any{"email": "u@example.com"})}
		if _, err := tok.Identity(); err == nil {
			t.Error("Identity() error = nil, want an error for a token without sub")
		}
	})

	t.Run("non-string sub", func(t *testing.T) {
		tok := &Token{AccessToken: makeJWT(t, map[string]any{"sub": 42})}
		if _, err := tok.Identity(); err == nil {
			t.Error("Identity() error = nil, want an error for a numeric sub")
		}
	})

	t.Run("not a jwt", func(t *testing.T) {
		tok := &Token{AccessToken: "definitely-not-a-jwt"}
		if _, err := tok.Identity(); err == nil {
			t.Error("Identity() error = nil, want a parse error")
		}
	})

	t.Run("empty token", func(t *testing.T) {
		tok := &Token{}
		if _, err := tok.Identity(); err == nil {
			t.Error("Identity() error = nil, want a parse error")
		}
	})
}

func TestTokenExpiresWithin(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		d         time.Duration
		want      bool
	}{
		{"no expiry never matches", time.Time{}, time.Hour, false},
		{"inside the margin", time.Now().Add(time.Minute), 2 * time.Minute, true},
		{"outside the margin", time.Now().Add(time.Hour), 2 * time.Minute, false},
		{"already expired", time.Now().Add(-time.Minute), 2 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := &Token{ExpiresAt: tt.expiresAt}
			if got := tok.ExpiresWithin(tt.d); got != tt.want {
				t.Errorf("ExpiresWithin(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}
