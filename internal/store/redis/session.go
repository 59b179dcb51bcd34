package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/marks/internal/session"
	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL bounds how long a persisted session survives
// without being re-saved. Every save slides the window, so an active
// daemon keeps its session alive indefinitely while an abandoned one
// eventually forgets it.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Store persists the session token in Redis so the daemon restores
// the signed-in identity across restarts.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis-backed session store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Save stores the session token
func (s *Store) Save(ctx context.Context, t *session.Token) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal session token: %w", err)
	}

	if err := s.client.Set(ctx, SessionTokenKey(), data, DefaultSessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}

	return nil
}

// Load retrieves the stored session token. Returns (nil, nil) when
// nothing is stored.
func (s *Store) Load(ctx context.Context) (*session.Token, error) {
	data, err := s.client.Get(ctx, SessionTokenKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session token: %w", err)
	}

	var tok session.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session token: %w", err)
	}

	return &tok, nil
}

// Clear removes the stored session token
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, SessionTokenKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}
