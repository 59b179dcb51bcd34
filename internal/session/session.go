package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

// How often the refresh loop checks whether the access token is close
// to expiry, and how long a background call against the backend may
// take before being abandoned.
const (
	refreshCheckInterval = 30 * time.Second
	backgroundTimeout    = 15 * time.Second
)

var (
	// ErrUnknownProvider is returned by SignIn for a provider name
	// absent from the configured catalog.
	ErrUnknownProvider = errors.New("unknown sign-in provider")

	// ErrSignInDisabled is returned by SignIn when no providers are
	// configured at all.
	ErrSignInDisabled = errors.New("sign-in is disabled, no providers configured")

	// ErrRefreshRejected marks a refresh the backend permanently
	// refused (revoked or expired session), as opposed to a transient
	// failure. AuthAPI implementations wrap it accordingly.
	ErrRefreshRejected = errors.New("session refresh rejected")
)

// AuthAPI is the slice of the backend auth surface the session
// consumes. PollDeviceToken returns (nil, nil) while the user has not
// approved the grant yet.
type AuthAPI interface {
	StartDeviceFlow(ctx context.Context, provider, clientID, scope string) (*DeviceAuthorization, error)
	PollDeviceToken(ctx context.Context, deviceCode string) (*Token, error)
	Refresh(ctx context.Context, refreshToken string) (*Token, error)
	SignOut(ctx context.Context, accessToken string) error
}

// TokenStore persists the session token across daemon restarts.
// Load returns (nil, nil) when nothing is stored.
type TokenStore interface {
	Save(ctx context.Context, t *Token) error
	Load(ctx context.Context) (*Token, error)
	Clear(ctx context.Context) error
}

// Session tracks the current identity and broadcasts identity
// transitions: sign-in, sign-out, and refreshes that land on a
// different identity. Consumers read the current identity with
// Current and watch transitions via Changes.
type Session struct {
	auth      AuthAPI
	tokens    TokenStore
	providers map[string]domain.AuthProvider
	log       logger.Logger

	refreshMargin time.Duration

	mu       sync.Mutex
	current  *Token
	identity *domain.Identity

	changes  chan *domain.Identity
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New(auth AuthAPI, tokens TokenStore, providers []domain.AuthProvider, refreshMargin time.Duration, log logger.Logger) *Session {
	catalog := make(map[string]domain.AuthProvider, len(providers))
	for _, p := range providers {
		catalog[p.Name] = p
	}
	if refreshMargin <= 0 {
		refreshMargin = 2 * time.Minute
	}
	return &Session{
		auth:          auth,
		tokens:        tokens,
		providers:     catalog,
		log:           log,
		refreshMargin: refreshMargin,
		changes:       make(chan *domain.Identity, 8),
		stopCh:        make(chan struct{}),
	}
}

// Start restores any persisted session and launches the token refresh
// loop. A corrupt or unreadable stored token degrades to starting
// signed out, never to a crash.
func (s *Session) Start(ctx context.Context) error {
	tok, err := s.tokens.Load(ctx)
	if err != nil {
		s.log.Warn("failed to restore persisted session, starting signed out", logger.Error(err))
	} else if tok != nil {
		ident, err := tok.Identity()
		if err != nil {
			s.log.Warn("persisted session token is unusable, discarding it", logger.Error(err))
			if clearErr := s.tokens.Clear(ctx); clearErr != nil {
				s.log.Warn("failed to discard persisted session", logger.Error(clearErr))
			}
		} else {
			s.mu.Lock()
			s.current = tok
			s.identity = ident
			s.mu.Unlock()
			s.log.Info("session restored", logger.String("email", ident.Email))
		}
	}

	s.wg.Add(1)
	go s.refreshLoop(ctx)
	return nil
}

// Stop ends the background loops. Pending sign-in polls are
// abandoned.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// Current returns the signed-in identity, or (nil, nil) when signed
// out. Being signed out is a state, not an error.
func (s *Session) Current(ctx context.Context) (*domain.Identity, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil, nil
	}
	ident := *s.identity
	return &ident, nil
}

// Changes returns the identity transition stream. A nil element means
// signed out. Delivery is at-least-once: consumers must tolerate an
// event repeating the identity they already know.
func (s *Session) Changes() <-chan *domain.Identity {
	return s.changes
}

// AccessToken returns the current bearer token, or "" when signed
// out. Handed to the remote store clients as their TokenProvider.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.AccessToken
}

// Providers lists the configured sign-in providers.
func (s *Session) Providers() []domain.AuthProvider {
	out := make([]domain.AuthProvider, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, p)
	}
	return out
}

// SignIn starts a device-code flow against the named provider and
// returns the grant the user must approve. Token polling continues in
// the background; completion surfaces as an identity change.
func (s *Session) SignIn(ctx context.Context, provider string) (*DeviceAuthorization, error) {
	if len(s.providers) == 0 {
		return nil, ErrSignInDisabled
	}
	p, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	grant, err := s.auth.StartDeviceFlow(ctx, p.Name, p.ClientID, p.Scope)
	if err != nil {
		return nil, fmt.Errorf("failed to start sign-in flow: %w", err)
	}

	s.wg.Add(1)
	go s.pollForToken(grant)

	s.log.Info("sign-in flow started",
		logger.String("provider", provider),
		logger.String("user_code", grant.UserCode))
	return grant, nil
}

// SignOut revokes the session server-side (best effort), clears the
// persisted token and emits a signed-out transition. Signing out
// while already signed out is a no-op.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	tok := s.current
	s.current = nil
	s.identity = nil
	s.mu.Unlock()

	if tok == nil {
		return nil
	}

	if err := s.auth.SignOut(ctx, tok.AccessToken); err != nil {
		s.log.Warn("remote sign-out failed, clearing local session anyway", logger.Error(err))
	}
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Warn("failed to clear persisted session", logger.Error(err))
	}

	s.emit(nil)
	s.log.Info("signed out")
	return nil
}

// pollForToken polls the backend until the user approves the grant,
// the grant expires, or the session stops.
func (s *Session) pollForToken(grant *DeviceAuthorization) {
	defer s.wg.Done()

	interval := grant.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if !grant.ExpiresAt.IsZero() && time.Now().After(grant.ExpiresAt) {
				s.log.Warn("sign-in flow expired before authorization",
					logger.String("provider", grant.Provider))
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
			tok, err := s.auth.PollDeviceToken(ctx, grant.DeviceCode)
			cancel()
			if err != nil {
				s.log.Warn("sign-in flow failed",
					logger.String("provider", grant.Provider), logger.Error(err))
				return
			}
			if tok == nil {
				continue // authorization still pending
			}

			tok.Provider = grant.Provider
			s.install(tok)
			return
		}
	}
}

// install makes tok the current session, persists it and emits an
// identity transition when the principal actually changed.
func (s *Session) install(tok *Token) {
	ident, err := tok.Identity()
	if err != nil {
		s.log.Error("received a token without a usable identity, dropping it", logger.Error(err))
		return
	}

	s.mu.Lock()
	prev := s.identity
	s.current = tok
	s.identity = ident
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
	if err := s.tokens.Save(ctx, tok); err != nil {
		s.log.Warn("failed to persist session token", logger.Error(err))
	}
	cancel()

	if !prev.Same(ident) {
		copied := *ident
		s.emit(&copied)
		s.log.Info("signed in", logger.String("email", ident.Email))
	}
}

// expire drops the session after the backend refused to renew it.
func (s *Session) expire(ctx context.Context) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	s.current = nil
	s.identity = nil
	s.mu.Unlock()

	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Warn("failed to clear persisted session", logger.Error(err))
	}
	s.emit(nil)
	s.log.Warn("session expired, signed out")
}

func (s *Session) refreshLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(refreshCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.maybeRefresh(ctx)
		}
	}
}

// maybeRefresh renews the access token shortly before expiry. A
// transient failure keeps the current token and retries next tick; a
// rejected refresh ends the session.
func (s *Session) maybeRefresh(ctx context.Context) {
	s.mu.Lock()
	tok := s.current
	s.mu.Unlock()

	if tok == nil || tok.RefreshToken == "" || !tok.ExpiresWithin(s.refreshMargin) {
		return
	}

	rctx, cancel := context.WithTimeout(ctx, backgroundTimeout)
	defer cancel()

	fresh, err := s.auth.Refresh(rctx, tok.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshRejected) {
			s.log.Warn("session refresh rejected by backend", logger.Error(err))
			s.expire(rctx)
			return
		}
		s.log.Warn("session refresh failed, will retry", logger.Error(err))
		return
	}

	fresh.Provider = tok.Provider
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = tok.RefreshToken
	}
	s.install(fresh)
	s.log.Debug("session token refreshed")
}

// emit delivers an identity transition. Blocks when the buffer is
// full rather than dropping: a lost sign-out event would leave
// consumers operating on a dead identity.
func (s *Session) emit(ident *domain.Identity) {
	select {
	case s.changes <- ident:
	case <-s.stopCh:
	}
}
