package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/session"
)

// AuthClient talks to the backend auth surface: device-code sign-in,
// token polling, refresh and sign-out.
type AuthClient struct {
	httpClient *http.Client
	baseURL    string
	log        logger.Logger
}

func NewAuthClient(baseURL string, timeout time.Duration, log logger.Logger) *AuthClient {
	return &AuthClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		log:        log,
	}
}

// StartDeviceFlow asks the backend for a device authorization grant.
func (c *AuthClient) StartDeviceFlow(ctx context.Context, provider, clientID, scope string) (*session.DeviceAuthorization, error) {
	var out deviceResponse
	if err := c.post(ctx, "/v1/auth/device", deviceRequest{Provider: provider, ClientID: clientID, Scope: scope}, &out, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to start device flow: %w", err)
	}

	grant := &session.DeviceAuthorization{
		Provider:        provider,
		DeviceCode:      out.DeviceCode,
		UserCode:        out.UserCode,
		VerificationURL: out.VerificationURL,
		Interval:        time.Duration(out.Interval) * time.Second,
	}
	if out.ExpiresIn > 0 {
		grant.ExpiresAt = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	}
	return grant, nil
}

// PollDeviceToken exchanges a device code for a token. Returns
// (nil, nil) while the user has not approved the grant yet (backend
// answers 202); any other non-200 status is a hard failure ending
// the flow.
func (c *AuthClient) PollDeviceToken(ctx context.Context, deviceCode string) (*session.Token, error) {
	body, err := json.Marshal(tokenRequest{DeviceCode: deviceCode})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/token", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token poll failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out tokenResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("failed to decode token response: %w", err)
		}
		return c.toToken(out), nil
	case http.StatusAccepted:
		// Authorization still pending, keep polling.
		return nil, nil
	default:
		return nil, apiErrorFrom(resp)
	}
}

// Refresh exchanges a refresh token for a fresh access token. A 4xx
// answer means the backend revoked the session; that case wraps
// session.ErrRefreshRejected so the caller can tell it apart from
// transient failures.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*session.Token, error) {
	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/refresh", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var out tokenResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("failed to decode refresh response: %w", err)
		}
		return c.toToken(out), nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("refresh rejected with status %d: %w", resp.StatusCode, session.ErrRefreshRejected)
	default:
		return nil, apiErrorFrom(resp)
	}
}

// SignOut revokes the session server-side. Best effort: callers clear
// local state regardless of the outcome.
func (c *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/signout", nil)
	if err != nil {
		return fmt.Errorf("failed to build signout request: %w", err)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("signout failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return apiErrorFrom(resp)
	}
	return nil
}

func (c *AuthClient) post(ctx context.Context, path string, in, out interface{}, wantStatus int) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return apiErrorFrom(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *AuthClient) toToken(out tokenResponse) *session.Token {
	tok := &session.Token{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
	}
	if out.ExpiresIn > 0 {
		tok.ExpiresAt = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	}
	return tok
}
