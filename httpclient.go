package cavaauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxRefreshBody = 64 * 1024

// HTTPAuthClientConfig configures an [HTTPAuthClient].
//
// HTTPAuthClientConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HTTPAuthClientConfig struct {
	RefreshURL string
	LogoutURL  string
	CookieName string
	Timeout    time.Duration
	Client     *http.Client
}

// HTTPAuthClient is an [AuthClient] backed by HTTP refresh and logout
// endpoints. The session identifier from the context travels as the access
// token cookie; a successful refresh response is a JSON-encoded [User].
type HTTPAuthClient struct {
	httpClient *http.Client
	refreshURL string
	logoutURL  string
	cookieName string
}

// NewHTTPAuthClient validates the endpoint configuration and returns a ready
// client.
func NewHTTPAuthClient(cfg HTTPAuthClientConfig) (*HTTPAuthClient, error) {
	if cfg.RefreshURL == "" {
		return nil, errors.New("refresh URL required")
	}
	if cfg.LogoutURL == "" {
		return nil, errors.New("logout URL required")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "access_token"
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPAuthClient{
		httpClient: client,
		refreshURL: cfg.RefreshURL,
		logoutURL:  cfg.LogoutURL,
		cookieName: cfg.CookieName,
	}, nil
}

// Refresh POSTs to the refresh endpoint with the ambient session cookie and
// decodes the returned user. 401 maps to [ErrSessionExpired]; any other
// failure is a complete refresh failure.
func (c *HTTPAuthClient) Refresh(ctx context.Context) (User, error) {
	sessionID := sessionIDFromContext(ctx)
	if sessionID == "" {
		return User{}, ErrNoSession
	}

	resp, err := c.post(ctx, c.refreshURL, sessionID)
	if err != nil {
		return User{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return User{}, ErrSessionExpired
	case resp.StatusCode != http.StatusOK:
		return User{}, fmt.Errorf("%w: unexpected status %d", ErrRefreshFailed, resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxRefreshBody)).Decode(&user); err != nil {
		return User{}, fmt.Errorf("%w: decode user: %w", ErrRefreshFailed, err)
	}
	return user, nil
}

// Invalidate POSTs to the logout endpoint. A missing session identifier is
// not an error: there is nothing to invalidate.
func (c *HTTPAuthClient) Invalidate(ctx context.Context) error {
	sessionID := sessionIDFromContext(ctx)
	if sessionID == "" {
		return nil
	}

	resp, err := c.post(ctx, c.logoutURL, sessionID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidateFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxRefreshBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status %d", ErrInvalidateFailed, resp.StatusCode)
	}
	return nil
}

func (c *HTTPAuthClient) post(ctx context.Context, url, sessionID string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}
	req.AddCookie(&http.Cookie{Name: c.cookieName, Value: sessionID})
	return c.httpClient.Do(req)
}
