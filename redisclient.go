package cavaauth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/thiagomes07/cava-auth/session"
	"github.com/thiagomes07/cava-auth/token"
)

// RedisAuthClient is an [AuthClient] backed by the in-cluster session
// registry. Refresh resolves the ambient session identifier against the
// registry; Invalidate deletes the record. This is the client the gateway
// deploys.
type RedisAuthClient struct {
	sessions *session.Store
	ttl      time.Duration
}

// NewRedisAuthClient wraps a [session.Store]. ttl bounds the lifetime of
// sessions created through [RedisAuthClient.Establish].
func NewRedisAuthClient(sessions *session.Store, ttl time.Duration) *RedisAuthClient {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisAuthClient{
		sessions: sessions,
		ttl:      ttl,
	}
}

// Refresh looks up the ambient session record and maps it to a [User].
// A missing or expired record maps to [ErrSessionExpired].
func (c *RedisAuthClient) Refresh(ctx context.Context) (User, error) {
	sessionID := c.sessionKey(ctx)
	if sessionID == "" {
		return User{}, ErrNoSession
	}

	rec, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrRecordNotFound) {
			return User{}, ErrSessionExpired
		}
		return User{}, err
	}

	return User{
		ID:           rec.UserID,
		Role:         Role(rec.Role),
		IndustrySlug: rec.IndustrySlug,
	}, nil
}

// Invalidate deletes the ambient session record. A missing identifier is not
// an error.
func (c *RedisAuthClient) Invalidate(ctx context.Context) error {
	sessionID := c.sessionKey(ctx)
	if sessionID == "" {
		return nil
	}
	return c.sessions.Delete(ctx, sessionID)
}

// sessionKey resolves the registry key from the ambient session identifier.
// The gateway's access_token cookie is a JWT whose subject names the session
// record, so a decodable subject claim takes precedence over the raw value.
func (c *RedisAuthClient) sessionKey(ctx context.Context) string {
	sessionID := sessionIDFromContext(ctx)
	if sub := token.Subject(sessionID); sub != "" {
		return sub
	}
	return sessionID
}

// Establish creates a server-side session record for user and returns the
// generated session identifier. The gateway calls this from its login
// endpoint after the upstream identity provider has authenticated the user.
func (c *RedisAuthClient) Establish(ctx context.Context, user User) (string, error) {
	if err := user.Validate(); err != nil {
		return "", err
	}

	now := time.Now()
	rec := &session.Record{
		SessionID:     uuid.NewString(),
		UserID:        user.ID,
		Role:          string(user.Role),
		IndustrySlug:  user.IndustrySlug,
		SchemaVersion: session.CurrentSchemaVersion,
		CreatedAt:     now.Unix(),
		ExpiresAt:     now.Add(c.ttl).Unix(),
	}

	if err := c.sessions.Save(ctx, rec, c.ttl); err != nil {
		return "", err
	}
	return rec.SessionID, nil
}
