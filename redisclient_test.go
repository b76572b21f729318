package cavaauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/thiagomes07/cava-auth/session"
)

func newRedisClientTest(t *testing.T) (*RedisAuthClient, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	sessions := session.NewStore(rdb, "cs")
	return NewRedisAuthClient(sessions, time.Hour), mr
}

func TestRedisEstablishRefreshRoundTrip(t *testing.T) {
	client, _ := newRedisClientTest(t)
	ctx := context.Background()

	user := User{ID: "u-1", Role: RoleAdminIndustria, IndustrySlug: "acme"}
	sessionID, err := client.Establish(ctx, user)
	if err != nil {
		t.Fatalf("establish: %v", err)
	}
	if sessionID == "" {
		t.Fatal("empty session id")
	}

	got, err := client.Refresh(WithSessionID(ctx, sessionID))
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got != user {
		t.Fatalf("user = %+v, want %+v", got, user)
	}
}

// The gateway stores a JWT in the access_token cookie whose subject names the
// session record; the client must resolve it the same as a raw session ID.
func TestRedisRefreshResolvesTokenSubject(t *testing.T) {
	client, _ := newRedisClientTest(t)
	ctx := context.Background()

	user := User{ID: "u-1", Role: RoleBroker}
	sessionID, err := client.Establish(ctx, user)
	if err != nil {
		t.Fatalf("establish: %v", err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("gateway-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	got, err := client.Refresh(WithSessionID(ctx, accessToken))
	if err != nil {
		t.Fatalf("refresh via token subject: %v", err)
	}
	if got != user {
		t.Fatalf("user = %+v, want %+v", got, user)
	}

	if err := client.Invalidate(WithSessionID(ctx, accessToken)); err != nil {
		t.Fatalf("invalidate via token subject: %v", err)
	}
	if _, err := client.Refresh(WithSessionID(ctx, sessionID)); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Refresh() after invalidate = %v, want ErrSessionExpired", err)
	}
}

func TestRedisEstablishRejectsInvalidUser(t *testing.T) {
	client, _ := newRedisClientTest(t)

	_, err := client.Establish(context.Background(), User{ID: "u-1", Role: RoleAdminIndustria})
	if !errors.Is(err, ErrIncompleteSession) {
		t.Fatalf("Establish() = %v, want ErrIncompleteSession", err)
	}
}

func TestRedisRefreshUnknownSession(t *testing.T) {
	client, _ := newRedisClientTest(t)

	_, err := client.Refresh(WithSessionID(context.Background(), "missing"))
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Refresh() = %v, want ErrSessionExpired", err)
	}
}

func TestRedisRefreshWithoutSession(t *testing.T) {
	client, _ := newRedisClientTest(t)

	_, err := client.Refresh(context.Background())
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("Refresh() = %v, want ErrNoSession", err)
	}
}

func TestRedisInvalidateEndsSession(t *testing.T) {
	client, _ := newRedisClientTest(t)
	ctx := context.Background()

	sessionID, err := client.Establish(ctx, User{ID: "u-1", Role: RoleBroker})
	if err != nil {
		t.Fatalf("establish: %v", err)
	}

	if err := client.Invalidate(WithSessionID(ctx, sessionID)); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := client.Refresh(WithSessionID(ctx, sessionID)); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Refresh() after invalidate = %v, want ErrSessionExpired", err)
	}

	// Idempotent, and safe without a session.
	if err := client.Invalidate(WithSessionID(ctx, sessionID)); err != nil {
		t.Fatalf("second invalidate: %v", err)
	}
	if err := client.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate without session: %v", err)
	}
}

func TestRedisStoreIntegration(t *testing.T) {
	client, _ := newRedisClientTest(t)
	ctx := context.Background()

	sessionID, err := client.Establish(ctx, User{ID: "u-1", Role: RoleBroker})
	if err != nil {
		t.Fatalf("establish: %v", err)
	}

	store, err := New().WithAuthClient(client).Build()
	if err != nil {
		t.Fatalf("build store: %v", err)
	}
	t.Cleanup(store.Close)

	if err := store.Bootstrap(WithSessionID(ctx, sessionID)); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	state := store.State()
	if !state.IsAuthenticated || state.User.ID != "u-1" {
		t.Fatalf("unexpected state: %+v", state)
	}
}
