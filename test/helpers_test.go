//go:build integration
// +build integration

package test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	cavaauth "github.com/thiagomes07/cava-auth"
	"github.com/thiagomes07/cava-auth/session"
)

func newIntegrationBackend(t *testing.T) (*cavaauth.RedisAuthClient, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := session.NewStore(rdb, "cs")
	client := cavaauth.NewRedisAuthClient(sessions, time.Hour)

	return client, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func newIntegrationStore(t *testing.T, client cavaauth.AuthClient) *cavaauth.Store {
	t.Helper()

	store, err := cavaauth.New().
		WithAuthClient(client).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("store build failed: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func establishSession(t *testing.T, client *cavaauth.RedisAuthClient, user cavaauth.User) string {
	t.Helper()

	sid, err := client.Establish(context.Background(), user)
	if err != nil {
		t.Fatalf("establish session failed: %v", err)
	}
	return sid
}
