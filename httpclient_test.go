package cavaauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newRefreshServer(t *testing.T, user User, wantCookie string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("access_token")
		if err != nil || cookie.Value != wantCookie {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(user)
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newHTTPClientTest(t *testing.T, srv *httptest.Server) *HTTPAuthClient {
	t.Helper()

	client, err := NewHTTPAuthClient(HTTPAuthClientConfig{
		RefreshURL: srv.URL + "/auth/refresh",
		LogoutURL:  srv.URL + "/auth/logout",
	})
	if err != nil {
		t.Fatalf("new http client: %v", err)
	}
	return client
}

func TestHTTPRefreshRoundTrip(t *testing.T) {
	want := User{ID: "u-1", Role: RoleVendedorInterno, IndustrySlug: "acme"}
	srv := newRefreshServer(t, want, "tok-1")
	client := newHTTPClientTest(t, srv)

	got, err := client.Refresh(WithSessionID(context.Background(), "tok-1"))
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got != want {
		t.Fatalf("user = %+v, want %+v", got, want)
	}
}

func TestHTTPRefreshUnauthorized(t *testing.T) {
	srv := newRefreshServer(t, User{}, "tok-1")
	client := newHTTPClientTest(t, srv)

	_, err := client.Refresh(WithSessionID(context.Background(), "wrong"))
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Refresh() = %v, want ErrSessionExpired", err)
	}
}

func TestHTTPRefreshWithoutSession(t *testing.T) {
	srv := newRefreshServer(t, User{}, "tok-1")
	client := newHTTPClientTest(t, srv)

	_, err := client.Refresh(context.Background())
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("Refresh() = %v, want ErrNoSession", err)
	}
}

func TestHTTPRefreshServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPAuthClient(HTTPAuthClientConfig{
		RefreshURL: srv.URL,
		LogoutURL:  srv.URL,
	})
	if err != nil {
		t.Fatalf("new http client: %v", err)
	}

	_, err = client.Refresh(WithSessionID(context.Background(), "tok"))
	if !errors.Is(err, ErrRefreshFailed) {
		t.Fatalf("Refresh() = %v, want ErrRefreshFailed", err)
	}
}

func TestHTTPInvalidate(t *testing.T) {
	srv := newRefreshServer(t, User{}, "tok-1")
	client := newHTTPClientTest(t, srv)

	if err := client.Invalidate(WithSessionID(context.Background(), "tok-1")); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	// Nothing to invalidate without a session.
	if err := client.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate without session: %v", err)
	}
}

func TestHTTPClientConfigValidation(t *testing.T) {
	if _, err := NewHTTPAuthClient(HTTPAuthClientConfig{LogoutURL: "http://x"}); err == nil {
		t.Fatal("expected error without refresh URL")
	}
	if _, err := NewHTTPAuthClient(HTTPAuthClientConfig{RefreshURL: "http://x"}); err == nil {
		t.Fatal("expected error without logout URL")
	}
}
