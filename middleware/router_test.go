package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	cavaauth "github.com/thiagomes07/cava-auth"
	"github.com/thiagomes07/cava-auth/session"
)

type stubAuthClient struct {
	user User
	err  error
}

// User aliases keep the fixture tables readable.
type User = cavaauth.User

func (s *stubAuthClient) Refresh(ctx context.Context) (User, error) {
	return s.user, s.err
}

func (s *stubAuthClient) Invalidate(ctx context.Context) error {
	return nil
}

func newStoreTest(t *testing.T, client cavaauth.AuthClient) *cavaauth.Store {
	t.Helper()

	store, err := cavaauth.New().
		WithAuthClient(client).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("build store: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestRouterDecide(t *testing.T) {
	store := newStoreTest(t, &stubAuthClient{})
	router := NewRouter(store, nil)

	live := signedToken(t, time.Now().Add(time.Hour))
	expired := signedToken(t, time.Now().Add(-time.Hour))

	cases := []struct {
		name    string
		cookies Cookies
		locale  string
		want    string
	}{
		{"no token", Cookies{}, "", "/landing"},
		{"expired token", Cookies{Token: expired, Role: "SUPER_ADMIN"}, "", "/landing"},
		{"expired token ignores slug", Cookies{Token: expired, Role: "ADMIN_INDUSTRIA", Slug: "acme"}, "", "/landing"},
		{"super admin", Cookies{Token: live, Role: "SUPER_ADMIN"}, "", "/admin"},
		{"industry admin with slug", Cookies{Token: live, Role: "ADMIN_INDUSTRIA", Slug: "acme"}, "", "/acme/dashboard"},
		{"industry admin with slug en", Cookies{Token: live, Role: "ADMIN_INDUSTRIA", Slug: "acme"}, "en", "/en/acme/dashboard"},
		{"seller with slug", Cookies{Token: live, Role: "VENDEDOR_INTERNO", Slug: "granito"}, "", "/granito/dashboard"},
		{"industry admin without slug", Cookies{Token: live, Role: "ADMIN_INDUSTRIA"}, "", "/landing"},
		{"seller without slug", Cookies{Token: live, Role: "VENDEDOR_INTERNO"}, "", "/landing"},
		{"broker", Cookies{Token: live, Role: "BROKER"}, "", "/dashboard"},
		{"broker es", Cookies{Token: live, Role: "BROKER"}, "es", "/es/dashboard"},
		{"unknown role", Cookies{Token: live, Role: "INTRUDER"}, "", "/landing"},
		{"missing role", Cookies{Token: live}, "", "/landing"},
		{"default locale adds no prefix", Cookies{Token: live, Role: "SUPER_ADMIN"}, "pt", "/admin"},
		{"unsupported locale adds no prefix", Cookies{Token: live, Role: "SUPER_ADMIN"}, "fr", "/admin"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := router.Decide(tc.cookies, tc.locale); got != tc.want {
				t.Fatalf("Decide(%+v, %q) = %q, want %q", tc.cookies, tc.locale, got, tc.want)
			}
		})
	}
}

func TestRouterRedirectHandler(t *testing.T) {
	store := newStoreTest(t, &stubAuthClient{})
	router := NewRouter(store, nil)
	handler := router.RedirectHandler()

	live := signedToken(t, time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/en/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: live})
	req.AddCookie(&http.Cookie{Name: "user_role", Value: "ADMIN_INDUSTRIA"})
	req.AddCookie(&http.Cookie{Name: "industry_slug", Value: "acme"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != "/en/acme/dashboard" {
		t.Fatalf("Location = %q, want /en/acme/dashboard", got)
	}
	if got := store.Metrics().Value(cavaauth.MetricRedirectIssued); got != 1 {
		t.Fatalf("MetricRedirectIssued = %d, want 1", got)
	}
}

func subjectToken(t *testing.T, sid string, exp time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{Subject: sid, ExpiresAt: jwt.NewNumericDate(exp)}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// A session established in the registry must survive the full cookie round
// trip: the root redirect lands on the role's surface, and the guard serves
// it. This pins the access_token cookie contract the gateway relies on, a
// session-bound JWT rather than the raw session ID.
func TestRouterRedirectsLiveSessionToSurface(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	authClient := cavaauth.NewRedisAuthClient(session.NewStore(rdb, "cs"), time.Hour)
	sid, err := authClient.Establish(context.Background(), User{ID: "u-1", Role: cavaauth.RoleBroker})
	if err != nil {
		t.Fatalf("establish: %v", err)
	}

	store := newStoreTest(t, authClient)
	accessToken := subjectToken(t, sid, time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: accessToken})
	req.AddCookie(&http.Cookie{Name: "user_role", Value: "BROKER"})

	rec := httptest.NewRecorder()
	NewRouter(store, nil).RedirectHandler().ServeHTTP(rec, req)
	if got := rec.Header().Get("Location"); got != "/dashboard" {
		t.Fatalf("Location = %q, want /dashboard", got)
	}

	guard := NewGuard(store, nil, cavaauth.RoleBroker)
	handler := guard.Protect(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "broker home")
	}))

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: accessToken})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "broker home" {
		t.Fatalf("status = %d body = %q", rec.Code, rec.Body.String())
	}
}

func TestRouterRedirectHandlerNoCookies(t *testing.T) {
	store := newStoreTest(t, &stubAuthClient{})
	handler := NewRouter(store, nil).RedirectHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Location"); got != "/landing" {
		t.Fatalf("Location = %q, want /landing", got)
	}
}
