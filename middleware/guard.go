package middleware

import (
	"context"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	cavaauth "github.com/thiagomes07/cava-auth"
	"github.com/thiagomes07/cava-auth/routes"
)

// GuardState is the resolution of a guard check.
type GuardState int32

const (
	// StateChecking means the session is still resolving; no protected
	// content may be produced.
	StateChecking GuardState = iota
	// StateUnauthorized means the request must be redirected away.
	StateUnauthorized
	// StateAuthorized means the wrapped handler may serve.
	StateAuthorized
)

// CheckResult carries a guard decision. Redirect is set only for
// [StateUnauthorized].
type CheckResult struct {
	State    GuardState
	Redirect string
}

// Guard protects one surface. It triggers the store's bootstrap at most once
// per guard instance; concurrent and repeated checks observe the shared
// resolution instead of starting new refresh calls.
type Guard struct {
	store   *cavaauth.Store
	allowed []cavaauth.Role
	logger  *zap.Logger

	attempted atomic.Bool
}

// NewGuard creates a guard admitting only the given roles. An empty role set
// admits any authenticated user. logger may be nil.
func NewGuard(store *cavaauth.Store, logger *zap.Logger, allowed ...cavaauth.Role) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		store:   store,
		allowed: allowed,
		logger:  logger,
	}
}

// Check runs the guard state machine for path. The first call on a guard
// instance bootstraps the store; later calls only await whatever refresh is
// already in flight. Unauthorized resolutions carry the redirect target: login
// when there is no user, the role's own default route when the user lacks
// this surface.
func (g *Guard) Check(ctx context.Context, path string) CheckResult {
	if g.attempted.CompareAndSwap(false, true) {
		if err := g.store.Bootstrap(ctx); err != nil {
			g.logger.Debug("guard bootstrap failed", zap.Error(err))
		}
	} else if err := g.store.Await(ctx); err != nil {
		g.logger.Debug("guard await failed", zap.Error(err))
	}

	state := g.store.State()
	if state.IsLoading {
		return CheckResult{State: StateChecking}
	}
	if state.User == nil {
		return CheckResult{State: StateUnauthorized, Redirect: routes.PathLogin}
	}
	if !g.store.HasPermission(g.allowed...) || !g.store.CanAccess(path) {
		return CheckResult{
			State:    StateUnauthorized,
			Redirect: routes.DefaultRouteFor(string(state.User.Role)),
		}
	}
	return CheckResult{State: StateAuthorized}
}

// Protect wraps next so it only serves authorized requests. Nothing is
// written before the decision resolves; unauthorized requests get a 302 with
// a locale-prefixed target.
func (g *Guard) Protect(next http.Handler) http.Handler {
	cookies := g.store.Cookies()
	locales := g.store.Locales()
	metrics := g.store.Metrics()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if value := cookieValue(r, cookies.AccessToken); value != "" {
			ctx = cavaauth.WithSessionID(ctx, value)
		}
		ctx = cavaauth.WithClientIP(ctx, clientIP(r))

		locale, _ := locales.Split(r.URL.Path)
		result := g.Check(ctx, r.URL.Path)

		switch result.State {
		case StateAuthorized:
			metrics.Inc(cavaauth.MetricGuardAllowed)
			next.ServeHTTP(w, r.WithContext(ctx))
		case StateChecking:
			// Resolution was interrupted (caller cancellation); the client
			// may retry once the shared refresh settles.
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			target := result.Redirect
			if target != routes.PathLogin {
				target = locales.Localize(locale, target)
			}
			metrics.Inc(cavaauth.MetricGuardDenied)
			g.logger.Debug("guard denied",
				zap.String("path", r.URL.Path),
				zap.String("target", target),
			)
			http.Redirect(w, r, target, http.StatusFound)
		}
	})
}
