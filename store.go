package cavaauth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	internalaudit "github.com/thiagomes07/cava-auth/internal/audit"
	"github.com/thiagomes07/cava-auth/routes"
)

// Store holds the process-wide session state: the authenticated user, the
// loading flag, and the single in-flight refresh call that concurrent callers
// share. Build one through [Builder.Build].
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	cfg     Config
	client  AuthClient
	matrix  *routes.Matrix
	metrics *Metrics
	audit   *internalaudit.Dispatcher

	mu       sync.Mutex
	user     *User
	inflight *refreshCall
	closed   bool
}

// refreshCall is the handle concurrent Refresh/Bootstrap callers await.
// err is written exactly once, before done is closed.
type refreshCall struct {
	done chan struct{}
	err  error
}

// State returns a point-in-time snapshot. IsAuthenticated is true exactly when
// User is non-nil; IsLoading is true only while a refresh call is in flight.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{IsLoading: s.inflight != nil}
	if s.user != nil {
		u := *s.user
		st.User = &u
		st.IsAuthenticated = true
	}
	return st
}

// Login installs an authenticated user. Users with unknown roles, and
// industry-scoped users without a tenant slug, are rejected and leave the
// store unauthenticated.
func (s *Store) Login(ctx context.Context, user User) error {
	if err := user.Validate(); err != nil {
		s.metrics.Inc(MetricLoginRejected)
		s.emitAudit(ctx, auditEventLoginRejected, false, &user, err, nil)
		return err
	}

	s.mu.Lock()
	u := user
	s.user = &u
	s.mu.Unlock()

	s.metrics.Inc(MetricLoginSuccess)
	s.emitAudit(ctx, auditEventLoginSuccess, true, &user, nil, nil)
	return nil
}

// Logout clears the local session state immediately and invalidates the
// server-side session in the background. The local clear never waits on the
// network.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	prev := s.user
	s.user = nil
	s.mu.Unlock()

	s.metrics.Inc(MetricLogout)
	s.emitAudit(ctx, auditEventLogout, true, prev, nil, nil)

	if s.client == nil {
		return
	}

	detached := s.detach(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, s.cfg.Refresh.Timeout)
		defer cancel()
		if err := s.client.Invalidate(ctx); err != nil {
			s.emitAudit(ctx, auditEventInvalidateFailure, false, prev,
				fmt.Errorf("%w: %w", ErrInvalidateFailed, err), nil)
		}
	}()
}

// Refresh revalidates the session against the AuthClient. When a refresh is
// already in flight the caller joins it: exactly one collaborator call runs
// no matter how many goroutines ask, and all of them observe the same
// resolution. Failure clears the session and returns a single error.
func (s *Store) Refresh(ctx context.Context) error {
	call, started := s.joinRefresh(ctx)
	if call == nil {
		return ErrStoreClosed
	}
	if !started {
		s.metrics.Inc(MetricRefreshDeduplicated)
	}

	select {
	case <-call.done:
		return call.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Bootstrap establishes the initial session state: a no-op when already
// authenticated, otherwise it awaits the current refresh or starts one.
func (s *Store) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	if s.user != nil && s.inflight == nil {
		s.mu.Unlock()
		s.metrics.Inc(MetricBootstrapSkipped)
		return nil
	}
	s.mu.Unlock()

	return s.Refresh(ctx)
}

func (s *Store) joinRefresh(ctx context.Context) (call *refreshCall, started bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false
	}
	if s.inflight != nil {
		return s.inflight, false
	}

	call = &refreshCall{done: make(chan struct{})}
	s.inflight = call

	go s.runRefresh(s.detach(ctx), call)
	return call, true
}

func (s *Store) runRefresh(ctx context.Context, call *refreshCall) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Refresh.Timeout)
	defer cancel()

	start := time.Now()
	user, err := s.client.Refresh(ctx)
	s.metrics.Observe(MetricRefreshLatency, time.Since(start))

	if err == nil {
		err = user.Validate()
	}
	if err != nil && !errors.Is(err, ErrRefreshFailed) {
		err = fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	s.mu.Lock()
	if err != nil {
		s.user = nil
	} else {
		u := user
		s.user = &u
	}
	call.err = err
	s.inflight = nil
	s.mu.Unlock()

	if err != nil {
		s.metrics.Inc(MetricRefreshFailure)
		if errors.Is(err, ErrSessionExpired) {
			s.metrics.Inc(MetricSessionExpired)
		}
		s.emitAudit(ctx, auditEventRefreshFailure, false, nil, err, nil)
	} else {
		s.metrics.Inc(MetricRefreshSuccess)
		s.emitAudit(ctx, auditEventRefreshSuccess, true, &user, nil, nil)
	}

	close(call.done)
}

// detach copies the session identity values onto a fresh context so the
// shared call outlives any single caller's cancellation.
func (s *Store) detach(ctx context.Context) context.Context {
	out := context.Background()
	if sid := sessionIDFromContext(ctx); sid != "" {
		out = WithSessionID(out, sid)
	}
	if ip := clientIPFromContext(ctx); ip != "" {
		out = WithClientIP(out, ip)
	}
	if locale := LocaleFromContext(ctx); locale != "" {
		out = WithLocale(out, locale)
	}
	return out
}

// HasPermission reports whether the current user's role is in the allowed
// set. An unauthenticated store never has permission; an empty set admits any
// authenticated user.
func (s *Store) HasPermission(allowed ...Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, role := range allowed {
		if s.user.Role == role {
			return true
		}
	}
	return false
}

// CanAccess reports whether the current user may open path. The locale prefix
// and the user's own tenant slug are stripped before the matrix lookup; a
// foreign slug stays in the path and fails closed.
func (s *Store) CanAccess(path string) bool {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()

	if user == nil {
		return false
	}

	_, rest := s.cfg.Locales.Split(path)
	rest = routes.StripTenant(rest, user.IndustrySlug)
	return s.matrix.CanAccess(string(user.Role), rest)
}

// DefaultRoute returns the landing route for the current user's role, or
// /login when unauthenticated.
func (s *Store) DefaultRoute() string {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()

	if user == nil {
		return routes.PathLogin
	}
	return routes.DefaultRouteFor(string(user.Role))
}

// Matrix returns the frozen permission matrix the store authorizes against.
func (s *Store) Matrix() *routes.Matrix {
	return s.matrix
}

// Locales returns the locale policy used for redirect targets.
func (s *Store) Locales() routes.Locales {
	return s.cfg.Locales
}

// Cookies returns the configured cookie names.
func (s *Store) Cookies() CookieConfig {
	return s.cfg.Cookies
}

// Await blocks until any in-flight refresh resolves and returns its result.
// It never starts a refresh; with nothing in flight it returns nil.
func (s *Store) Await(ctx context.Context) error {
	s.mu.Lock()
	call := s.inflight
	s.mu.Unlock()

	if call == nil {
		return nil
	}

	select {
	case <-call.done:
		return call.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Metrics returns the in-process metrics instance.
func (s *Store) Metrics() *Metrics {
	return s.metrics
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (s *Store) MetricsSnapshot() MetricsSnapshot {
	if s == nil || s.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return s.metrics.Snapshot()
}

// AuditDropped reports audit events discarded due to dispatcher backpressure.
func (s *Store) AuditDropped() uint64 {
	if s == nil {
		return 0
	}
	return s.audit.Dropped()
}

// Close stops the audit dispatcher and rejects further Refresh calls. An
// in-flight refresh is allowed to resolve.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.audit.Close()
}
