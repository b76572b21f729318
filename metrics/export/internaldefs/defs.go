package internaldefs

import (
	cavaauth "github.com/thiagomes07/cava-auth"
)

// CounterDef defines a public type used by cavaauth APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   cavaauth.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by cavaauth APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   cavaauth.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session engine.
var CounterDefs = []CounterDef{
	{ID: cavaauth.MetricLoginSuccess, Name: "cavaauth_login_success_total", Help: "Successful login installs."},
	{ID: cavaauth.MetricLoginRejected, Name: "cavaauth_login_rejected_total", Help: "Logins rejected by session validation."},
	{ID: cavaauth.MetricLogout, Name: "cavaauth_logout_total", Help: "Logout operations."},
	{ID: cavaauth.MetricRefreshSuccess, Name: "cavaauth_refresh_success_total", Help: "Successful refresh resolutions."},
	{ID: cavaauth.MetricRefreshFailure, Name: "cavaauth_refresh_failure_total", Help: "Failed refresh resolutions."},
	{ID: cavaauth.MetricRefreshDeduplicated, Name: "cavaauth_refresh_deduplicated_total", Help: "Refresh callers that joined an in-flight call."},
	{ID: cavaauth.MetricBootstrapSkipped, Name: "cavaauth_bootstrap_skipped_total", Help: "Bootstrap calls on an already-authenticated store."},
	{ID: cavaauth.MetricSessionExpired, Name: "cavaauth_session_expired_total", Help: "Refresh failures caused by an expired session."},
	{ID: cavaauth.MetricRedirectIssued, Name: "cavaauth_redirect_issued_total", Help: "Redirects issued by the request-time router."},
	{ID: cavaauth.MetricGuardAllowed, Name: "cavaauth_guard_allowed_total", Help: "Requests admitted by a route guard."},
	{ID: cavaauth.MetricGuardDenied, Name: "cavaauth_guard_denied_total", Help: "Requests redirected away by a route guard."},
}

// HistogramDefs is an exported constant or variable used by the session engine.
var HistogramDefs = []HistogramDef{
	{ID: cavaauth.MetricRefreshLatency, Name: "cavaauth_refresh_latency_seconds", Help: "Refresh latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed width.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into cumulative counts.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
