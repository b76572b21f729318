// Package cavaauth provides session bootstrap and role-based route authorization
// for the CAVA stone-trade platform: a cookie-driven redirect router, per-surface
// route guards, and a process-wide session store with de-duplicated refresh.
//
// The package is designed for concurrent server workloads: Store methods are safe
// to call from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// cavaauth is the public surface. It exposes [Store], [Builder], [Config], the
// [AuthClient] collaborator interfaces, and value types (State, User,
// MetricsSnapshot). Route policy lives in routes/, token inspection in token/,
// HTTP adapters in middleware/, and audit dispatch under internal/.
//
// # What this package must NOT do
//
//   - Issue, sign, or verify credentials; refresh and logout endpoints are
//     consumed as collaborators, never implemented here.
//   - Expose Redis clients, dispatch internals, or encoding details in its
//     public API.
//   - Import any sub-package that re-imports cavaauth (no import cycles).
//
// # Performance contract
//
// State and HasPermission are the hot path. They must not allocate beyond the
// returned snapshot and never touch the network. Refresh is allowed exactly one
// collaborator round-trip regardless of how many callers await it.
package cavaauth
