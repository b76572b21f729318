// Package middleware exposes HTTP adapters for the cavaauth routing policy:
// the cookie-driven request-time [Router] and the per-surface [Guard].
//
// # Components
//
//   - [Router]: pure redirect decision over the three session cookies,
//     evaluated before any protected content is produced.
//   - [Guard]: per-surface state machine (checking, then unauthorized or
//     authorized) that bootstraps the session store at most once per guard
//     instance and re-validates role access on every request.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into store and routes calls. It does
// NOT implement routing policy itself; the permission matrix and the default
// route table live in routes/, session state in cavaauth.
//
// # What this package must NOT do
//
//   - Inspect token signatures (token/ owns liveness, nothing verifies here).
//   - Write protected content before a guard decision resolves.
//   - Make authorization decisions beyond what the matrix and store report.
package middleware
