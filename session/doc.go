// Package session provides Redis-backed persistence for server-side session
// records and a compact versioned encoding for them.
//
// A [Record] is the platform auth service's view of one signed-in browser
// session: who the principal is, their role, and the tenant slug for
// industry-scoped roles. The gateway's refresh endpoint answers from this
// registry; logout deletes from it.
//
// # Encoding
//
// Records are stored as a compact binary format (schema v1–v2) with forward
// migration on read. The encoder is append-only: new versions add fields but
// never reinterpret old ones.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations) and the [Record] model. It
// does NOT inspect tokens, evaluate route permissions, or decide redirects;
// those responsibilities belong to token, routes, and middleware.
//
// # What this package must NOT do
//
//   - Import cavaauth, token, or routes (no upward imports).
//   - Issue or verify session tokens.
//   - Make authorization decisions.
package session
