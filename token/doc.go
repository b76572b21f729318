// Package token inspects session access tokens for liveness without verifying
// signatures. It exists so that redirect decisions can be made before any
// authenticated client state is available.
//
// # Fail-closed policy
//
// A token that cannot be decoded, carries no expiry claim, or expires within
// the clock-skew window is reported as expired. An unreadable token must never
// be treated as valid.
//
// # Architecture boundaries
//
// This package reads the claims segment only. It does NOT verify signatures,
// issue tokens, or consult any store; signature verification belongs to the
// platform's auth service, which issued the token.
//
// # What this package must NOT do
//
//   - Perform I/O or touch shared state.
//   - Accept a token as live on any parse ambiguity.
//   - Import cavaauth, routes, or session (no upward imports).
package token
