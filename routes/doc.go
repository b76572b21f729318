// Package routes holds the role × route permission matrix and the locale path
// rules shared by request-time redirect decisions and post-bootstrap guards.
//
// # Fail-closed policy
//
// An unknown or unregistered role has no accessible routes. DefaultRouteFor is
// total: any unrecognized role resolves to the login path, never a panic,
// because it sits on redirect decision paths.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O. A [Matrix] is
// mutable during construction, frozen before use, and immutable thereafter.
// Every guard and router delegates here so the prefix lists exist in exactly
// one place.
//
// # What this package must NOT do
//
//   - Access the network, cookies, or any store.
//   - Import cavaauth, token, or session (no upward imports).
//   - Accept new roles after Freeze.
package routes
