package cavaauth

import "errors"

var (
	// ErrNotAuthenticated is an exported constant or variable used by the session engine.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrRefreshFailed is an exported constant or variable used by the session engine.
	ErrRefreshFailed = errors.New("session refresh failed")
	// ErrSessionExpired is an exported constant or variable used by the session engine.
	ErrSessionExpired = errors.New("session expired")
	// ErrUnknownRole is an exported constant or variable used by the session engine.
	ErrUnknownRole = errors.New("unknown role")
	// ErrIncompleteSession is an exported constant or variable used by the session engine.
	ErrIncompleteSession = errors.New("incomplete session: industry slug required")
	// ErrNoSession is an exported constant or variable used by the session engine.
	ErrNoSession = errors.New("no session identifier in context")
	// ErrInvalidateFailed is an exported constant or variable used by the session engine.
	ErrInvalidateFailed = errors.New("session invalidation failed")
	// ErrStoreClosed is an exported constant or variable used by the session engine.
	ErrStoreClosed = errors.New("store closed")
)
