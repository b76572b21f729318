package cavaauth

import "context"

type sessionIDContextKey struct{}
type clientIPContextKey struct{}
type localeContextKey struct{}

// WithSessionID attaches the caller's session identifier to ctx. The shipped
// [AuthClient] implementations read it: [HTTPAuthClient] forwards it as the
// session cookie, [RedisAuthClient] resolves it against the session registry.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDContextKey{}, sessionID)
}

// WithClientIP attaches the caller's IP address to ctx. The store includes it
// in audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// WithLocale attaches the caller's locale to ctx. Middleware uses it to build
// locale-prefixed redirect targets.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeContextKey{}, locale)
}

func sessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	sessionID, _ := ctx.Value(sessionIDContextKey{}).(string)
	return sessionID
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}

// LocaleFromContext returns the locale attached by [WithLocale], or "" when
// none is set.
func LocaleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	locale, _ := ctx.Value(localeContextKey{}).(string)
	return locale
}
