package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpirySkew is subtracted from the token's remaining lifetime before the
// liveness decision. It absorbs clock drift between inspection and use.
const ExpirySkew = 5 * time.Second

// IsExpired reports whether tok is unusable as a session artifact. Malformed,
// empty, or claim-less tokens are expired by definition.
//
// IsExpired is pure and safe to call from any execution context, including
// pre-render request handling where no client state exists yet.
func IsExpired(tok string) bool {
	return isExpiredAt(tok, time.Now())
}

// ExpiresAt returns the token's expiry instant. ok is false when the token
// cannot be decoded or carries no expiry claim.
func ExpiresAt(tok string) (exp time.Time, ok bool) {
	claims, err := decodeClaims(tok)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Subject returns the token's subject claim, or "" when the token cannot be
// decoded or carries none. The gateway binds access tokens to their
// server-side session record through this claim.
func Subject(tok string) string {
	claims, err := decodeClaims(tok)
	if err != nil {
		return ""
	}
	return claims.Subject
}

func isExpiredAt(tok string, now time.Time) bool {
	claims, err := decodeClaims(tok)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return !claims.ExpiresAt.Time.After(now.Add(ExpirySkew))
}

func decodeClaims(tok string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	// ParseUnverified decodes the claims segment without a key. Expiry is
	// checked by the caller so that the skew window stays in one place.
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
