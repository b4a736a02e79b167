/*
Package token inspects backend-issued bearer tokens.

Tokens are opaque to this service and are never verified here: the backend is
the only authority. When a token happens to be a JWT, its exp claim is read so
the session cookie never outlives the token it carries.
*/
package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

// Expiry returns the token's exp claim. ok is false for non-JWT tokens or tokens without exp.
func Expiry(raw string) (exp time.Time, ok bool) {
	if strings.Count(raw, ".") != 2 {
		return time.Time{}, false
	}

	claims := &jwt.StandardClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}

	if claims.ExpiresAt == 0 {
		return time.Time{}, false
	}

	return time.Unix(claims.ExpiresAt, 0), true
}

// MaxAge bounds ceiling by the token's remaining lifetime at now.
// When less than a second remains by the local clock, ceiling is returned
// with ok false: the backend, not this clock, decides whether the token is
// still valid.
func MaxAge(raw string, ceiling time.Duration, now time.Time) (maxAge time.Duration, ok bool) {
	exp, hasExp := Expiry(raw)
	if !hasExp {
		return ceiling, true
	}

	remaining := exp.Sub(now).Truncate(time.Second)
	if remaining <= 0 {
		return ceiling, false
	}
	if remaining < ceiling {
		return remaining, true
	}
	return ceiling, true
}
