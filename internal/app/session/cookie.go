/*
Package session caches the backend-issued bearer token in an HttpOnly cookie and
implements the Issue and Revoke operations shared by the JSON endpoint and the
server-rendered login and logout forms.

The cookie's presence is a hint, not proof: only the backend can tell whether
the token is still valid.
*/
package session

import (
	"net/http"
	"time"

	"eptweb/internal/pkg/auth/token"
)

// CookieConfig holds the session cookie attributes.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Token returns the session token carried by r, or "" when absent.
func (cc CookieConfig) Token(r *http.Request) string {
	c, err := r.Cookie(cc.Name)
	if err != nil {
		return ""
	}
	return c.Value
}

// Set stores tok. Max-Age is the configured ceiling, shortened to the
// token's own expiry when it is a JWT. The cookie is always written; Set
// reports false when the token already looks expired by the local clock.
func (cc CookieConfig) Set(w http.ResponseWriter, tok string, now time.Time) bool {
	maxAge, ok := token.MaxAge(tok, cc.MaxAge, now)
	http.SetCookie(w, cc.cookie(tok, int(maxAge/time.Second)))
	return ok
}

// Clear deletes the cookie on the client.
func (cc CookieConfig) Clear(w http.ResponseWriter) {
	http.SetCookie(w, cc.cookie("", -1))
}

func (cc CookieConfig) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     cc.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
