package handler

import (
	"net/http"
	"net/url"
	"strings"
)

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// DefaultNext is the landing page after login when no valid next is given.
const DefaultNext = "/role-play"

var publicPaths = map[string]struct{}{
	"/login":       {},
	"/sign-up":     {},
	"/favicon.ico": {},
	"/robots.txt":  {},
	"/health":      {},
}

var publicPrefixes = []string{"/static", "/frontend-api"}

// IsPublicPath reports whether path is reachable without a session cookie.
func IsPublicPath(path string) bool {
	if _, ok := publicPaths[path]; ok {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// LoginRedirectURL is the login page URL that returns to path afterwards.
func LoginRedirectURL(path string) string {
	return LoginPath + "?next=" + url.QueryEscape(path)
}

// SafeNext returns next when it is a same-site absolute path, else DefaultNext.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return DefaultNext
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return DefaultNext
	}
	if next == LoginPath || strings.HasPrefix(next, LoginPath+"?") {
		return DefaultNext
	}
	return next
}

// Gate redirects page requests without the session cookie to the login page.
// It only checks presence; validity is the backend's call.
func Gate(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if c, err := r.Cookie(cookieName); err != nil || c.Value == "" {
				http.Redirect(w, r, LoginRedirectURL(r.URL.Path), http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
