package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"

	"eptweb/internal/app/backend"
	"eptweb/internal/pkg/errs"
	"eptweb/internal/pkg/req"
)

type fakeAuth struct {
	token     string
	issueErr  error
	revokeErr error

	issued  int
	revoked []string
}

func (f *fakeAuth) IssueToken(_ context.Context, _, _ string) (string, error) {
	f.issued++
	return f.token, f.issueErr
}

func (f *fakeAuth) RevokeToken(_ context.Context, tok string) error {
	f.revoked = append(f.revoked, tok)
	return f.revokeErr
}

var testCookie = CookieConfig{Name: "ept.token", MaxAge: time.Hour, Secure: true}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie.Name {
			return c
		}
	}
	return nil
}

func TestIssue(t *testing.T) {
	creds := req.Credentials{Username: "ana", Password: "pw"}

	t.Run("blank credentials never reach backend", func(t *testing.T) {
		auth := &fakeAuth{token: "tok"}
		svc := NewService(auth, testCookie)

		for _, c := range []req.Credentials{{}, {Username: "ana"}, {Username: "  ", Password: "pw"}} {
			customErr := svc.Issue(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), c)
			if customErr == nil || customErr.Status != http.StatusBadRequest || customErr.Code != errs.ErrMissingCredentials {
				t.Errorf("Issue(%+v) = %v, want 400 missing credentials", c, customErr)
			}
		}
		if auth.issued != 0 {
			t.Errorf("backend called %d times", auth.issued)
		}
	})

	t.Run("success sets hardened cookie", func(t *testing.T) {
		svc := NewService(&fakeAuth{token: "opaque-token"}, testCookie)
		rec := httptest.NewRecorder()

		if customErr := svc.Issue(rec, httptest.NewRequest(http.MethodPost, "/", nil), creds); customErr != nil {
			t.Fatalf("Issue() = %v", customErr)
		}

		c := sessionCookie(t, rec)
		if c == nil || c.Value != "opaque-token" {
			t.Fatalf("cookie = %+v", c)
		}
		if !c.HttpOnly || !c.Secure || c.Path != "/" || c.SameSite != http.SameSiteLaxMode || c.MaxAge != 3600 {
			t.Errorf("cookie attributes = %+v", c)
		}
	})

	t.Run("jwt expiry shortens cookie", func(t *testing.T) {
		now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{ExpiresAt: now.Add(10 * time.Minute).Unix()}).SignedString([]byte("k"))

		svc := NewService(&fakeAuth{token: tok}, testCookie)
		svc.now = func() time.Time { return now }
		rec := httptest.NewRecorder()

		if customErr := svc.Issue(rec, httptest.NewRequest(http.MethodPost, "/", nil), creds); customErr != nil {
			t.Fatalf("Issue() = %v", customErr)
		}
		if c := sessionCookie(t, rec); c == nil || c.MaxAge != 600 {
			t.Errorf("cookie = %+v, want Max-Age 600", c)
		}
	})

	t.Run("token expired by local clock still sets cookie", func(t *testing.T) {
		now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{ExpiresAt: now.Add(-10 * time.Second).Unix()}).SignedString([]byte("k"))

		svc := NewService(&fakeAuth{token: tok}, testCookie)
		svc.now = func() time.Time { return now }
		rec := httptest.NewRecorder()

		if customErr := svc.Issue(rec, httptest.NewRequest(http.MethodPost, "/", nil), creds); customErr != nil {
			t.Fatalf("Issue() = %v, want success", customErr)
		}
		if c := sessionCookie(t, rec); c == nil || c.Value != tok || c.MaxAge != 3600 {
			t.Errorf("cookie = %+v, want token with Max-Age 3600", c)
		}
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"backend rejection relayed", &backend.StatusError{Status: 401, Message: "Incorrect username or password"}, 401, "Incorrect username or password"},
		{"empty rejection body", &backend.StatusError{Status: 403}, 403, "Invalid credentials"},
		{"missing token", backend.ErrNoToken, 502, "No token received"},
		{"transport failure", errors.New("dial tcp 127.0.0.1:8000: connect: connection refused"), 500, "Backend request failed: dial tcp 127.0.0.1:8000: connect: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeAuth{issueErr: tt.err}, testCookie)
			rec := httptest.NewRecorder()

			customErr := svc.Issue(rec, httptest.NewRequest(http.MethodPost, "/", nil), creds)
			if customErr == nil || customErr.Status != tt.wantStatus || customErr.Message != tt.wantMsg {
				t.Fatalf("Issue() = %+v, want %d %q", customErr, tt.wantStatus, tt.wantMsg)
			}
			if c := sessionCookie(t, rec); c != nil {
				t.Errorf("cookie set on failure: %+v", c)
			}
		})
	}
}

func TestRevoke(t *testing.T) {
	tests := []struct {
		name       string
		cookie     string
		revokeErr  error
		wantRevoke bool
	}{
		{"backend ok", "tok", nil, true},
		{"backend failing", "tok", &backend.StatusError{Status: 500}, true},
		{"backend down", "tok", errors.New("connection refused"), true},
		{"no cookie", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{revokeErr: tt.revokeErr}
			svc := NewService(auth, testCookie)

			r := httptest.NewRequest(http.MethodDelete, "/", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: testCookie.Name, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			svc.Revoke(rec, r)

			if got := len(auth.revoked) == 1; got != tt.wantRevoke {
				t.Errorf("backend revoked = %v, want %v", auth.revoked, tt.wantRevoke)
			}
			c := sessionCookie(t, rec)
			if c == nil || c.MaxAge >= 0 || c.Value != "" {
				t.Errorf("cookie not cleared: %+v", c)
			}
		})
	}
}
