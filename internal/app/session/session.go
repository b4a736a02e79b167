package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"eptweb/internal/app/backend"
	"eptweb/internal/pkg/errs"
	"eptweb/internal/pkg/logx"
	"eptweb/internal/pkg/req"
)

// Authenticator is the part of the backend client the session needs.
type Authenticator interface {
	IssueToken(ctx context.Context, username, password string) (string, error)
	RevokeToken(ctx context.Context, token string) error
}

// Service issues and revokes sessions.
type Service struct {
	auth   Authenticator
	cookie CookieConfig
	now    func() time.Time
}

// NewService wires the backend authenticator with the cookie settings.
func NewService(auth Authenticator, cookie CookieConfig) *Service {
	return &Service{auth: auth, cookie: cookie, now: time.Now}
}

// Cookie exposes the cookie settings.
func (s *Service) Cookie() CookieConfig {
	return s.cookie
}

// Token returns the session token carried by r, or "".
func (s *Service) Token(r *http.Request) string {
	return s.cookie.Token(r)
}

// Issue exchanges creds for a token and stores it in the cookie.
// Blank credentials fail before any backend call. The token is never returned.
func (s *Service) Issue(w http.ResponseWriter, r *http.Request, creds req.Credentials) *errs.CustomError {
	if creds.Blank() {
		return errs.NewError(errs.ErrMissingCredentials)
	}

	tok, err := s.auth.IssueToken(r.Context(), creds.Username, creds.Password)
	if err != nil {
		var se *backend.StatusError
		switch {
		case errors.As(err, &se):
			logx.FromRequest(r).Warn().Int("backend_status", se.Status).Msg("Login rejected by backend")
			if se.Message == "" {
				customErr := errs.NewError(errs.ErrInvalidCredentials)
				customErr.Status = errs.Upstream(se.Status, "").Status
				return customErr
			}
			return errs.Upstream(se.Status, se.Message)
		case errors.Is(err, backend.ErrNoToken):
			logx.FromRequest(r).Error().Msg("Backend accepted login without an access token")
			return errs.NewError(errs.ErrNoTokenReceived)
		default:
			logx.FromRequest(r).Error().Err(err).Msg("Login request to backend failed")
			return errs.Transport(err)
		}
	}

	if !s.cookie.Set(w, tok, s.now()) {
		logx.FromRequest(r).Warn().Dur("cookie_max_age", s.cookie.MaxAge).Msg("Token exp is not in the future by the local clock; using the configured cookie lifetime")
	}

	logx.FromRequest(r).Info().Msg("Session issued")
	return nil
}

// Revoke ends the session. Backend failures are logged and swallowed; the
// cookie is cleared regardless.
func (s *Service) Revoke(w http.ResponseWriter, r *http.Request) {
	if tok := s.cookie.Token(r); tok != "" {
		if err := s.auth.RevokeToken(r.Context(), tok); err != nil {
			logx.FromRequest(r).Warn().Err(err).Msg("Backend logout failed; clearing session anyway")
		}
	}

	s.cookie.Clear(w)
}
