package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// ErrNoToken is returned by IssueToken when the backend accepts the
// credentials but its reply carries no access_token.
var ErrNoToken = errors.New("backend: no access token in response")

// ErrInvalidRegistration is returned by Register, without calling the backend,
// for a payload with an unknown level or profile.
var ErrInvalidRegistration = errors.New("backend: invalid registration")

// StatusError is a completed backend call that answered with a non-2xx status.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: HTTP %d", e.Status)
	}
	return fmt.Sprintf("backend: HTTP %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusUnauthorized
}

// statusError builds a StatusError from a non-2xx reply. JSON bodies yield
// their "detail" field; anything else is used as plain text.
func statusError(resp *Response) *StatusError {
	return &StatusError{Status: resp.Status, Message: detailMessage(resp)}
}

func detailMessage(resp *Response) string {
	if isJSON(resp.ContentType) {
		var payload struct {
			Detail json.RawMessage `json:"detail"`
		}
		if err := json.Unmarshal(resp.Body, &payload); err == nil && len(payload.Detail) > 0 {
			var text string
			if err := json.Unmarshal(payload.Detail, &text); err == nil {
				return text
			}
			// Validation errors arrive as a list; keep them readable as JSON.
			return string(payload.Detail)
		}
	}
	return strings.TrimSpace(string(resp.Body))
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "json")
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
