/*
Package req provides helper functions for HTTP request parsing and data binding.

It reads login credentials from URL-encoded, JSON or multipart bodies and
enforces body size limits before any parsing happens.
*/
package req

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"eptweb/internal/pkg/errs"
)

const (
	// MaxFormMemory is the memory ParseMultipartForm may use for non-file parts.
	MaxFormMemory int64 = 1 << 20 // 1 MB

	// MaxBodySize caps every bound request body, including multipart envelopes.
	MaxBodySize int64 = 2 << 20 // 2 MB

	ContentTypeForm      = "application/x-www-form-urlencoded"
	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"
)

// Credentials is a username/password pair submitted by the browser.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Blank reports whether either field is empty after trimming whitespace.
func (c Credentials) Blank() bool {
	return strings.TrimSpace(c.Username) == "" || strings.TrimSpace(c.Password) == ""
}

// MediaType returns the lower-cased media type of the request without parameters.
func MediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(ct, ";", 2)[0]))
	}
	return mt
}

// BindCredentials extracts credentials according to the request Content-Type.
// Unsupported content types yield empty credentials rather than an error,
// leaving the blank-field check to the caller.
func BindCredentials(w http.ResponseWriter, r *http.Request) (Credentials, *errs.CustomError) {
	var creds Credentials

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	switch MediaType(r) {
	case ContentTypeForm:
		if err := r.ParseForm(); err != nil {
			return creds, formError(err)
		}
		creds.Username = r.PostForm.Get("username")
		creds.Password = r.PostForm.Get("password")

	case ContentTypeJSON:
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&creds); err != nil {
			if errors.Is(err, io.EOF) {
				return Credentials{}, nil
			}
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return Credentials{}, errs.NewError(errs.ErrRequestEntityTooLarge)
			}
			return Credentials{}, errs.NewError(errs.ErrInvalidJSONFormat)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return Credentials{}, errs.NewError(errs.ErrExtraContentInBody)
		}

	case ContentTypeMultipart:
		if err := r.ParseMultipartForm(MaxFormMemory); err != nil {
			return creds, formError(err)
		}
		creds.Username = r.PostForm.Get("username")
		creds.Password = r.PostForm.Get("password")
	}

	return creds, nil
}

// ParseForm parses a URL-encoded or multipart form body under the size limit.
// Any other Content-Type is rejected with 415.
func ParseForm(w http.ResponseWriter, r *http.Request) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var err error
	switch MediaType(r) {
	case ContentTypeMultipart:
		err = r.ParseMultipartForm(MaxFormMemory)
	case ContentTypeForm:
		err = r.ParseForm()
	default:
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}
	if err != nil {
		return formError(err)
	}
	return nil
}

// ReadBody reads the whole request body under the size limit.
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, *errs.CustomError) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return nil, errs.NewError(errs.ErrInvalidParams)
	}
	return body, nil
}

func formError(err error) *errs.CustomError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return errs.NewError(errs.ErrRequestEntityTooLarge)
	}
	return errs.NewError(errs.ErrFormParseFailed)
}
