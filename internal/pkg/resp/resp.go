/*
Package resp provides helper functions for constructing and sending HTTP responses.

Browser-facing JSON endpoints answer with {"ok":true} on success and
{"code":…,"message":…} on failure. Relayed backend responses are written byte for byte.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"eptweb/internal/pkg/errs"
	"eptweb/internal/pkg/logx"
)

// DefaultContentType is used when a relayed response declares no Content-Type.
const DefaultContentType = "application/json"

// OKResponse is the minimal success acknowledgement.
type OKResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse is the failure body. Message is always present.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RespondJSON sets the Content-Type and writes the JSON-encoded payload with the given status.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.FromRequest(r).Error().
			Err(err).
			Int("http_status", httpStatus).
			Msg("Error encoding JSON response")

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondOK sends {"ok":true} with HTTP 200.
func RespondOK(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, r, http.StatusOK, OKResponse{OK: true})
}

// RespondError sends the error's status with its code and message.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	RespondJSON(w, r, customErr.Status, ErrorResponse{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}

// RespondRaw writes body unchanged with the given status and content type.
func RespondRaw(w http.ResponseWriter, r *http.Request, httpStatus int, contentType string, body []byte) {
	if contentType == "" {
		contentType = DefaultContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(httpStatus)

	if _, err := w.Write(body); err != nil {
		logx.FromRequest(r).Warn().Err(err).Msg("Failed to write relayed response body")
	}
}
