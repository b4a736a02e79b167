package handler

import (
	"net/http"

	"eptweb/internal/pkg/req"
	"eptweb/internal/pkg/resp"
)

// HandleIssueSession logs in with credentials from a form, JSON or multipart body
// and answers {"ok":true}. The token only ever travels in the Set-Cookie header.
func HandleIssueSession(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, customErr := req.BindCredentials(w, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := deps.Session.Issue(w, r, creds); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondOK(w, r)
	}
}

// HandleRevokeSession logs out. It always answers {"ok":true}.
func HandleRevokeSession(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Session.Revoke(w, r)
		resp.RespondOK(w, r)
	}
}
