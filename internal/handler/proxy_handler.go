package handler

import (
	"net/http"

	"eptweb/internal/app/backend"
	"eptweb/internal/pkg/errs"
	"eptweb/internal/pkg/logx"
	"eptweb/internal/pkg/req"
	"eptweb/internal/pkg/resp"
)

// ProxyRoute maps one browser-facing relay route to its backend counterpart.
type ProxyRoute struct {
	Method       string
	Path         string // relative to /frontend-api/proxy
	BackendPath  string
	RequireToken bool
}

// ProxyRoutes is the relay table.
var ProxyRoutes = []ProxyRoute{
	{Method: http.MethodGet, Path: "/user/me", BackendPath: backend.PathUserMe, RequireToken: true},
	{Method: http.MethodGet, Path: "/role-play", BackendPath: backend.PathRolePlay, RequireToken: true},
	{Method: http.MethodPost, Path: "/role-play", BackendPath: backend.PathRolePlay, RequireToken: true},
	{Method: http.MethodPost, Path: "/user/register", BackendPath: backend.PathUserRegister, RequireToken: false},
}

// HandleProxy relays one call: attach the bearer token, forward, and copy the
// backend's status, body and content type back unchanged.
func HandleProxy(deps *AppDeps, route ProxyRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := deps.Session.Token(r)
		if route.RequireToken && token == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var body []byte
		contentType := ""
		if route.Method != http.MethodGet {
			var customErr *errs.CustomError
			body, customErr = req.ReadBody(w, r)
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
			if body == nil {
				body = []byte{}
			}
			contentType = r.Header.Get("Content-Type")
		}

		result, err := deps.Backend.Relay(r.Context(), route.Method, route.BackendPath, token, contentType, body)
		if err != nil {
			logx.FromRequest(r).Error().Err(err).Str("backend_path", route.BackendPath).Msg("Proxy request to backend failed")
			resp.RespondError(w, r, errs.Transport(err))
			return
		}

		if !result.OK() {
			logx.FromRequest(r).Warn().Int("backend_status", result.Status).Str("backend_path", route.BackendPath).Msg("Backend returned an error status")
		}

		resp.RespondRaw(w, r, result.Status, result.ContentType, result.Body)
	}
}
