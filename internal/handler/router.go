/*
Package handler provides the HTTP handlers and routing setup for the English Pro Tech web tier.

This file defines the main Router, applying request IDs, logging, CORS, tracing and
the session gate before delegating to the session endpoint, the proxy relay and the
server-rendered pages.
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"eptweb/internal/pkg/limiter"
	"eptweb/internal/pkg/logx"
	"eptweb/internal/pkg/resp"
	"eptweb/internal/pkg/telemetry"
	"eptweb/internal/web"
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// The login rate limiter's cleanup loop stops when ctx is done.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	loginLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(deps.Config.LoginRate), deps.Config.LoginBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)
	r.Use(Gate(deps.Config.CookieName))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondJSON(w, r, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "English Pro Tech Web",
		})
	})
	r.Get("/robots.txt", web.StaticFile("robots.txt"))
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/static/*", web.Static())

	r.Route("/frontend-api", func(api chi.Router) {
		api.With(loginLimiter.Middleware).Post("/session", HandleIssueSession(deps))
		api.Delete("/session", HandleRevokeSession(deps))

		api.Route("/proxy", func(proxy chi.Router) {
			for _, route := range ProxyRoutes {
				proxy.Method(route.Method, route.Path, HandleProxy(deps, route))
			}
		})
	})

	r.Get("/login", HandleLoginPage(deps))
	r.With(loginLimiter.Middleware).Post("/login", HandleLoginSubmit(deps))
	r.Get("/sign-up", HandleSignUpPage(deps))
	r.Post("/sign-up", HandleSignUpSubmit(deps))
	r.Post("/logout", HandleLogout(deps))

	r.Get("/", HandleDashboard(deps))
	r.Get("/role-play", HandleRolePlayPage(deps))
	r.Get("/role-play/play/{roleId}/{level}/{playCode}", HandlePlayPage(deps))
	r.Post("/role-play/play/{roleId}/{level}/{playCode}", HandlePlaySubmit(deps))

	return telemetry.Middleware(r)
}
