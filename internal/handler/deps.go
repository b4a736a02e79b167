package handler

import (
	"time"

	"eptweb/internal/app/backend"
	"eptweb/internal/app/session"
	"eptweb/internal/configs"
	"eptweb/internal/web"
)

// AppDeps carries the request-independent collaborators shared by all handlers.
type AppDeps struct {
	Config  *configs.AppConfig
	Backend *backend.Client
	Session *session.Service
	Pages   *web.Renderer
}

// NewAppDeps builds the backend client, session service and page renderer from cfg.
func NewAppDeps(cfg *configs.AppConfig) (*AppDeps, error) {
	pages, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)

	cookie := session.CookieConfig{
		Name:   cfg.CookieName,
		MaxAge: time.Duration(cfg.CookieMaxAge) * time.Second,
		Secure: cfg.SecureCookies(),
	}

	return &AppDeps{
		Config:  cfg,
		Backend: client,
		Session: session.NewService(client, cookie),
		Pages:   pages,
	}, nil
}
