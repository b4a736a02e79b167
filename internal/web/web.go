/*
Package web holds the embedded page templates and static assets.

Each page template is parsed together with layout.html so that it only needs to
define its "title" and "content" blocks.
*/
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"time"

	"eptweb/internal/app/learning"
	"eptweb/internal/pkg/logx"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names.
const (
	PageLogin     = "login.html"
	PageSignUp    = "signup.html"
	PageDashboard = "dashboard.html"
	PageRolePlay  = "roleplay.html"
	PagePlay      = "play.html"
)

var pageNames = []string{PageLogin, PageSignUp, PageDashboard, PageRolePlay, PagePlay}

// Page is the view model shared by every template. User is nil on public pages.
type Page struct {
	Title string
	User  *learning.User
	Error string
	Data  any
}

var activityIcons = []string{"📚", "🏋️", "📦", "💬", "📝"}

var funcs = template.FuncMap{
	"pathEscape": url.PathEscape,
	"icon": func(i int) string {
		return activityIcons[i%len(activityIcons)]
	},
	// column places plays in a zig-zag: centre, left, right.
	"column": func(i int) int {
		return []int{1, 0, 2}[i%3]
	},
	"opacity": func(intensity float64) string {
		return fmt.Sprintf("%.2f", 0.2+intensity*0.6)
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return "—"
		}
		return t.Local().Format("2006-01-02 15:04")
	},
	"deref": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
}

// Renderer executes the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page with the shared layout.
func NewRenderer() (*Renderer, error) {
	rd := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}

	for _, name := range pageNames {
		tpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		rd.pages[name] = tpl
	}

	return rd, nil
}

// Render writes page name with the given status. The output is buffered so a
// template error never leaves a half-written page.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tpl, ok := rd.pages[name]
	if !ok {
		logx.FromRequest(r).Error().Str("template", name).Msg("Unknown page template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		logx.FromRequest(r).Error().Err(err).Str("template", name).Msg("Failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func staticRoot() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static serves the embedded assets. Mount it under /static/.
func Static() http.Handler {
	return http.StripPrefix("/static/", http.FileServerFS(staticRoot()))
}

// StaticFile serves a single embedded asset at a fixed path, e.g. /robots.txt.
func StaticFile(name string) http.HandlerFunc {
	root := staticRoot()
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, root, name)
	}
}
