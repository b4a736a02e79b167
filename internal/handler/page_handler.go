package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"eptweb/internal/app/backend"
	"eptweb/internal/app/learning"
	"eptweb/internal/pkg/errs"
	"eptweb/internal/pkg/logx"
	"eptweb/internal/pkg/req"
	"eptweb/internal/web"
)

type loginView struct {
	Username string
	Next     string
}

type signUpView struct {
	Form   learning.SignUpForm
	Errors learning.FieldErrors
}

type dashboardView struct {
	User      *learning.User
	Dashboard learning.Dashboard
	DisplayXP int
}

type rolePlayView struct {
	Roles []learning.Role
}

type playView struct {
	Found  bool
	Role   learning.Role
	Level  learning.RoleLevel
	Play   learning.RolePlay
	Story  learning.PlayStory
	Action string
}

// HandleLoginPage renders the login form.
func HandleLoginPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Pages.Render(w, r, http.StatusOK, web.PageLogin, web.Page{
			Title: "Log in",
			Data:  loginView{Next: SafeNext(r.URL.Query().Get("next"))},
		})
	}
}

// HandleLoginSubmit issues a session from the login form and redirects to next.
func HandleLoginSubmit(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := loginView{Next: DefaultNext}

		if customErr := req.ParseForm(w, r); customErr != nil {
			renderLoginError(w, r, deps, view, customErr)
			return
		}

		creds := req.Credentials{
			Username: r.PostForm.Get("username"),
			Password: r.PostForm.Get("password"),
		}
		view.Username = creds.Username
		view.Next = SafeNext(r.PostForm.Get("next"))

		if customErr := deps.Session.Issue(w, r, creds); customErr != nil {
			renderLoginError(w, r, deps, view, customErr)
			return
		}

		http.Redirect(w, r, view.Next, http.StatusSeeOther)
	}
}

func renderLoginError(w http.ResponseWriter, r *http.Request, deps *AppDeps, view loginView, customErr *errs.CustomError) {
	deps.Pages.Render(w, r, customErr.Status, web.PageLogin, web.Page{
		Title: "Log in",
		Error: customErr.Message,
		Data:  view,
	})
}

// HandleSignUpPage renders the registration form.
func HandleSignUpPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Pages.Render(w, r, http.StatusOK, web.PageSignUp, web.Page{
			Title: "Sign up",
			Data:  signUpView{},
		})
	}
}

// HandleSignUpSubmit validates the form, registers the account with the
// backend and sends the user to the login page.
func HandleSignUpSubmit(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.ParseForm(w, r); customErr != nil {
			renderSignUp(w, r, deps, customErr.Status, customErr.Message, signUpView{})
			return
		}

		form := learning.SignUpForm{
			Name:            r.PostForm.Get("name"),
			Username:        r.PostForm.Get("username"),
			Email:           r.PostForm.Get("email"),
			Document:        r.PostForm.Get("document"),
			Password:        r.PostForm.Get("password"),
			ConfirmPassword: r.PostForm.Get("confirm_password"),
		}
		// Passwords are never echoed back into the form.
		view := signUpView{Form: form}
		view.Form.Password, view.Form.ConfirmPassword = "", ""

		if fieldErrs := form.Validate(); len(fieldErrs) > 0 {
			view.Errors = fieldErrs
			renderSignUp(w, r, deps, http.StatusBadRequest, "Please fix the highlighted fields.", view)
			return
		}

		if err := deps.Backend.Register(r.Context(), form.Registration()); err != nil {
			customErr := backendError(err)
			logx.FromRequest(r).Warn().Err(err).Int("status", customErr.Status).Msg("Registration failed")
			renderSignUp(w, r, deps, customErr.Status, customErr.Message, view)
			return
		}

		logx.FromRequest(r).Info().Msg("Account registered")
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	}
}

func renderSignUp(w http.ResponseWriter, r *http.Request, deps *AppDeps, status int, msg string, view signUpView) {
	deps.Pages.Render(w, r, status, web.PageSignUp, web.Page{
		Title: "Sign up",
		Error: msg,
		Data:  view,
	})
}

// HandleDashboard renders the progress overview.
func HandleDashboard(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, roles, err := loadUserAndCatalog(r.Context(), deps.Backend, deps.Session.Token(r))
		if err != nil {
			handlePageError(w, r, deps, web.PageDashboard, "Dashboard", err)
			return
		}

		dash := learning.BuildDashboard(*user, roles)
		deps.Pages.Render(w, r, http.StatusOK, web.PageDashboard, web.Page{
			Title: "Dashboard",
			User:  user,
			Data: dashboardView{
				User:      user,
				Dashboard: dash,
				DisplayXP: dash.DisplayXP(*user),
			},
		})
	}
}

// HandleRolePlayPage renders the mission catalog.
func HandleRolePlayPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, roles, err := loadUserAndCatalog(r.Context(), deps.Backend, deps.Session.Token(r))
		if err != nil {
			handlePageError(w, r, deps, web.PageRolePlay, "Missions", err)
			return
		}

		deps.Pages.Render(w, r, http.StatusOK, web.PageRolePlay, web.Page{
			Title: "Missions",
			User:  user,
			Data:  rolePlayView{Roles: roles},
		})
	}
}

// HandlePlayPage renders one mission with the user's transcript for it.
func HandlePlayPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPlay(w, r, deps, http.StatusOK, "")
	}
}

// HandlePlaySubmit sends one answer and redirects back to the mission, which
// re-reads the transcript from the backend.
func HandlePlaySubmit(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.ParseForm(w, r); customErr != nil {
			renderPlay(w, r, deps, customErr.Status, customErr.Message)
			return
		}

		roleID, step, playCode, ok := playParams(r)
		answer := strings.TrimSpace(r.PostForm.Get("answer"))
		if !ok || answer == "" {
			http.Redirect(w, r, r.URL.EscapedPath(), http.StatusSeeOther)
			return
		}

		err := deps.Backend.SubmitAnswer(r.Context(), deps.Session.Token(r), learning.Answer{
			RoleID:   roleID,
			LevelNum: step,
			PlayCode: playCode,
			Answer:   answer,
		})
		if err != nil {
			if backend.IsUnauthorized(err) {
				expireSession(w, r, deps)
				return
			}
			customErr := backendError(err)
			logx.FromRequest(r).Warn().Err(err).Msg("Answer submission failed")
			renderPlay(w, r, deps, customErr.Status, customErr.Message)
			return
		}

		http.Redirect(w, r, r.URL.EscapedPath(), http.StatusSeeOther)
	}
}

func renderPlay(w http.ResponseWriter, r *http.Request, deps *AppDeps, status int, errMsg string) {
	user, roles, err := loadUserAndCatalog(r.Context(), deps.Backend, deps.Session.Token(r))
	if err != nil {
		handlePageError(w, r, deps, web.PagePlay, "Mission", err)
		return
	}

	view := playView{Action: r.URL.EscapedPath()}
	if roleID, step, playCode, ok := playParams(r); ok {
		view.Role, view.Level, view.Play, view.Found = learning.FindPlay(roles, roleID, step, playCode)
		view.Story, _ = user.Story(playCode)
	}
	if !view.Found && status == http.StatusOK {
		status = http.StatusNotFound
	}

	deps.Pages.Render(w, r, status, web.PagePlay, web.Page{
		Title: "Mission",
		User:  user,
		Error: errMsg,
		Data:  view,
	})
}

// HandleLogout revokes the session and returns to the login page.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Session.Revoke(w, r)
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
	}
}

func playParams(r *http.Request) (roleID string, step int, playCode string, ok bool) {
	roleID = chi.URLParam(r, "roleId")
	step, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil {
		return "", 0, "", false
	}

	raw := chi.URLParam(r, "playCode")
	playCode, err = url.PathUnescape(raw)
	if err != nil {
		playCode = raw
	}

	return roleID, step, playCode, roleID != "" && playCode != ""
}

// loadUserAndCatalog fetches the user and the mission catalog in parallel.
// Both calls are awaited; the first failure is returned.
func loadUserAndCatalog(ctx context.Context, client *backend.Client, token string) (*learning.User, []learning.Role, error) {
	var (
		user  *learning.User
		roles []learning.Role
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = client.CurrentUser(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		roles, err = client.RolePlays(gctx, token)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return user, roles, nil
}

// handlePageError sends a rejected session back to login and renders any other
// failure on the page itself.
func handlePageError(w http.ResponseWriter, r *http.Request, deps *AppDeps, page, title string, err error) {
	if backend.IsUnauthorized(err) {
		expireSession(w, r, deps)
		return
	}

	customErr := backendError(err)
	logx.FromRequest(r).Warn().Err(err).Str("page", page).Msg("Failed to load page data")
	deps.Pages.Render(w, r, customErr.Status, page, web.Page{
		Title: title,
		Error: customErr.Message,
	})
}

// expireSession clears a cookie the backend no longer accepts.
func expireSession(w http.ResponseWriter, r *http.Request, deps *AppDeps) {
	deps.Session.Cookie().Clear(w)
	http.Redirect(w, r, LoginRedirectURL(r.URL.Path), http.StatusFound)
}

func backendError(err error) *errs.CustomError {
	var se *backend.StatusError
	if errors.As(err, &se) {
		return errs.Upstream(se.Status, se.Message)
	}
	if errors.Is(err, backend.ErrInvalidRegistration) {
		return errs.NewError(errs.ErrInvalidParams)
	}
	return errs.Transport(err)
}
