// AngelaMos | 2026
// handler.go

package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/spryng/elevyn/internal/auth"
	"github.com/spryng/elevyn/internal/middleware"
	"github.com/spryng/elevyn/internal/onboarding"
	"github.com/spryng/elevyn/internal/workspace"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

var pageFiles = []string{"home.html", "quiz.html", "login.html", "company.html", "app.html"}

var loginNotices = map[string]string{
	"email": "Enter a valid email address.",
	"send":  "We could not send a sign-in link. Try again in a minute.",
	"auth":  "That sign-in link is invalid or has expired.",
}

// Router decides where a caller belongs in the onboarding flow.
type Router interface {
	Destination(r *http.Request) (string, error)
}

type WorkspaceReader interface {
	Current(ctx context.Context, userID string) (*workspace.CurrentResponse, error)
}

type pageData struct {
	Title       string
	UserID      string
	Notice      string
	Next        string
	WorkspaceID string
	Employer    *workspace.EmployerResponse
}

type Handler struct {
	pages      map[string]*template.Template
	router     Router
	workspaces WorkspaceReader
	logger     *slog.Logger
}

func NewHandler(router Router, workspaces WorkspaceReader, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		tmpl, err := template.ParseFS(templateFiles, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Handler{
		pages:      pages,
		router:     router,
		workspaces: workspaces,
		logger:     logger,
	}, nil
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth func(http.Handler) http.Handler,
) {
	static, _ := fs.Sub(staticFiles, "static") //nolint:errcheck // embedded path is fixed
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)

		r.Get("/", h.Home)
		r.Get("/quiz", h.Quiz)
		r.Get("/login", h.Login)
		r.Get(onboarding.PathCompany, h.Company)
		r.Get(onboarding.PathApp, h.App)
	})
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "home.html", h.base(r, "Payroll readiness"))
}

func (h *Handler) Quiz(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "Readiness quiz")

	if data.UserID != "" {
		current, err := h.workspaces.Current(r.Context(), data.UserID)
		if err != nil {
			h.fail(w, err)
			return
		}
		if current.WorkspaceID != nil {
			data.WorkspaceID = *current.WorkspaceID
		}
	}

	h.render(w, "quiz.html", data)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "Sign in")
	q := r.URL.Query()

	if data.UserID != "" {
		http.Redirect(w, r, auth.SafeNext(q.Get("next")), http.StatusSeeOther)
		return
	}

	data.Next = auth.SafeNext(q.Get("next"))
	if q.Get("sent") == "1" {
		data.Notice = "Check your inbox for a sign-in link."
	}
	if msg, ok := loginNotices[q.Get("error")]; ok {
		data.Notice = msg
	}

	h.render(w, "login.html", data)
}

func (h *Handler) Company(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "Company setup")
	if data.UserID == "" {
		redirectToLogin(w, r, onboarding.PathCompany)
		return
	}

	if r.URL.Query().Get("claim_error") == "1" {
		data.Notice = "We could not attach your quiz answers. You can retake the quiz after setup."
	}

	current, err := h.workspaces.Current(r.Context(), data.UserID)
	if err != nil {
		h.fail(w, err)
		return
	}
	data.Employer = current.Employer

	h.render(w, "company.html", data)
}

// App renders the dashboard for callers the onboarding rules send to it and
// redirects everyone else to where the rules point.
func (h *Handler) App(w http.ResponseWriter, r *http.Request) {
	dest, err := h.router.Destination(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	if dest != onboarding.PathApp {
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}

	data := h.base(r, "Dashboard")

	current, err := h.workspaces.Current(r.Context(), data.UserID)
	if err != nil {
		h.fail(w, err)
		return
	}
	if current.WorkspaceID != nil {
		data.WorkspaceID = *current.WorkspaceID
	}
	data.Employer = current.Employer

	h.render(w, "app.html", data)
}

func (h *Handler) base(r *http.Request, title string) pageData {
	return pageData{
		Title:  title,
		UserID: middleware.GetUserID(r.Context()),
	}
}

func (h *Handler) render(w http.ResponseWriter, page string, data pageData) {
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.fail(w, fmt.Errorf("render %s: %w", page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	//nolint:errcheck // best-effort response write
	_, _ = buf.WriteTo(w)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("page failed", "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, next string) {
	http.Redirect(w, r, onboarding.PathLogin+"?next="+url.QueryEscape(next), http.StatusSeeOther)
}
