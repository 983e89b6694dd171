// AngelaMos | 2026
// handler.go

package auth

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/spryng/elevyn/internal/core"
)

const defaultNext = "/onboarding"

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the redirect-only auth endpoints. loginLimiter
// guards magic-link sends.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	loginLimiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/callback", h.Callback)
		r.Post("/signout", h.SignOut)
		r.With(loginLimiter).Post("/login", h.Login)
	})
}

func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if providerErr := q.Get("error_description"); providerErr != "" {
		slog.Warn("auth callback rejected by provider", "error", providerErr)
		http.Redirect(w, r, "/login?error=auth", http.StatusSeeOther)
		return
	}

	if err := h.service.CompleteSignIn(w, r, q.Get("code")); err != nil {
		slog.Warn("auth callback failed", "error", err)
		http.Redirect(w, r, "/login?error=auth", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, SafeNext(q.Get("next")), http.StatusSeeOther)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.service.SignOut(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login?error=email", http.StatusSeeOther)
		return
	}

	form := LoginForm{
		Email: strings.TrimSpace(r.PostForm.Get("email")),
		Next:  r.PostForm.Get("next"),
	}

	if err := h.validator.Struct(form); err != nil {
		http.Redirect(w, r, "/login?error=email", http.StatusSeeOther)
		return
	}

	if err := h.service.StartSignIn(r.Context(), w, form.Email, form.Next); err != nil {
		slog.Warn("magic link send failed", "error", err)
		http.Redirect(w, r, "/login?error=send", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/login?sent=1", http.StatusSeeOther)
}

// SafeNext keeps post-login redirects on this site. Anything that is not a
// plain absolute path falls back to the onboarding router.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return defaultNext
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return defaultNext
	}

	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return defaultNext
	}

	return next
}
