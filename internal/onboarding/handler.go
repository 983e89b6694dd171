// AngelaMos | 2026
// handler.go

package onboarding

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/middleware"
	"github.com/spryng/elevyn/internal/quiz"
)

const claimFailed = PathCompany + "?claim_error=1"

type Claimer interface {
	Claim(ctx context.Context, userID, token string) (*quiz.ClaimResult, error)
}

type Handler struct {
	resolver WorkspaceResolver
	claimer  Claimer
	cookie   quiz.ClaimCookie
	rules    []Rule
	logger   *slog.Logger
}

func NewHandler(
	resolver WorkspaceResolver,
	claimer Claimer,
	cookie quiz.ClaimCookie,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		resolver: resolver,
		claimer:  claimer,
		cookie:   cookie,
		rules:    Rules,
		logger:   logger,
	}
}

// RegisterRoutes mounts the redirect-only onboarding endpoints. They sit
// behind optional auth so anonymous visitors are redirected, not refused.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)

		r.Get(PathRouter, h.Route)
		r.Get(PathClaim, h.Claim)
	})
}

// Destination evaluates the rules for r.
func (h *Handler) Destination(r *http.Request) (string, error) {
	facts := NewFacts(
		middleware.GetUserID(r.Context()),
		h.cookie.Token(r) != "",
		h.resolver,
	)
	return Decide(r.Context(), h.rules, facts)
}

func (h *Handler) Route(w http.ResponseWriter, r *http.Request) {
	dest, err := h.Destination(r)
	if err != nil {
		h.logger.Error("onboarding routing failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// Claim attaches pre-signup quiz answers to the caller. The cookie survives
// only a transient store failure. Any other failure drops it so the router
// stops sending the caller back here.
func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		http.Redirect(w, r, PathLogin+"?next="+url.QueryEscape(PathClaim), http.StatusSeeOther)
		return
	}

	token := h.cookie.Token(r)
	if token == "" {
		http.Redirect(w, r, PathRouter, http.StatusSeeOther)
		return
	}

	res, err := h.claimer.Claim(r.Context(), userID, token)
	if err != nil {
		retry := core.IsTransientStoreError(err)
		h.logger.Warn("quiz claim failed", "error", err, "user_id", userID, "retry", retry)
		if !retry {
			h.cookie.Clear(w)
		}
		http.Redirect(w, r, claimFailed, http.StatusSeeOther)
		return
	}

	h.cookie.Clear(w)

	if res.Complete() {
		http.Redirect(w, r, PathApp, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, PathCompany, http.StatusSeeOther)
}
