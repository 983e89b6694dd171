// AngelaMos | 2026
// handler.go

package quiz

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/middleware"
)

const afterAnonymousQuiz = "/login?next=/onboarding"

type Handler struct {
	service   *Service
	cookie    ClaimCookie
	validator *validator.Validate
}

func NewHandler(service *Service, cookie ClaimCookie) *Handler {
	return &Handler{
		service:   service,
		cookie:    cookie,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts quiz endpoints. Anonymous submissions are public and
// guarded by limiter.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, limiter func(http.Handler) http.Handler,
) {
	r.Route("/quiz", func(r chi.Router) {
		r.With(authenticator).Post("/submit", h.Submit)
		r.With(limiter).Post("/anonymous", h.Anonymous)
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req SubmitRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := core.Validate(h.validator, req); err != nil {
		core.JSONError(w, err)
		return
	}

	answers, err := ParseAnswers(req.Answers)
	if err != nil {
		core.JSONError(w, answersError())
		return
	}

	id, err := h.service.Submit(r.Context(), userID, req.CompanyID, answers)
	switch {
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "not a member of that company")
		return
	case err != nil:
		core.JSONError(w, core.StoreWriteError(core.CodeRPCFailed, err))
		return
	}

	core.OK(w, SubmitResponse{AssessmentID: id})
}

func (h *Handler) Anonymous(w http.ResponseWriter, r *http.Request) {
	var req AnonymousRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	answers, err := ParseAnswers(req.Answers)
	if err != nil {
		core.JSONError(w, answersError())
		return
	}

	token, err := h.service.SaveAnonymous(r.Context(), answers)
	if err != nil {
		core.JSONError(w, core.StoreWriteError(core.CodeDBInsertFailed, err))
		return
	}

	h.cookie.Set(w, token)
	core.OK(w, AnonymousResponse{Next: afterAnonymousQuiz})
}

func answersError() error {
	return core.ValidationError("answers must be an object", []core.FieldError{
		{Field: "answers", Rule: "object"},
	})
}
