// AngelaMos | 2026
// handler.go

package workspace

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/middleware"
)

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/onboarding/company", h.SetupCompany)
		r.Get("/workspace/current", h.Current)
	})
}

func (h *Handler) SetupCompany(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req CompanyRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	req.Normalize()

	if err := core.Validate(h.validator, req); err != nil {
		core.JSONError(w, err)
		return
	}

	resp, err := h.service.SetupCompany(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, WriteError(core.CodeDBUpsertFailed, err))
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	resp, err := h.service.Current(r.Context(), userID)
	if err != nil {
		core.JSONError(w, ResolutionError(err))
		return
	}

	core.OK(w, resp)
}
