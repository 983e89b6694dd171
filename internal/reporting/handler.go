// AngelaMos | 2026
// handler.go

package reporting

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/middleware"
	"github.com/spryng/elevyn/internal/workspace"
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
	r.Route("/reporting", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/settings", h.Get)
		r.Post("/first-due-date", h.SetFirstDueDate)
	})
}

func (h *Handler) SetFirstDueDate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req FirstDueDateRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	req.ApplyDefaults()

	if err := core.Validate(h.validator, req); err != nil {
		core.JSONError(w, err)
		return
	}

	settings, err := h.service.SetFirstDueDate(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, workspace.WriteError(core.CodeDBUpsertFailed, err))
		return
	}

	core.OK(w, ToSettingsResponse(settings))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	settings, err := h.service.Current(r.Context(), userID)
	if err != nil {
		core.JSONError(w, workspace.ResolutionError(err))
		return
	}

	core.OK(w, ToSettingsResponse(settings))
}
