// AngelaMos | 2026
// handler.go

package registration

import (
	"errors"
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
	r.Route("/employer/registration", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.Get)
		r.Post("/", h.Upsert)
		r.Get("/rules", h.Rules)
	})
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req UpsertRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	req.Normalize()

	if err := core.Validate(h.validator, req); err != nil {
		core.JSONError(w, err)
		return
	}

	c, err := h.service.Upsert(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, workspace.WriteError(core.CodeDBUpsertFailed, err))
		return
	}

	core.OK(w, ToCaseResponse(c))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	c, err := h.service.Current(r.Context(), userID)
	if err != nil {
		core.JSONError(w, workspace.ResolutionError(err))
		return
	}

	core.OK(w, ToCaseResponse(c))
}

func (h *Handler) Rules(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	rule, err := h.service.Rules(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "registration rules")
			return
		}
		core.JSONError(w, workspace.ResolutionError(err))
		return
	}

	core.OK(w, rule)
}
