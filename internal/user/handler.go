// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
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
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me", h.GetMe)
		r.Put("/me/active-workspace", h.SwitchWorkspace)
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		core.Unauthorized(w, "")
		return
	}

	me, err := h.service.GetMe(r.Context(), claims)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, me)
}

func (h *Handler) SwitchWorkspace(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req SwitchWorkspaceRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := core.Validate(h.validator, req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.SwitchWorkspace(r.Context(), userID, req.WorkspaceID); err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "not a member of that workspace")
			return
		}
		core.JSONError(w, core.StoreWriteError(core.CodeDBUpsertFailed, err))
		return
	}

	core.NoContent(w)
}
