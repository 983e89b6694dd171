// AngelaMos | 2026
// handler.go

package artifact

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
	r.Route("/artifacts", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/confirm", h.Confirm)
		r.Post("/upload-url", h.UploadURL)
	})
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req ConfirmRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	req.ApplyDefaults()

	if err := core.Validate(h.validator, req); err != nil {
		core.JSONError(w, err)
		return
	}

	a, err := h.service.Confirm(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, workspace.WriteError(core.CodeDBInsertFailed, err))
		return
	}

	core.OK(w, ToArtifactResponse(a))
}

func (h *Handler) UploadURL(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req UploadURLRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := core.Validate(h.validator, req); err != nil {
		core.JSONError(w, err)
		return
	}

	resp, err := h.service.CreateUploadURL(r.Context(), userID, req.Filename)
	if err != nil {
		if workspace.IsResolutionError(err) {
			core.JSONError(w, workspace.ResolutionError(err))
			return
		}
		core.JSONError(w, UpstreamError(err))
		return
	}

	core.OK(w, resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	artifacts, err := h.service.List(r.Context(), userID)
	if err != nil {
		core.JSONError(w, workspace.ResolutionError(err))
		return
	}

	core.OK(w, ToArtifactResponseList(artifacts))
}
