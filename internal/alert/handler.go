// AngelaMos | 2026
// handler.go

package alert

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/middleware"
)

type Handler struct {
	repo      Repository
	validator *validator.Validate
}

func NewHandler(repo Repository) *Handler {
	return &Handler{
		repo:      repo,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.With(authenticator).Post("/alerts/list", h.List)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	var req ListRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		fail(w, "Invalid JSON body")
		return
	}

	if err := h.validator.Var(req.CompanyID, "required,uuid"); err != nil {
		fail(w, "Invalid companyId")
		return
	}

	alerts, err := h.repo.ListForMember(r.Context(), req.CompanyID, userID)
	if err != nil {
		slog.Warn("alerts list failed", "error", err, "company_id", req.CompanyID)
		fail(w, core.StoreMessage(err))
		return
	}

	core.JSON(w, http.StatusOK, ListResponse{
		OK:     true,
		Alerts: ToAlertResponseList(alerts),
	})
}

func fail(w http.ResponseWriter, message string) {
	core.JSON(w, http.StatusBadRequest, ErrorResponse{OK: false, Error: message})
}
