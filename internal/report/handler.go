// AngelaMos | 2026
// handler.go

package report

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/spryng/elevyn/internal/config"
	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/middleware"
)

// Response is always sent with status 200. A failed read still yields an
// empty data list alongside the message.
type Response struct {
	Data  []map[string]any `json:"data"`
	Error *string          `json:"error"`
}

type Handler struct {
	repo         Repository
	validator    *validator.Validate
	defaultLimit int
	maxLimit     int
}

func NewHandler(repo Repository, cfg config.ReportsConfig) *Handler {
	return &Handler{
		repo:         repo,
		validator:    core.NewValidator(),
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/check-register", h.serve(ViewCheckRegister))
		r.Get("/1099-summary", h.serve(View1099Summary))
		r.Get("/quarterly-wages", h.serve(ViewQuarterlyWages))
	})
}

func (h *Handler) serve(view View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserID(r.Context())
		if userID == "" {
			core.Unauthorized(w, "")
			return
		}

		q := r.URL.Query()

		companyID := q.Get("companyId")
		if err := h.validator.Var(companyID, "required,uuid"); err != nil {
			respond(w, nil, "Invalid companyId")
			return
		}

		limit := ClampLimit(q.Get("limit"), h.defaultLimit, h.maxLimit)

		rows, err := h.repo.Rows(r.Context(), view, companyID, userID, limit)
		if err != nil {
			slog.Warn("report read failed", "view", view, "error", err)
			core.RecordSpanError(r.Context(), err)
			respond(w, nil, core.StoreMessage(err))
			return
		}

		respond(w, rows, "")
	}
}

// ClampLimit parses a row limit and bounds it to [1, maxLimit]. A missing
// or unparsable value gives defaultLimit.
func ClampLimit(raw string, defaultLimit, maxLimit int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		n = defaultLimit
	}
	return min(max(n, 1), maxLimit)
}

func respond(w http.ResponseWriter, rows []map[string]any, message string) {
	if rows == nil {
		rows = []map[string]any{}
	}
	resp := Response{Data: rows}
	if message != "" {
		resp.Error = &message
	}
	core.JSON(w, http.StatusOK, resp)
}
