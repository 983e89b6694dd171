// AngelaMos | 2026
// repository.go

package report

import (
	"context"
	"fmt"

	"github.com/spryng/elevyn/internal/core"
)

// View names a reporting view in the store. Views are fixed at compile
// time and never built from request input.
type View string

const (
	ViewCheckRegister  View = "v_check_register"
	View1099Summary    View = "v_1099_summary"
	ViewQuarterlyWages View = "v_quarterly_wages"
)

type Repository interface {
	Rows(ctx context.Context, view View, companyID, userID string, limit int) ([]map[string]any, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Rows(
	ctx context.Context,
	view View,
	companyID, userID string,
	limit int,
) ([]map[string]any, error) {
	query := `
		SELECT v.*
		FROM ` + string(view) + ` v
		WHERE v.company_id = $1
			AND EXISTS (
				SELECT 1 FROM workspace_members m
				WHERE m.workspace_id = v.company_id AND m.user_id = $2
			)
		LIMIT $3`

	rows, err := r.db.QueryxContext(ctx, query, companyID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", view, err)
	}

	out, err := core.ScanMaps(rows)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", view, err)
	}
	return out, nil
}
