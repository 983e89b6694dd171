// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/spryng/elevyn/internal/core"
)

type Repository interface {
	Funnel(ctx context.Context) (*Funnel, error)
	RegistrationsByStatus(ctx context.Context) (map[string]int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Funnel(ctx context.Context) (*Funnel, error) {
	query := `
		SELECT
			(SELECT count(*) FROM workspaces) AS workspaces,
			(SELECT count(*) FROM employers) AS employers,
			(SELECT count(*) FROM employer_registration_cases) AS registration_cases,
			(SELECT count(*) FROM employer_reporting_settings) AS reporting_configured,
			(SELECT count(*) FROM workspace_artifacts) AS artifacts,
			(SELECT count(*) FROM quiz_claims) AS pending_claims`

	var f Funnel
	if err := r.db.GetContext(ctx, &f, query); err != nil {
		return nil, fmt.Errorf("onboarding funnel: %w", err)
	}
	return &f, nil
}

func (r *repository) RegistrationsByStatus(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT status, count(*) AS total
		FROM employer_registration_cases
		GROUP BY status`

	var rows []struct {
		Status string `db:"status"`
		Total  int64  `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("registrations by status: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}
