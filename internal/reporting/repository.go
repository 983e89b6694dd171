// AngelaMos | 2026
// repository.go

package reporting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spryng/elevyn/internal/core"
)

const settingsColumns = `workspace_id, employer_id,
	to_char(first_report_due_date, 'YYYY-MM-DD') AS first_report_due_date,
	first_report_due_date_source, updated_at`

type Repository interface {
	UpsertFirstDueDate(ctx context.Context, s *Settings) (*Settings, error)
	GetByWorkspace(ctx context.Context, workspaceID string) (*Settings, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) UpsertFirstDueDate(ctx context.Context, s *Settings) (*Settings, error) {
	query := `
		INSERT INTO employer_reporting_settings (
			workspace_id, employer_id, first_report_due_date,
			first_report_due_date_source, updated_at
		)
		VALUES ($1, $2, $3::date, $4, now())
		ON CONFLICT (workspace_id) DO UPDATE SET
			employer_id = EXCLUDED.employer_id,
			first_report_due_date = EXCLUDED.first_report_due_date,
			first_report_due_date_source = EXCLUDED.first_report_due_date_source,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + settingsColumns

	var out Settings
	err := r.db.GetContext(ctx, &out, query,
		s.WorkspaceID,
		s.EmployerID,
		s.FirstReportDueDate,
		s.DueDateSource,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert reporting settings: %w", err)
	}

	return &out, nil
}

func (r *repository) GetByWorkspace(ctx context.Context, workspaceID string) (*Settings, error) {
	query := `SELECT ` + settingsColumns + `
		FROM employer_reporting_settings
		WHERE workspace_id = $1`

	var s Settings
	err := r.db.GetContext(ctx, &s, query, workspaceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get reporting settings: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get reporting settings: %w", err)
	}

	return &s, nil
}
