// AngelaMos | 2026
// repository.go

package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spryng/elevyn/internal/core"
)

const caseColumns = `workspace_id, employer_id, state_code, status, current_step_key, updated_at`

type Repository interface {
	Upsert(ctx context.Context, c *Case) (*Case, error)
	GetByWorkspace(ctx context.Context, workspaceID string) (*Case, error)
	GetRule(ctx context.Context, stateCode string) (Rule, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Upsert writes the workspace's single case. Concurrent writers race and the
// last one wins.
func (r *repository) Upsert(ctx context.Context, c *Case) (*Case, error) {
	query := `
		INSERT INTO employer_registration_cases (
			workspace_id, employer_id, state_code, status, current_step_key, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (workspace_id) DO UPDATE SET
			employer_id = EXCLUDED.employer_id,
			state_code = EXCLUDED.state_code,
			status = EXCLUDED.status,
			current_step_key = EXCLUDED.current_step_key,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + caseColumns

	var out Case
	err := r.db.GetContext(ctx, &out, query,
		c.WorkspaceID,
		c.EmployerID,
		c.StateCode,
		c.Status,
		c.CurrentStepKey,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert registration case: %w", err)
	}

	return &out, nil
}

func (r *repository) GetByWorkspace(ctx context.Context, workspaceID string) (*Case, error) {
	query := `SELECT ` + caseColumns + ` FROM employer_registration_cases WHERE workspace_id = $1`

	var c Case
	err := r.db.GetContext(ctx, &c, query, workspaceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get registration case: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get registration case: %w", err)
	}

	return &c, nil
}

func (r *repository) GetRule(ctx context.Context, stateCode string) (Rule, error) {
	query := `SELECT * FROM state_registration_rules WHERE state_code = $1`

	row := r.db.QueryRowxContext(ctx, query, stateCode)

	rule := Rule{}
	err := row.MapScan(rule)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get registration rule: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get registration rule: %w", err)
	}

	return Rule(core.NormalizeRow(rule)), nil
}
