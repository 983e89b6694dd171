// AngelaMos | 2026
// repository.go

package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spryng/elevyn/internal/core"
)

type Repository interface {
	GetActiveWorkspaceID(ctx context.Context, userID string) (string, error)
	FirstMembershipWorkspaceID(ctx context.Context, userID string) (string, error)
	SetActiveWorkspace(ctx context.Context, userID, workspaceID string) error
	IsMember(ctx context.Context, userID, workspaceID string) (bool, error)
	GetEmployerByWorkspace(ctx context.Context, workspaceID string) (*Employer, error)
	CreateWorkspace(ctx context.Context, name, createdBy string) (string, error)
	AddMember(ctx context.Context, workspaceID, userID, role string) error
	UpsertEmployer(
		ctx context.Context,
		workspaceID, displayName, stateCode string,
	) (*Employer, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) GetActiveWorkspaceID(
	ctx context.Context,
	userID string,
) (string, error) {
	query := `SELECT active_workspace_id FROM profiles WHERE id = $1`

	var id sql.NullString
	err := r.db.GetContext(ctx, &id, query, userID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !id.Valid) {
		return "", fmt.Errorf("get active workspace: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get active workspace: %w", err)
	}

	return id.String, nil
}

func (r *repository) FirstMembershipWorkspaceID(
	ctx context.Context,
	userID string,
) (string, error) {
	query := `
		SELECT workspace_id
		FROM workspace_members
		WHERE user_id = $1
		ORDER BY created_at ASC
		LIMIT 1`

	var id string
	err := r.db.GetContext(ctx, &id, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get first membership: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get first membership: %w", err)
	}

	return id, nil
}

func (r *repository) SetActiveWorkspace(
	ctx context.Context,
	userID, workspaceID string,
) error {
	query := `
		INSERT INTO profiles (id, active_workspace_id)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET active_workspace_id = EXCLUDED.active_workspace_id`

	if _, err := r.db.ExecContext(ctx, query, userID, workspaceID); err != nil {
		return fmt.Errorf("set active workspace: %w", err)
	}

	return nil
}

func (r *repository) IsMember(
	ctx context.Context,
	userID, workspaceID string,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM workspace_members
			WHERE workspace_id = $1 AND user_id = $2
		)`

	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, workspaceID, userID); err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}

	return ok, nil
}

func (r *repository) GetEmployerByWorkspace(
	ctx context.Context,
	workspaceID string,
) (*Employer, error) {
	query := `
		SELECT id, workspace_id, state_code, display_name
		FROM employers
		WHERE workspace_id = $1`

	var e Employer
	err := r.db.GetContext(ctx, &e, query, workspaceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get employer: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get employer: %w", err)
	}

	return &e, nil
}

func (r *repository) CreateWorkspace(
	ctx context.Context,
	name, createdBy string,
) (string, error) {
	query := `
		INSERT INTO workspaces (name, created_by)
		VALUES ($1, $2)
		RETURNING id`

	var id string
	if err := r.db.GetContext(ctx, &id, query, name, createdBy); err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}

	return id, nil
}

func (r *repository) AddMember(
	ctx context.Context,
	workspaceID, userID, role string,
) error {
	query := `
		INSERT INTO workspace_members (workspace_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (workspace_id, user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, workspaceID, userID, role); err != nil {
		return fmt.Errorf("add workspace member: %w", err)
	}

	return nil
}

func (r *repository) UpsertEmployer(
	ctx context.Context,
	workspaceID, displayName, stateCode string,
) (*Employer, error) {
	query := `
		INSERT INTO employers (workspace_id, display_name, state_code)
		VALUES ($1, $2, $3)
		ON CONFLICT (workspace_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
			state_code = EXCLUDED.state_code
		RETURNING id, workspace_id, state_code, display_name`

	var e Employer
	if err := r.db.GetContext(
		ctx,
		&e,
		query,
		workspaceID,
		displayName,
		stateCode,
	); err != nil {
		return nil, fmt.Errorf("upsert employer: %w", err)
	}

	return &e, nil
}
