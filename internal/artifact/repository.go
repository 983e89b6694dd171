// AngelaMos | 2026
// repository.go

package artifact

import (
	"context"
	"fmt"

	"github.com/spryng/elevyn/internal/core"
)

const artifactColumns = `id, workspace_id, employer_id, category, storage_bucket,
	storage_path, original_filename, mime_type, size_bytes, created_by, created_at`

type Repository interface {
	Create(ctx context.Context, a *Artifact) (*Artifact, error)
	ListByWorkspace(ctx context.Context, workspaceID string, limit int) ([]Artifact, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Artifact) (*Artifact, error) {
	query := `
		INSERT INTO workspace_artifacts (
			workspace_id, employer_id, category, storage_bucket, storage_path,
			original_filename, mime_type, size_bytes, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + artifactColumns

	var out Artifact
	err := r.db.GetContext(ctx, &out, query,
		a.WorkspaceID,
		a.EmployerID,
		a.Category,
		a.StorageBucket,
		a.StoragePath,
		a.OriginalFilename,
		a.MimeType,
		a.SizeBytes,
		a.CreatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert artifact: %w", err)
	}

	return &out, nil
}

func (r *repository) ListByWorkspace(
	ctx context.Context,
	workspaceID string,
	limit int,
) ([]Artifact, error) {
	query := `
		SELECT ` + artifactColumns + `
		FROM workspace_artifacts
		WHERE workspace_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	var artifacts []Artifact
	if err := r.db.SelectContext(ctx, &artifacts, query, workspaceID, limit); err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	return artifacts, nil
}
