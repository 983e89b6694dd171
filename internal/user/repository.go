// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"fmt"

	"github.com/spryng/elevyn/internal/core"
)

type Repository interface {
	ListMemberships(ctx context.Context, userID string) ([]Membership, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) ListMemberships(ctx context.Context, userID string) ([]Membership, error) {
	query := `
		SELECT m.workspace_id, w.name, m.role, m.created_at
		FROM workspace_members m
		JOIN workspaces w ON w.id = m.workspace_id
		WHERE m.user_id = $1
		ORDER BY m.created_at ASC`

	var members []Membership
	if err := r.db.SelectContext(ctx, &members, query, userID); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return members, nil
}
