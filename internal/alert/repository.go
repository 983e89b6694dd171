// AngelaMos | 2026
// repository.go

package alert

import (
	"context"
	"fmt"

	"github.com/spryng/elevyn/internal/core"
)

const listLimit = 50

type Repository interface {
	ListForMember(ctx context.Context, companyID, userID string) ([]Alert, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// ListForMember returns the newest alerts of a company. A caller who is not
// a member of that workspace gets none.
func (r *repository) ListForMember(
	ctx context.Context,
	companyID, userID string,
) ([]Alert, error) {
	query := `
		SELECT a.id, a.company_id, a.kind, a.title, a.body, a.severity,
			a.related_transaction_id, a.created_at
		FROM alerts a
		WHERE a.company_id = $1
			AND EXISTS (
				SELECT 1 FROM workspace_members m
				WHERE m.workspace_id = a.company_id AND m.user_id = $2
			)
		ORDER BY a.created_at DESC
		LIMIT $3`

	var alerts []Alert
	if err := r.db.SelectContext(ctx, &alerts, query, companyID, userID, listLimit); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}
