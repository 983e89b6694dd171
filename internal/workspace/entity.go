// AngelaMos | 2026
// entity.go

package workspace

import (
	"database/sql"
)

// Employer is the business being onboarded. Each workspace has at most one.
type Employer struct {
	ID          string         `db:"id"`
	WorkspaceID string         `db:"workspace_id"`
	StateCode   sql.NullString `db:"state_code"`
	DisplayName sql.NullString `db:"display_name"`
}

func (e *Employer) HasState() bool {
	return e.StateCode.Valid && e.StateCode.String != ""
}
