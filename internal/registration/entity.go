// AngelaMos | 2026
// entity.go

package registration

import (
	"database/sql"
	"time"
)

const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
	StatusCompleted  = "completed"
	StatusBlocked    = "blocked"
)

// Case tracks an employer's state registration. One per workspace.
type Case struct {
	WorkspaceID    string         `db:"workspace_id"`
	EmployerID     string         `db:"employer_id"`
	StateCode      string         `db:"state_code"`
	Status         string         `db:"status"`
	CurrentStepKey sql.NullString `db:"current_step_key"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// Rule is a row of state_registration_rules. Its columns belong to the
// store, so it is kept as a column map.
type Rule map[string]any
