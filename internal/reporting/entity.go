// AngelaMos | 2026
// entity.go

package reporting

import "time"

const (
	SourcePortal     = "portal"
	SourceAgencyPage = "agency_page"
	SourceAccountant = "accountant"
	SourceOther      = "other"
)

// Settings holds an employer's reporting schedule. One per workspace.
type Settings struct {
	WorkspaceID        string    `db:"workspace_id"`
	EmployerID         string    `db:"employer_id"`
	FirstReportDueDate string    `db:"first_report_due_date"`
	DueDateSource      string    `db:"first_report_due_date_source"`
	UpdatedAt          time.Time `db:"updated_at"`
}
