// AngelaMos | 2026
// entity.go

package artifact

import (
	"database/sql"
	"time"
)

const (
	CategoryRegistrationProof = "registration_proof"
	CategoryNotice            = "notice"
	CategoryReportProof       = "report_proof"
	CategoryOther             = "other"
)

// Artifact references a proof document already uploaded to blob storage.
type Artifact struct {
	ID               string         `db:"id"`
	WorkspaceID      string         `db:"workspace_id"`
	EmployerID       string         `db:"employer_id"`
	Category         string         `db:"category"`
	StorageBucket    string         `db:"storage_bucket"`
	StoragePath      string         `db:"storage_path"`
	OriginalFilename sql.NullString `db:"original_filename"`
	MimeType         sql.NullString `db:"mime_type"`
	SizeBytes        sql.NullInt64  `db:"size_bytes"`
	CreatedBy        string         `db:"created_by"`
	CreatedAt        time.Time      `db:"created_at"`
}
