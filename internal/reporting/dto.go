// AngelaMos | 2026
// dto.go

package reporting

import (
	"strings"
	"time"
)

type FirstDueDateRequest struct {
	FirstReportDueDate string `json:"first_report_due_date" validate:"required,ymd"`
	Source             string `json:"source"                validate:"oneof=portal agency_page accountant other"`
}

func (r *FirstDueDateRequest) ApplyDefaults() {
	r.FirstReportDueDate = strings.TrimSpace(r.FirstReportDueDate)
	if r.Source == "" {
		r.Source = SourcePortal
	}
}

type SettingsResponse struct {
	WorkspaceID        string    `json:"workspace_id"`
	EmployerID         string    `json:"employer_id"`
	FirstReportDueDate string    `json:"first_report_due_date"`
	DueDateSource      string    `json:"first_report_due_date_source"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func ToSettingsResponse(s *Settings) *SettingsResponse {
	if s == nil {
		return nil
	}
	return &SettingsResponse{
		WorkspaceID:        s.WorkspaceID,
		EmployerID:         s.EmployerID,
		FirstReportDueDate: s.FirstReportDueDate,
		DueDateSource:      s.DueDateSource,
		UpdatedAt:          s.UpdatedAt,
	}
}
