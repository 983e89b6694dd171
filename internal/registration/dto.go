// AngelaMos | 2026
// dto.go

package registration

import (
	"strings"
	"time"
)

type UpsertRequest struct {
	Status         string  `json:"status"           validate:"required,oneof=not_started in_progress submitted completed blocked"`
	CurrentStepKey *string `json:"current_step_key" validate:"omitempty,max=100"`
}

func (r *UpsertRequest) Normalize() {
	r.Status = strings.TrimSpace(r.Status)
	if r.CurrentStepKey != nil {
		key := strings.TrimSpace(*r.CurrentStepKey)
		if key == "" {
			r.CurrentStepKey = nil
			return
		}
		r.CurrentStepKey = &key
	}
}

type CaseResponse struct {
	WorkspaceID    string    `json:"workspace_id"`
	EmployerID     string    `json:"employer_id"`
	StateCode      string    `json:"state_code"`
	Status         string    `json:"status"`
	CurrentStepKey *string   `json:"current_step_key"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToCaseResponse(c *Case) *CaseResponse {
	if c == nil {
		return nil
	}
	resp := &CaseResponse{
		WorkspaceID: c.WorkspaceID,
		EmployerID:  c.EmployerID,
		StateCode:   c.StateCode,
		Status:      c.Status,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.CurrentStepKey.Valid {
		resp.CurrentStepKey = &c.CurrentStepKey.String
	}
	return resp
}
