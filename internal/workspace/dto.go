// AngelaMos | 2026
// dto.go

package workspace

import "strings"

type CompanyRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=200"`
	StateCode   string `json:"state_code"   validate:"required,len=2,alpha,uppercase"`
}

func (r *CompanyRequest) Normalize() {
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.StateCode = strings.ToUpper(strings.TrimSpace(r.StateCode))
}

type EmployerResponse struct {
	ID          string  `json:"id"`
	WorkspaceID string  `json:"workspace_id"`
	StateCode   *string `json:"state_code"`
	DisplayName *string `json:"display_name"`
}

type CurrentResponse struct {
	WorkspaceID *string           `json:"workspace_id"`
	Employer    *EmployerResponse `json:"employer"`
}

type CompanySetupResponse struct {
	WorkspaceID string           `json:"workspace_id"`
	Employer    EmployerResponse `json:"employer"`
	Created     bool             `json:"created"`
}

func ToEmployerResponse(e *Employer) EmployerResponse {
	resp := EmployerResponse{
		ID:          e.ID,
		WorkspaceID: e.WorkspaceID,
	}
	if e.StateCode.Valid {
		resp.StateCode = &e.StateCode.String
	}
	if e.DisplayName.Valid {
		resp.DisplayName = &e.DisplayName.String
	}
	return resp
}
