// AngelaMos | 2026
// dto.go

package user

import "time"

type SwitchWorkspaceRequest struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid"`
}

type MembershipResponse struct {
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Active      bool      `json:"active"`
	JoinedAt    time.Time `json:"joined_at"`
}

type MeResponse struct {
	ID                string               `json:"id"`
	Email             string               `json:"email,omitempty"`
	Role              string               `json:"role"`
	ActiveWorkspaceID *string              `json:"active_workspace_id"`
	Workspaces        []MembershipResponse `json:"workspaces"`
}

func ToMembershipResponseList(members []Membership, activeID string) []MembershipResponse {
	out := make([]MembershipResponse, 0, len(members))
	for _, m := range members {
		out = append(out, MembershipResponse{
			WorkspaceID: m.WorkspaceID,
			Name:        m.Name,
			Role:        m.Role,
			Active:      m.WorkspaceID == activeID,
			JoinedAt:    m.CreatedAt,
		})
	}
	return out
}
