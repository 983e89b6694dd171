// AngelaMos | 2026
// entity.go

package user

import "time"

// Membership is one workspace the caller belongs to. Credentials and email
// live with the auth provider, not here.
type Membership struct {
	WorkspaceID string    `db:"workspace_id"`
	Name        string    `db:"name"`
	Role        string    `db:"role"`
	CreatedAt   time.Time `db:"created_at"`
}
