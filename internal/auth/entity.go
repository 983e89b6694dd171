// AngelaMos | 2026
// entity.go

package auth

// Session is a token pair issued by the auth provider.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         ProviderUser `json:"user"`
}

type ProviderUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (s *Session) IsComplete() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}
