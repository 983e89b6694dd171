// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/middleware"
	"github.com/spryng/elevyn/internal/workspace"
)

type WorkspaceResolver interface {
	ResolveActiveWorkspaceID(ctx context.Context, userID string) (string, error)
	IsMember(ctx context.Context, userID, workspaceID string) (bool, error)
}

// ActivePointer moves a profile's active workspace.
type ActivePointer interface {
	SetActiveWorkspace(ctx context.Context, userID, workspaceID string) error
}

type Service struct {
	repo     Repository
	resolver WorkspaceResolver
	pointer  ActivePointer
}

func NewService(repo Repository, resolver WorkspaceResolver, pointer ActivePointer) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		pointer:  pointer,
	}
}

func (s *Service) GetMe(ctx context.Context, claims *middleware.Claims) (*MeResponse, error) {
	activeID, err := s.resolver.ResolveActiveWorkspaceID(ctx, claims.UserID)
	if err != nil && !errors.Is(err, workspace.ErrNoActiveWorkspace) {
		return nil, err
	}

	members, err := s.repo.ListMemberships(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	resp := &MeResponse{
		ID:         claims.UserID,
		Email:      claims.Email,
		Role:       claims.Role,
		Workspaces: ToMembershipResponseList(members, activeID),
	}
	if activeID != "" {
		resp.ActiveWorkspaceID = &activeID
	}
	return resp, nil
}

// SwitchWorkspace points the caller at another workspace they belong to.
func (s *Service) SwitchWorkspace(ctx context.Context, userID, workspaceID string) error {
	ok, err := s.resolver.IsMember(ctx, userID, workspaceID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("switch workspace: %w", core.ErrForbidden)
	}

	return s.pointer.SetActiveWorkspace(ctx, userID, workspaceID)
}
