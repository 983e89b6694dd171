// AngelaMos | 2026
// service.go

package reporting

import (
	"context"
	"errors"

	"github.com/spryng/elevyn/internal/core"
)

type WorkspaceResolver interface {
	ResolveActiveWorkspaceID(ctx context.Context, userID string) (string, error)
	ResolveEmployerIDForWorkspace(ctx context.Context, workspaceID string) (string, error)
}

type Service struct {
	repo     Repository
	resolver WorkspaceResolver
}

func NewService(repo Repository, resolver WorkspaceResolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

func (s *Service) SetFirstDueDate(
	ctx context.Context,
	userID string,
	req FirstDueDateRequest,
) (*Settings, error) {
	workspaceID, err := s.resolver.ResolveActiveWorkspaceID(ctx, userID)
	if err != nil {
		return nil, err
	}
	employerID, err := s.resolver.ResolveEmployerIDForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	return s.repo.UpsertFirstDueDate(ctx, &Settings{
		WorkspaceID:        workspaceID,
		EmployerID:         employerID,
		FirstReportDueDate: req.FirstReportDueDate,
		DueDateSource:      req.Source,
	})
}

func (s *Service) Current(ctx context.Context, userID string) (*Settings, error) {
	workspaceID, err := s.resolver.ResolveActiveWorkspaceID(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings, err := s.repo.GetByWorkspace(ctx, workspaceID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	return settings, err
}
