// AngelaMos | 2026
// service.go

package registration

import (
	"context"
	"database/sql"
	"errors"

	"github.com/spryng/elevyn/internal/core"
)

type WorkspaceResolver interface {
	ResolveActiveWorkspaceID(ctx context.Context, userID string) (string, error)
	ResolveEmployerIDForWorkspace(ctx context.Context, workspaceID string) (string, error)
	ResolveEmployerStateForWorkspace(ctx context.Context, workspaceID string) (string, error)
}

type Service struct {
	repo     Repository
	resolver WorkspaceResolver
}

func NewService(repo Repository, resolver WorkspaceResolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

func (s *Service) Upsert(
	ctx context.Context,
	userID string,
	req UpsertRequest,
) (*Case, error) {
	workspaceID, err := s.resolver.ResolveActiveWorkspaceID(ctx, userID)
	if err != nil {
		return nil, err
	}
	employerID, err := s.resolver.ResolveEmployerIDForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	stateCode, err := s.resolver.ResolveEmployerStateForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	c := &Case{
		WorkspaceID: workspaceID,
		EmployerID:  employerID,
		StateCode:   stateCode,
		Status:      req.Status,
	}
	if req.CurrentStepKey != nil {
		c.CurrentStepKey = sql.NullString{String: *req.CurrentStepKey, Valid: true}
	}

	return s.repo.Upsert(ctx, c)
}

// Current returns the caller's case, or nil when none was recorded yet.
func (s *Service) Current(ctx context.Context, userID string) (*Case, error) {
	workspaceID, err := s.resolver.ResolveActiveWorkspaceID(ctx, userID)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetByWorkspace(ctx, workspaceID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

// Rules returns the registration rules for the employer's state.
func (s *Service) Rules(ctx context.Context, userID string) (Rule, error) {
	workspaceID, err := s.resolver.ResolveActiveWorkspaceID(ctx, userID)
	if err != nil {
		return nil, err
	}
	stateCode, err := s.resolver.ResolveEmployerStateForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetRule(ctx, stateCode)
}
