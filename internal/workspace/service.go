// AngelaMos | 2026
// service.go

package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/spryng/elevyn/internal/core"
)

const ownerRole = "owner"

type Service struct {
	db       *sqlx.DB
	resolver *Resolver
}

func NewService(db *sqlx.DB, resolver *Resolver) *Service {
	return &Service{db: db, resolver: resolver}
}

// SetupCompany creates or updates the caller's employer. A caller without a
// workspace gets a new one with themselves as owner. Everything commits in
// one transaction.
func (s *Service) SetupCompany(
	ctx context.Context,
	userID string,
	req CompanyRequest,
) (*CompanySetupResponse, error) {
	workspaceID, err := s.resolver.ResolveActiveWorkspaceID(ctx, userID)
	if err != nil && !errors.Is(err, ErrNoActiveWorkspace) {
		return nil, err
	}

	resp := &CompanySetupResponse{}

	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		if workspaceID == "" {
			id, createErr := repo.CreateWorkspace(ctx, req.DisplayName, userID)
			if createErr != nil {
				return createErr
			}
			if addErr := repo.AddMember(ctx, id, userID, ownerRole); addErr != nil {
				return addErr
			}
			workspaceID = id
			resp.Created = true
		}

		employer, upsertErr := repo.UpsertEmployer(
			ctx,
			workspaceID,
			req.DisplayName,
			req.StateCode,
		)
		if upsertErr != nil {
			return upsertErr
		}
		resp.Employer = ToEmployerResponse(employer)

		return repo.SetActiveWorkspace(ctx, userID, workspaceID)
	})
	if err != nil {
		return nil, fmt.Errorf("setup company: %w", err)
	}

	resp.WorkspaceID = workspaceID
	return resp, nil
}

// Current reports the caller's workspace and employer, with nulls for
// whatever does not exist yet.
func (s *Service) Current(
	ctx context.Context,
	userID string,
) (*CurrentResponse, error) {
	workspaceID, err := s.resolver.ResolveActiveWorkspaceID(ctx, userID)
	if errors.Is(err, ErrNoActiveWorkspace) {
		return &CurrentResponse{}, nil
	}
	if err != nil {
		return nil, err
	}

	resp := &CurrentResponse{WorkspaceID: &workspaceID}

	employer, err := s.resolver.ResolveEmployer(ctx, workspaceID)
	if errors.Is(err, ErrNoEmployerForWorkspace) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	employerResp := ToEmployerResponse(employer)
	resp.Employer = &employerResp
	return resp, nil
}
