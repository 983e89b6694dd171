// AngelaMos | 2026
// service.go

package quiz

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/spryng/elevyn/internal/core"
)

// MembershipChecker reports whether a user belongs to a workspace. A
// company id is a workspace id.
type MembershipChecker interface {
	IsMember(ctx context.Context, userID, workspaceID string) (bool, error)
}

type Service struct {
	db      *sqlx.DB
	members MembershipChecker
}

func NewService(db *sqlx.DB, members MembershipChecker) *Service {
	return &Service{db: db, members: members}
}

// Submit scores answers for companyID, which the caller must belong to. The
// procedure then runs as the caller.
func (s *Service) Submit(
	ctx context.Context,
	userID, companyID string,
	answers Answers,
) (string, error) {
	ok, err := s.members.IsMember(ctx, userID, companyID)
	if err != nil {
		return "", fmt.Errorf("check company membership: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("submit assessment: %w", core.ErrForbidden)
	}

	var id string
	err = core.InUserTx(ctx, s.db, userID, func(tx *sqlx.Tx) error {
		var submitErr error
		id, submitErr = NewRepository(tx).SubmitAssessment(ctx, companyID, answers)
		return submitErr
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// SaveAnonymous parks answers taken before signup and returns the raw claim
// token for the browser.
func (s *Service) SaveAnonymous(ctx context.Context, answers Answers) (string, error) {
	token, err := core.GenerateClaimToken()
	if err != nil {
		return "", fmt.Errorf("generate claim token: %w", err)
	}

	if err := NewRepository(s.db).SaveClaim(ctx, core.HashToken(token), answers); err != nil {
		return "", err
	}
	return token, nil
}

// Claim attaches parked answers to the caller's account.
func (s *Service) Claim(
	ctx context.Context,
	userID, token string,
) (*ClaimResult, error) {
	var res *ClaimResult
	err := core.InUserTx(ctx, s.db, userID, func(tx *sqlx.Tx) error {
		var claimErr error
		res, claimErr = NewRepository(tx).ClaimResponse(ctx, core.HashToken(token))
		return claimErr
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
