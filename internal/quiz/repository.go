// AngelaMos | 2026
// repository.go

package quiz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/spryng/elevyn/internal/core"
)

type Repository interface {
	SubmitAssessment(ctx context.Context, companyID string, a Answers) (string, error)
	SaveClaim(ctx context.Context, tokenHash string, a Answers) error
	ClaimResponse(ctx context.Context, tokenHash string) (*ClaimResult, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) SubmitAssessment(
	ctx context.Context,
	companyID string,
	a Answers,
) (string, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}

	query := `
		SELECT submit_readiness_assessment(
			$1::uuid, $2, $3, $4::text[], $5::text[], $6, $7, $8, $9, $10::jsonb
		)`

	var id string
	err = r.db.GetContext(ctx, &id, query,
		companyID,
		a.State,
		a.PaysIndividuals,
		pq.Array(a.ServicesYouProvide),
		pq.Array(a.ServicesYouPayFor),
		a.TotalPaid90d,
		a.NumHelpers,
		a.UsesContracts,
		a.HasW9s,
		string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("submit readiness assessment: %w", err)
	}

	return id, nil
}

func (r *repository) SaveClaim(ctx context.Context, tokenHash string, a Answers) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	query := `INSERT INTO quiz_claims (token_hash, answers) VALUES ($1, $2::jsonb)`

	if _, err := r.db.ExecContext(ctx, query, tokenHash, string(payload)); err != nil {
		return fmt.Errorf("save quiz claim: %w", err)
	}
	return nil
}

func (r *repository) ClaimResponse(ctx context.Context, tokenHash string) (*ClaimResult, error) {
	query := `SELECT workspace_id, employer_id FROM claim_quiz_response($1)`

	var res ClaimResult
	if err := r.db.GetContext(ctx, &res, query, tokenHash); err != nil {
		return nil, fmt.Errorf("claim quiz response: %w", err)
	}
	return &res, nil
}
