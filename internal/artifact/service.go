// AngelaMos | 2026
// service.go

package artifact

import (
	"context"
	"database/sql"
	"fmt"
)

const listLimit = 100

// WorkspaceResolver scopes every artifact to the caller's own workspace.
type WorkspaceResolver interface {
	ResolveActiveWorkspaceID(ctx context.Context, userID string) (string, error)
	ResolveEmployerIDForWorkspace(ctx context.Context, workspaceID string) (string, error)
}

type UploadSigner interface {
	CreateSignedUploadURL(ctx context.Context, bucket, objectPath string) (*SignedUpload, error)
}

type Service struct {
	repo     Repository
	resolver WorkspaceResolver
	signer   UploadSigner
	bucket   string
}

func NewService(
	repo Repository,
	resolver WorkspaceResolver,
	signer UploadSigner,
	bucket string,
) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		signer:   signer,
		bucket:   bucket,
	}
}

func (s *Service) Confirm(
	ctx context.Context,
	userID string,
	req ConfirmRequest,
) (*Artifact, error) {
	workspaceID, err := s.resolver.ResolveActiveWorkspaceID(ctx, userID)
	if err != nil {
		return nil, err
	}
	employerID, err := s.resolver.ResolveEmployerIDForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	a := &Artifact{
		WorkspaceID:      workspaceID,
		EmployerID:       employerID,
		Category:         req.Category,
		StorageBucket:    req.StorageBucket,
		StoragePath:      req.StoragePath,
		OriginalFilename: nullString(req.OriginalFilename),
		MimeType:         nullString(req.MimeType),
		CreatedBy:        userID,
	}
	if req.SizeBytes != nil {
		a.SizeBytes = sql.NullInt64{Int64: *req.SizeBytes, Valid: true}
	}

	return s.repo.Create(ctx, a)
}

func (s *Service) CreateUploadURL(
	ctx context.Context,
	userID, filename string,
) (*UploadURLResponse, error) {
	workspaceID, err := s.resolver.ResolveActiveWorkspaceID(ctx, userID)
	if err != nil {
		return nil, err
	}

	objectPath := ObjectPath(workspaceID, filename)

	signed, err := s.signer.CreateSignedUploadURL(ctx, s.bucket, objectPath)
	if err != nil {
		return nil, fmt.Errorf("create upload url: %w", err)
	}

	return &UploadURLResponse{
		Bucket:    s.bucket,
		Path:      objectPath,
		SignedURL: signed.URL,
		Token:     signed.Token,
	}, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Artifact, error) {
	workspaceID, err := s.resolver.ResolveActiveWorkspaceID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByWorkspace(ctx, workspaceID, listLimit)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
