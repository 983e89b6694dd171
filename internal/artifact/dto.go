// AngelaMos | 2026
// dto.go

package artifact

import (
	"strings"
	"time"
)

type ConfirmRequest struct {
	StorageBucket    string  `json:"storage_bucket"    validate:"required,max=100"`
	StoragePath      string  `json:"storage_path"      validate:"required,max=1024"`
	Category         string  `json:"category"          validate:"oneof=registration_proof notice report_proof other"`
	OriginalFilename *string `json:"original_filename" validate:"omitempty,max=255"`
	MimeType         *string `json:"mime_type"         validate:"omitempty,max=255"`
	SizeBytes        *int64  `json:"size_bytes"        validate:"omitempty,min=0"`
}

func (r *ConfirmRequest) ApplyDefaults() {
	r.StorageBucket = strings.TrimSpace(r.StorageBucket)
	r.StoragePath = strings.TrimSpace(r.StoragePath)
	if r.Category == "" {
		r.Category = CategoryRegistrationProof
	}
}

type UploadURLRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
}

type UploadURLResponse struct {
	Bucket    string `json:"storage_bucket"`
	Path      string `json:"storage_path"`
	SignedURL string `json:"signed_url"`
	Token     string `json:"token"`
}

type ArtifactResponse struct {
	ID               string    `json:"id"`
	WorkspaceID      string    `json:"workspace_id"`
	EmployerID       string    `json:"employer_id"`
	Category         string    `json:"category"`
	StorageBucket    string    `json:"storage_bucket"`
	StoragePath      string    `json:"storage_path"`
	OriginalFilename *string   `json:"original_filename"`
	MimeType         *string   `json:"mime_type"`
	SizeBytes        *int64    `json:"size_bytes"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

func ToArtifactResponse(a *Artifact) ArtifactResponse {
	resp := ArtifactResponse{
		ID:            a.ID,
		WorkspaceID:   a.WorkspaceID,
		EmployerID:    a.EmployerID,
		Category:      a.Category,
		StorageBucket: a.StorageBucket,
		StoragePath:   a.StoragePath,
		CreatedBy:     a.CreatedBy,
		CreatedAt:     a.CreatedAt,
	}
	if a.OriginalFilename.Valid {
		resp.OriginalFilename = &a.OriginalFilename.String
	}
	if a.MimeType.Valid {
		resp.MimeType = &a.MimeType.String
	}
	if a.SizeBytes.Valid {
		resp.SizeBytes = &a.SizeBytes.Int64
	}
	return resp
}

func ToArtifactResponseList(artifacts []Artifact) []ArtifactResponse {
	out := make([]ArtifactResponse, 0, len(artifacts))
	for i := range artifacts {
		out = append(out, ToArtifactResponse(&artifacts[i]))
	}
	return out
}
