// AngelaMos | 2026
// dto.go

package quiz

import "encoding/json"

type SubmitRequest struct {
	CompanyID string          `json:"companyId" validate:"required,uuid"`
	Answers   json.RawMessage `json:"answers"`
}

type AnonymousRequest struct {
	Answers json.RawMessage `json:"answers"`
}

type SubmitResponse struct {
	AssessmentID string `json:"assessment_id"`
}

type AnonymousResponse struct {
	Next string `json:"next"`
}
