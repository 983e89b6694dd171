// AngelaMos | 2026
// dto.go

package alert

import "time"

type ListRequest struct {
	CompanyID string `json:"companyId"`
}

// ListResponse keeps the alerts endpoint's own shape with the list at the
// top level. Failures carry a bare message in ErrorResponse.
type ListResponse struct {
	OK     bool            `json:"ok"`
	Alerts []AlertResponse `json:"alerts"`
}

type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type AlertResponse struct {
	ID                   string    `json:"id"`
	CompanyID            string    `json:"company_id"`
	Kind                 string    `json:"kind"`
	Title                string    `json:"title"`
	Body                 *string   `json:"body"`
	Severity             string    `json:"severity"`
	RelatedTransactionID *string   `json:"related_transaction_id"`
	CreatedAt            time.Time `json:"created_at"`
}

func ToAlertResponseList(alerts []Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		resp := AlertResponse{
			ID:        a.ID,
			CompanyID: a.CompanyID,
			Kind:      a.Kind,
			Title:     a.Title,
			Severity:  a.Severity,
			CreatedAt: a.CreatedAt,
		}
		if a.Body.Valid {
			resp.Body = &a.Body.String
		}
		if a.RelatedTransactionID.Valid {
			resp.RelatedTransactionID = &a.RelatedTransactionID.String
		}
		out = append(out, resp)
	}
	return out
}
