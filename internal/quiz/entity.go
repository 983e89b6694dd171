// AngelaMos | 2026
// entity.go

package quiz

import (
	"database/sql"
	"encoding/json"
	"math"
	"strings"
)

// Answers is the readiness quiz payload. Scoring happens in the store.
type Answers struct {
	State              string   `json:"state"`
	PaysIndividuals    bool     `json:"paysIndividuals"`
	ServicesYouProvide []string `json:"servicesYouProvide"`
	ServicesYouPayFor  []string `json:"servicesYouPayFor"`
	TotalPaid90d       float64  `json:"totalPaid90d"`
	NumHelpers         int      `json:"numHelpers"`
	UsesContracts      bool     `json:"usesContracts"`
	HasW9s             bool     `json:"hasW9s"`
}

// ParseAnswers reads a quiz payload leniently. Absent or mistyped fields
// take their zero value and lists are never nil. Only a body that is not a
// JSON object at all is an error.
func ParseAnswers(raw json.RawMessage) (Answers, error) {
	a := Answers{
		ServicesYouProvide: []string{},
		ServicesYouPayFor:  []string{},
	}
	if len(raw) == 0 || string(raw) == "null" {
		return a, nil
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return a, err
	}

	a.State = strings.ToUpper(strings.TrimSpace(stringField(fields, "state")))
	a.PaysIndividuals = boolField(fields, "paysIndividuals")
	a.ServicesYouProvide = listField(fields, "servicesYouProvide")
	a.ServicesYouPayFor = listField(fields, "servicesYouPayFor")
	a.TotalPaid90d = numberField(fields, "totalPaid90d")
	a.NumHelpers = helperCount(numberField(fields, "numHelpers"))
	a.UsesContracts = boolField(fields, "usesContracts")
	a.HasW9s = boolField(fields, "hasW9s")

	return a, nil
}

// helperCount truncates n into [0, math.MaxInt32].
func helperCount(n float64) int {
	return int(math.Min(math.MaxInt32, math.Max(0, math.Trunc(n))))
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func boolField(fields map[string]any, key string) bool {
	b, _ := fields[key].(bool)
	return b
}

func numberField(fields map[string]any, key string) float64 {
	n, _ := fields[key].(float64)
	return n
}

func listField(fields map[string]any, key string) []string {
	items, _ := fields[key].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ClaimResult is what attaching a pre-signup quiz produced.
type ClaimResult struct {
	WorkspaceID sql.NullString `db:"workspace_id"`
	EmployerID  sql.NullString `db:"employer_id"`
}

func (c *ClaimResult) Complete() bool {
	return c.WorkspaceID.Valid && c.WorkspaceID.String != "" &&
		c.EmployerID.Valid && c.EmployerID.String != ""
}
