// AngelaMos | 2026
// quiz_test.go

package quiz

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spryng/elevyn/internal/config"
	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/testutil"
)

const companyID = testutil.WorkspaceID

var (
	setRole   = `SET LOCAL ROLE authenticated`
	setClaims = `SELECT set_config\('request.jwt.claims', \$1, true\)`
)

func expectCallerTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec(setRole).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(setClaims).
		WithArgs(`{"role":"authenticated","sub":"` + testutil.UserID + `"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

type captureString struct {
	value *string
}

func (c captureString) Match(v driver.Value) bool {
	s, ok := v.(string)
	*c.value = s
	return ok
}

func newHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	return newHandlerWith(t, testutil.NewResolver())
}

func newHandlerWith(t *testing.T, resolver *testutil.Resolver) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := testutil.NewMockDB(t)
	cookie := NewClaimCookie(config.AuthConfig{ClaimCookieTTL: 7 * 24 * time.Hour})
	return NewHandler(NewService(db, resolver), cookie), mock
}

func TestParseAnswers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Answers
	}{
		{
			name: "absent",
			raw:  ``,
			want: Answers{ServicesYouProvide: []string{}, ServicesYouPayFor: []string{}},
		},
		{
			name: "empty object",
			raw:  `{}`,
			want: Answers{ServicesYouProvide: []string{}, ServicesYouPayFor: []string{}},
		},
		{
			name: "full",
			raw: `{"state":" ca ","paysIndividuals":true,"servicesYouProvide":["cleaning"],
				"servicesYouPayFor":["bookkeeping","design"],"totalPaid90d":1500.5,
				"numHelpers":2,"usesContracts":true,"hasW9s":false}`,
			want: Answers{
				State:              "CA",
				PaysIndividuals:    true,
				ServicesYouProvide: []string{"cleaning"},
				ServicesYouPayFor:  []string{"bookkeeping", "design"},
				TotalPaid90d:       1500.5,
				NumHelpers:         2,
				UsesContracts:      true,
			},
		},
		{
			name: "mistyped fields fall back",
			raw: `{"state":7,"paysIndividuals":"yes","servicesYouProvide":"cleaning",
				"servicesYouPayFor":["ok",3,""],"totalPaid90d":"lots","numHelpers":-4.5}`,
			want: Answers{ServicesYouProvide: []string{}, ServicesYouPayFor: []string{"ok"}},
		},
		{
			name: "fractional helpers truncate",
			raw:  `{"numHelpers":2.9}`,
			want: Answers{ServicesYouProvide: []string{}, ServicesYouPayFor: []string{}, NumHelpers: 2},
		},
		{
			name: "huge helper count is capped",
			raw:  `{"numHelpers":1e20}`,
			want: Answers{ServicesYouProvide: []string{}, ServicesYouPayFor: []string{}, NumHelpers: math.MaxInt32},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnswers(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseAnswers(json.RawMessage(`[1,2]`))
	assert.Error(t, err)
}

func TestSubmit_CallsProcedureAsCaller(t *testing.T) {
	h, mock := newHandler(t)

	expectCallerTx(mock)
	mock.ExpectQuery(`SELECT submit_readiness_assessment\(`).
		WithArgs(
			companyID,
			"TX",
			true,
			pq.Array([]string{"landscaping"}),
			pq.Array([]string{}),
			float64(0),
			3,
			false,
			false,
			sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"submit_readiness_assessment"}).AddRow("assess-1"))
	mock.ExpectCommit()

	req := testutil.JSONRequest(t, http.MethodPost, "/api/quiz/submit", map[string]any{
		"companyId": companyID,
		"answers": map[string]any{
			"state":              "TX",
			"paysIndividuals":    true,
			"servicesYouProvide": []string{"landscaping"},
			"numHelpers":         3,
		},
	})
	rec := httptest.NewRecorder()
	h.Submit(rec, testutil.AsUser(req, testutil.UserID))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp SubmitResponse
	testutil.DecodeData(t, rec, &resp)
	assert.Equal(t, "assess-1", resp.AssessmentID)
}

func TestSubmit_RelaysProcedureError(t *testing.T) {
	h, mock := newHandler(t)

	expectCallerTx(mock)
	mock.ExpectQuery(`SELECT submit_readiness_assessment\(`).
		WillReturnError(&pgconn.PgError{Code: "P0001", Message: "not a member of company"})
	mock.ExpectRollback()

	req := testutil.JSONRequest(t, http.MethodPost, "/api/quiz/submit", map[string]any{
		"companyId": companyID,
	})
	rec := httptest.NewRecorder()
	h.Submit(rec, testutil.AsUser(req, testutil.UserID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := testutil.DecodeEnvelope(t, rec)
	assert.Equal(t, core.CodeRPCFailed, env.Error.Code)
	assert.Equal(t, "not a member of company", env.Error.Message)
}

func TestSubmit_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body any
		code string
	}{
		{"no company", map[string]any{"answers": map[string]any{}}, core.CodeValidation},
		{"company not a uuid", map[string]any{"companyId": "acme"}, core.CodeValidation},
		{"answers not an object", map[string]any{"companyId": companyID, "answers": []int{1}}, core.CodeValidation},
		{"malformed", `{"companyId":`, core.CodeBadJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newHandler(t)

			req := testutil.JSONRequest(t, http.MethodPost, "/api/quiz/submit", tt.body)
			rec := httptest.NewRecorder()
			h.Submit(rec, testutil.AsUser(req, testutil.UserID))

			assert.Equal(t, tt.code, testutil.DecodeEnvelope(t, rec).Error.Code)
		})
	}
}

func TestSubmit_RejectsForeignCompany(t *testing.T) {
	const foreignCompany = "99999999-9999-9999-9999-999999999999"
	h, _ := newHandler(t)

	req := testutil.JSONRequest(t, http.MethodPost, "/api/quiz/submit", map[string]any{
		"companyId": foreignCompany,
		"answers":   map[string]any{"state": "CA"},
	})
	rec := httptest.NewRecorder()
	h.Submit(rec, testutil.AsUser(req, testutil.UserID))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, core.CodeForbidden, testutil.DecodeEnvelope(t, rec).Error.Code)
}

func TestSubmit_MembershipLookupFails(t *testing.T) {
	resolver := testutil.NewResolver()
	resolver.MemberErr = errors.New("connection reset")
	h, _ := newHandlerWith(t, resolver)

	req := testutil.JSONRequest(t, http.MethodPost, "/api/quiz/submit", map[string]any{
		"companyId": companyID,
	})
	rec := httptest.NewRecorder()
	h.Submit(rec, testutil.AsUser(req, testutil.UserID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, core.CodeRPCFailed, testutil.DecodeEnvelope(t, rec).Error.Code)
}

func TestAnonymous_RejectsNonObjectAnswers(t *testing.T) {
	h, _ := newHandler(t)

	req := testutil.JSONRequest(t, http.MethodPost, "/api/quiz/anonymous", `{"answers":"yes"}`)
	rec := httptest.NewRecorder()
	h.Anonymous(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, core.CodeValidation, testutil.DecodeEnvelope(t, rec).Error.Code)
}

func TestSubmit_Unauthenticated(t *testing.T) {
	h, _ := newHandler(t)

	rec := httptest.NewRecorder()
	h.Submit(rec, testutil.JSONRequest(t, http.MethodPost, "/api/quiz/submit", map[string]any{"companyId": companyID}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, core.CodeUnauthenticated, testutil.DecodeEnvelope(t, rec).Error.Code)
}

func TestAnonymous_ParksAnswersAndSetsCookie(t *testing.T) {
	h, mock := newHandler(t)

	var storedHash string
	mock.ExpectExec(`INSERT INTO quiz_claims \(token_hash, answers\)`).
		WithArgs(captureString{&storedHash}, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := testutil.JSONRequest(t, http.MethodPost, "/api/quiz/anonymous", map[string]any{
		"answers": map[string]any{"state": "NY"},
	})
	rec := httptest.NewRecorder()
	h.Anonymous(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, ClaimCookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 7*24*60*60, c.MaxAge)
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, core.HashToken(c.Value), storedHash)
	assert.NotEqual(t, c.Value, storedHash)

	var resp AnonymousResponse
	testutil.DecodeData(t, rec, &resp)
	assert.Equal(t, "/login?next=/onboarding", resp.Next)
}

func TestClaim(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	svc := NewService(db, testutil.NewResolver())

	expectCallerTx(mock)
	mock.ExpectQuery(`SELECT workspace_id, employer_id FROM claim_quiz_response\(\$1\)`).
		WithArgs(core.HashToken("raw-token")).
		WillReturnRows(sqlmock.NewRows([]string{"workspace_id", "employer_id"}).
			AddRow(testutil.WorkspaceID, nil))
	mock.ExpectCommit()

	res, err := svc.Claim(t.Context(), testutil.UserID, "raw-token")
	require.NoError(t, err)
	assert.Equal(t, testutil.WorkspaceID, res.WorkspaceID.String)
	assert.False(t, res.Complete())
}

func TestClaimCookie_Clear(t *testing.T) {
	rec := httptest.NewRecorder()
	NewClaimCookie(config.AuthConfig{}).Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ClaimCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
