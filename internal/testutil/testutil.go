// AngelaMos | 2026
// testutil.go

// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/middleware"
)

const (
	UserID      = "11111111-1111-1111-1111-111111111111"
	WorkspaceID = "22222222-2222-2222-2222-222222222222"
	EmployerID  = "33333333-3333-3333-3333-333333333333"
)

// NewMockDB returns a sqlx handle over sqlmock. Unmet expectations fail the
// test at cleanup.
func NewMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = mockDB.Close() //nolint:errcheck // test cleanup
	})

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

// JSONRequest builds a request with body encoded as JSON. A string body is
// sent verbatim so tests can post malformed JSON.
func JSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var raw []byte
	switch b := body.(type) {
	case nil:
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AsUser attaches an authenticated caller to req.
func AsUser(req *http.Request, userID string) *http.Request {
	ctx := middleware.WithClaims(req.Context(), &middleware.Claims{
		UserID: userID,
		Role:   "authenticated",
	})
	return req.WithContext(ctx)
}

// Envelope is the decoded form of the API response body.
type Envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func DecodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// DecodeData unmarshals the envelope's data member into dst.
func DecodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()

	env := DecodeEnvelope(t, rec)
	require.True(t, env.OK, "expected ok envelope, got %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

// RejectingVerifier fails every access token.
type RejectingVerifier struct{}

func (RejectingVerifier) VerifyAccessToken(context.Context, string) (*middleware.Claims, error) {
	return nil, core.ErrTokenInvalid
}
