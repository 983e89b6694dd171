// AngelaMos | 2026
// core_test.go

package core

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestOK_WritesSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"id": "a"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Nil(t, body["error"])
	assert.Equal(t, "a", body["data"].(map[string]any)["id"])
}

func TestJSONError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, UnauthorizedError(""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, false, body["ok"])
	assert.Nil(t, body["data"])
	errBody := body["error"].(map[string]any)
	assert.Equal(t, CodeUnauthenticated, errBody["code"])
	assert.Equal(t, "authentication required", errBody["message"])
}

func TestJSONError_WrappedAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, fmt.Errorf("handler: %w", BadJSONError()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeBadJSON, decodeEnvelope(t, rec)["error"].(map[string]any)["code"])
}

func TestJSONError_PlainErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	errBody := decodeEnvelope(t, rec)["error"].(map[string]any)
	assert.Equal(t, CodeInternal, errBody["code"])
	assert.NotContains(t, errBody["message"], "boom")
}

func TestStoreWriteError_RelaysPostgresMessage(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:    "23503",
		Message: "insert or update violates foreign key constraint",
		Detail:  "Key (employer_id) is not present",
	}
	appErr := StoreWriteError(CodeDBInsertFailed, fmt.Errorf("insert artifact: %w", pgErr))

	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, CodeDBInsertFailed, appErr.Code)
	assert.Equal(t, pgErr.Message, appErr.Message)

	details := appErr.Details.(map[string]string)
	assert.Equal(t, "23503", details["code"])
	assert.Equal(t, pgErr.Detail, details["detail"])
	assert.True(t, errors.Is(appErr, ErrStoreRejected))
}

func TestStoreMessage_NonPostgresError(t *testing.T) {
	assert.Equal(t, "conn refused", StoreMessage(errors.New("conn refused")))
	assert.Equal(t, "", StoreMessage(nil))
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.True(t, IsDuplicateKeyError(fmt.Errorf("x: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsDuplicateKeyError(errors.New("plain")))
}

type dueDateRequest struct {
	Date   string `json:"first_report_due_date" validate:"required,ymd"`
	Source string `json:"source"                validate:"oneof=portal agency_page accountant other"`
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := Validate(v, dueDateRequest{Date: "10/01/2025", Source: "fax"})
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.StatusCode)
	assert.Equal(t, CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Message, "first_report_due_date must be a date in YYYY-MM-DD format")
	assert.Contains(t, appErr.Message, "source must be one of: portal, agency_page, accountant, other")

	details := appErr.Details.([]FieldError)
	require.Len(t, details, 2)
	assert.Equal(t, "first_report_due_date", details[0].Field)
}

func TestValidate_Passes(t *testing.T) {
	assert.NoError(t, Validate(NewValidator(), dueDateRequest{Date: "2025-10-01", Source: "portal"}))
}

func TestIsYMD(t *testing.T) {
	assert.True(t, IsYMD("2025-10-01"))
	assert.True(t, IsYMD("9999-99-99"))
	assert.False(t, IsYMD("2025-1-01"))
	assert.False(t, IsYMD("2025-10-01T00:00:00Z"))
	assert.False(t, IsYMD(""))
}

func TestDecodeJSON(t *testing.T) {
	var dst map[string]any

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	require.NoError(t, DecodeJSON(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":`))
	err := DecodeJSON(req, &dst)
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, CodeBadJSON, appErr.Code)
}

func TestTokens(t *testing.T) {
	token, err := GenerateClaimToken()
	require.NoError(t, err)
	assert.Len(t, token, 43)

	hash := HashToken(token)
	assert.Len(t, hash, 64)
	assert.True(t, CompareTokenHash(token, hash))
	assert.False(t, CompareTokenHash(token+"x", hash))

	other, err := GenerateClaimToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestInUserTx_SetsClaimsAndCommits(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`SET LOCAL ROLE authenticated`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`SELECT set_config\('request.jwt.claims', \$1, true\)`).
		WithArgs(`{"role":"authenticated","sub":"user-1"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err = InUserTx(t.Context(), db, "user-1", func(tx *sqlx.Tx) error {
		_, execErr := tx.ExecContext(t.Context(), "SELECT 1")
		return execErr
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInUserTx_RoleFailureRollsBack(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`SET LOCAL ROLE authenticated`).
		WillReturnError(&pgconn.PgError{Code: "22023", Message: `role "authenticated" does not exist`})
	mock.ExpectRollback()

	called := false
	err = InUserTx(t.Context(), db, "user-1", func(*sqlx.Tx) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsTransientStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"no row", fmt.Errorf("claim: %w", sql.ErrNoRows), false},
		{"raised by procedure", &pgconn.PgError{Code: "P0001"}, false},
		{"constraint", &pgconn.PgError{Code: "23505"}, false},
		{"serialization", fmt.Errorf("claim: %w", &pgconn.PgError{Code: "40001"}), true},
		{"connection", &pgconn.PgError{Code: "08006"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"network", errors.New("dial tcp: connection refused"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransientStoreError(tt.err))
		})
	}
}

func TestInTx_RollsBackOnError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("nope")
	err = InTx(t.Context(), db, func(tx *sqlx.Tx) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}
