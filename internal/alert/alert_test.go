// AngelaMos | 2026
// alert_test.go

package alert

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spryng/elevyn/internal/testutil"
)

const listAlerts = `FROM alerts a\s+WHERE a.company_id = \$1\s+AND EXISTS`

var alertColumns = []string{
	"id", "company_id", "kind", "title", "body", "severity",
	"related_transaction_id", "created_at",
}

func list(t *testing.T, h *Handler, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := testutil.JSONRequest(t, http.MethodPost, "/api/alerts/list", body)
	rec := httptest.NewRecorder()
	h.List(rec, testutil.AsUser(req, testutil.UserID))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestList_Empty(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	h := NewHandler(NewRepository(db))

	mock.ExpectQuery(listAlerts).
		WithArgs(testutil.WorkspaceID, testutil.UserID, listLimit).
		WillReturnRows(sqlmock.NewRows(alertColumns))

	rec, out := list(t, h, map[string]string{"companyId": testutil.WorkspaceID})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, []any{}, out["alerts"])
}

func TestList_NewestFirst(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	h := NewHandler(NewRepository(db))

	now := time.Now().UTC()
	mock.ExpectQuery(listAlerts + `.*ORDER BY a.created_at DESC\s+LIMIT \$3`).
		WithArgs(testutil.WorkspaceID, testutil.UserID, 50).
		WillReturnRows(sqlmock.NewRows(alertColumns).
			AddRow("a2", testutil.WorkspaceID, "1099_threshold", "Contractor over $600", nil, "warning", "tx-9", now).
			AddRow("a1", testutil.WorkspaceID, "deadline", "Quarterly filing due", "Due in 7 days", "info", nil, now.Add(-time.Hour)))

	rec, out := list(t, h, map[string]string{"companyId": testutil.WorkspaceID})

	require.Equal(t, http.StatusOK, rec.Code)
	alerts := out["alerts"].([]any)
	require.Len(t, alerts, 2)
	first := alerts[0].(map[string]any)
	assert.Equal(t, "a2", first["id"])
	assert.Nil(t, first["body"])
	assert.Equal(t, "tx-9", first["related_transaction_id"])
}

func TestList_InvalidCompanyIDNeverQueries(t *testing.T) {
	ids := []string{
		"",
		"acme",
		"1234",
		"550e8400-e29b-41d4-a716-44665544000Z",
		"urn:uuid:550e8400-e29b-41d4-a716-446655440000",
		"{550e8400-e29b-41d4-a716-446655440000}",
		"550e8400e29b41d4a716446655440000",
	}
	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			db, _ := testutil.NewMockDB(t)
			h := NewHandler(NewRepository(db))

			rec, out := list(t, h, map[string]string{"companyId": id})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, out["ok"])
			assert.Equal(t, "Invalid companyId", out["error"])
		})
	}
}

func TestList_BadJSON(t *testing.T) {
	db, _ := testutil.NewMockDB(t)
	h := NewHandler(NewRepository(db))

	rec, out := list(t, h, `{"companyId"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, out["ok"])
}

func TestList_StoreFailure(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	h := NewHandler(NewRepository(db))

	mock.ExpectQuery(listAlerts).WillReturnError(errors.New("relation \"alerts\" does not exist"))

	rec, out := list(t, h, map[string]string{"companyId": testutil.WorkspaceID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, out["ok"])
	assert.Contains(t, out["error"], "does not exist")
}

func TestList_Unauthenticated(t *testing.T) {
	db, _ := testutil.NewMockDB(t)
	h := NewHandler(NewRepository(db))

	rec := httptest.NewRecorder()
	h.List(rec, testutil.JSONRequest(t, http.MethodPost, "/api/alerts/list", map[string]string{
		"companyId": testutil.WorkspaceID,
	}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", testutil.DecodeEnvelope(t, rec).Error.Code)
}
