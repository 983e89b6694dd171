// AngelaMos | 2026
// reporting_test.go

package reporting

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/middleware"
	"github.com/spryng/elevyn/internal/testutil"
	"github.com/spryng/elevyn/internal/workspace"
)

var settingsRowColumns = []string{
	"workspace_id", "employer_id", "first_report_due_date",
	"first_report_due_date_source", "updated_at",
}

func newHandler(t *testing.T, resolver *testutil.Resolver) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := testutil.NewMockDB(t)
	return NewHandler(NewService(NewRepository(db), resolver)), mock
}

func post(t *testing.T, h *Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.JSONRequest(t, http.MethodPost, "/api/reporting/first-due-date", body)
	rec := httptest.NewRecorder()
	h.SetFirstDueDate(rec, testutil.AsUser(req, testutil.UserID))
	return rec
}

func TestSetFirstDueDate_RoundTrip(t *testing.T) {
	h, mock := newHandler(t, testutil.NewResolver())

	mock.ExpectQuery(`INSERT INTO employer_reporting_settings .* ON CONFLICT \(workspace_id\) DO UPDATE`).
		WithArgs(testutil.WorkspaceID, testutil.EmployerID, "2025-10-01", SourceAccountant).
		WillReturnRows(sqlmock.NewRows(settingsRowColumns).AddRow(
			testutil.WorkspaceID, testutil.EmployerID, "2025-10-01", SourceAccountant, time.Now(),
		))

	rec := post(t, h, map[string]string{
		"first_report_due_date": "2025-10-01",
		"source":                "accountant",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := testutil.DecodeEnvelope(t, rec)
	assert.True(t, env.OK)
	assert.Nil(t, env.Error)

	var resp SettingsResponse
	testutil.DecodeData(t, rec, &resp)
	assert.Equal(t, "2025-10-01", resp.FirstReportDueDate)
	assert.Equal(t, SourceAccountant, resp.DueDateSource)
}

func TestSetFirstDueDate_DefaultsSource(t *testing.T) {
	h, mock := newHandler(t, testutil.NewResolver())

	mock.ExpectQuery(`INSERT INTO employer_reporting_settings`).
		WithArgs(testutil.WorkspaceID, testutil.EmployerID, "2026-01-31", SourcePortal).
		WillReturnRows(sqlmock.NewRows(settingsRowColumns).AddRow(
			testutil.WorkspaceID, testutil.EmployerID, "2026-01-31", SourcePortal, time.Now(),
		))

	rec := post(t, h, map[string]string{"first_report_due_date": "2026-01-31"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSetFirstDueDate_RejectsBadDatesWithoutWriting(t *testing.T) {
	for _, date := range []string{"", "10/01/2025", "2025-1-1", "2025-10-01T00:00:00Z", "tomorrow"} {
		t.Run(date, func(t *testing.T) {
			resolver := testutil.NewResolver()
			h, _ := newHandler(t, resolver)

			rec := post(t, h, map[string]string{"first_report_due_date": date})

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			env := testutil.DecodeEnvelope(t, rec)
			assert.False(t, env.OK)
			assert.Equal(t, core.CodeValidation, env.Error.Code)
			assert.Zero(t, resolver.Calls())
		})
	}
}

func TestSetFirstDueDate_RejectsUnknownSource(t *testing.T) {
	h, _ := newHandler(t, testutil.NewResolver())

	rec := post(t, h, map[string]string{"first_report_due_date": "2025-10-01", "source": "fax"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSetFirstDueDate_NoWorkspace(t *testing.T) {
	resolver := testutil.NewResolver()
	resolver.WorkspaceErr = workspace.ErrNoActiveWorkspace
	h, _ := newHandler(t, resolver)

	rec := post(t, h, map[string]string{"first_report_due_date": "2025-10-01"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, core.CodeNoActiveWorkspace, testutil.DecodeEnvelope(t, rec).Error.Code)
}

func TestRoutes_RequireSession(t *testing.T) {
	h, _ := newHandler(t, testutil.NewResolver())

	r := chi.NewRouter()
	h.RegisterRoutes(r, middleware.Authenticator(middleware.SessionConfig{
		Verifier:   testutil.RejectingVerifier{},
		CookieName: "sb-access-token",
	}))

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/reporting/first-due-date"},
		{http.MethodGet, "/reporting/settings"},
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, testutil.JSONRequest(t, tc.method, tc.path, map[string]string{
			"first_report_due_date": "2025-10-01",
		}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
		assert.Equal(t, core.CodeUnauthenticated, testutil.DecodeEnvelope(t, rec).Error.Code)
	}
}
