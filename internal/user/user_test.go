// AngelaMos | 2026
// user_test.go

package user

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/middleware"
	"github.com/spryng/elevyn/internal/testutil"
	"github.com/spryng/elevyn/internal/workspace"
)

const otherWorkspaceID = "44444444-4444-4444-4444-444444444444"

type recordingPointer struct {
	userID, workspaceID string
	err                 error
}

func (p *recordingPointer) SetActiveWorkspace(_ context.Context, userID, workspaceID string) error {
	p.userID, p.workspaceID = userID, workspaceID
	return p.err
}

func newHandler(
	t *testing.T,
	resolver *testutil.Resolver,
	pointer *recordingPointer,
) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := testutil.NewMockDB(t)
	return NewHandler(NewService(NewRepository(db), resolver, pointer)), mock
}

func getMe(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.GetMe(rec, req)
	return rec
}

func TestGetMe(t *testing.T) {
	h, mock := newHandler(t, testutil.NewResolver(), &recordingPointer{})

	mock.ExpectQuery(`SELECT m.workspace_id, w.name, m.role, m.created_at FROM workspace_members m`).
		WithArgs(testutil.UserID).
		WillReturnRows(sqlmock.NewRows([]string{"workspace_id", "name", "role", "created_at"}).
			AddRow(testutil.WorkspaceID, "Acme", "owner", time.Now()).
			AddRow(otherWorkspaceID, "Side Co", "member", time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), &middleware.Claims{
		UserID: testutil.UserID,
		Role:   "authenticated",
		Email:  "pat@example.com",
	}))
	rec := getMe(h, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var me MeResponse
	testutil.DecodeData(t, rec, &me)
	assert.Equal(t, testutil.UserID, me.ID)
	assert.Equal(t, "pat@example.com", me.Email)
	require.NotNil(t, me.ActiveWorkspaceID)
	assert.Equal(t, testutil.WorkspaceID, *me.ActiveWorkspaceID)
	require.Len(t, me.Workspaces, 2)
	assert.True(t, me.Workspaces[0].Active)
	assert.False(t, me.Workspaces[1].Active)
}

func TestGetMe_WithoutWorkspace(t *testing.T) {
	resolver := testutil.NewResolver()
	resolver.WorkspaceErr = workspace.ErrNoActiveWorkspace
	h, mock := newHandler(t, resolver, &recordingPointer{})

	mock.ExpectQuery(`FROM workspace_members m`).
		WithArgs(testutil.UserID).
		WillReturnRows(sqlmock.NewRows([]string{"workspace_id", "name", "role", "created_at"}))

	rec := getMe(h, testutil.AsUser(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), testutil.UserID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var me MeResponse
	testutil.DecodeData(t, rec, &me)
	assert.Nil(t, me.ActiveWorkspaceID)
	assert.NotNil(t, me.Workspaces)
	assert.Empty(t, me.Workspaces)
}

func TestGetMe_ResolverFailure(t *testing.T) {
	resolver := testutil.NewResolver()
	resolver.WorkspaceErr = errors.New("db down")
	h, _ := newHandler(t, resolver, &recordingPointer{})

	rec := getMe(h, testutil.AsUser(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), testutil.UserID))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetMe_Unauthenticated(t *testing.T) {
	h, _ := newHandler(t, testutil.NewResolver(), &recordingPointer{})

	rec := getMe(h, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSwitchWorkspace(t *testing.T) {
	tests := []struct {
		name        string
		body        any
		memberErr   error
		pointerErr  error
		wantStatus  int
		wantCode    string
		wantPointer string
	}{
		{
			name:        "member",
			body:        map[string]string{"workspace_id": testutil.WorkspaceID},
			wantStatus:  http.StatusNoContent,
			wantPointer: testutil.WorkspaceID,
		},
		{
			name:       "not a member",
			body:       map[string]string{"workspace_id": otherWorkspaceID},
			wantStatus: http.StatusForbidden,
			wantCode:   core.CodeForbidden,
		},
		{
			name:       "not a uuid",
			body:       map[string]string{"workspace_id": "acme"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   core.CodeValidation,
		},
		{
			name:       "bad json",
			body:       "{",
			wantStatus: http.StatusBadRequest,
			wantCode:   core.CodeBadJSON,
		},
		{
			name:       "pointer write fails",
			body:       map[string]string{"workspace_id": testutil.WorkspaceID},
			pointerErr:  errors.New("permission denied"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    core.CodeDBUpsertFailed,
			wantPointer: testutil.WorkspaceID,
		},
		{
			name:       "membership lookup fails",
			body:       map[string]string{"workspace_id": testutil.WorkspaceID},
			memberErr:  errors.New("db down"),
			wantStatus: http.StatusBadRequest,
			wantCode:   core.CodeDBUpsertFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := testutil.NewResolver()
			resolver.MemberErr = tt.memberErr
			pointer := &recordingPointer{err: tt.pointerErr}
			h, _ := newHandler(t, resolver, pointer)

			req := testutil.JSONRequest(t, http.MethodPut, "/api/users/me/active-workspace", tt.body)
			rec := httptest.NewRecorder()
			h.SwitchWorkspace(rec, testutil.AsUser(req, testutil.UserID))

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantCode != "" {
				env := testutil.DecodeEnvelope(t, rec)
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantCode, env.Error.Code)
			}
			assert.Equal(t, tt.wantPointer, pointer.workspaceID)
		})
	}
}
