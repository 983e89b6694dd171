// AngelaMos | 2026
// artifact_test.go

package artifact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spryng/elevyn/internal/config"
	"github.com/spryng/elevyn/internal/core"
	"github.com/spryng/elevyn/internal/testutil"
	"github.com/spryng/elevyn/internal/workspace"
)

var artifactRowColumns = []string{
	"id", "workspace_id", "employer_id", "category", "storage_bucket",
	"storage_path", "original_filename", "mime_type", "size_bytes",
	"created_by", "created_at",
}

type fakeSigner struct {
	bucket string
	path   string
	err    error
}

func (f *fakeSigner) CreateSignedUploadURL(
	_ context.Context,
	bucket, objectPath string,
) (*SignedUpload, error) {
	f.bucket, f.path = bucket, objectPath
	if f.err != nil {
		return nil, f.err
	}
	return &SignedUpload{URL: "https://storage.test/signed", Token: "tok"}, nil
}

func newHandler(
	t *testing.T,
	resolver *testutil.Resolver,
	signer UploadSigner,
) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := testutil.NewMockDB(t)
	return NewHandler(NewService(NewRepository(db), resolver, signer, "artifacts")), mock
}

func TestConfirm_InsertsScopedArtifact(t *testing.T) {
	h, mock := newHandler(t, testutil.NewResolver(), &fakeSigner{})

	mock.ExpectQuery(`INSERT INTO workspace_artifacts`).
		WithArgs(
			testutil.WorkspaceID,
			testutil.EmployerID,
			CategoryRegistrationProof,
			"artifacts",
			"ws/proof.pdf",
			"proof.pdf",
			nil,
			int64(2048),
			testutil.UserID,
		).
		WillReturnRows(sqlmock.NewRows(artifactRowColumns).AddRow(
			"a1", testutil.WorkspaceID, testutil.EmployerID, CategoryRegistrationProof,
			"artifacts", "ws/proof.pdf", "proof.pdf", nil, 2048,
			testutil.UserID, time.Now(),
		))

	req := testutil.JSONRequest(t, http.MethodPost, "/api/artifacts/confirm", map[string]any{
		"storage_bucket":    "artifacts",
		"storage_path":      "ws/proof.pdf",
		"original_filename": "proof.pdf",
		"size_bytes":        2048,
		"workspace_id":      "ignored-client-value",
	})
	rec := httptest.NewRecorder()
	h.Confirm(rec, testutil.AsUser(req, testutil.UserID))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ArtifactResponse
	testutil.DecodeData(t, rec, &resp)
	assert.Equal(t, "a1", resp.ID)
	assert.Equal(t, CategoryRegistrationProof, resp.Category)
	assert.Nil(t, resp.MimeType)
	require.NotNil(t, resp.SizeBytes)
	assert.Equal(t, int64(2048), *resp.SizeBytes)
}

func TestConfirm_Validation(t *testing.T) {
	tests := []struct {
		name string
		body any
		code string
		want int
	}{
		{"malformed", `{`, core.CodeBadJSON, http.StatusBadRequest},
		{"missing bucket", map[string]any{"storage_path": "p"}, core.CodeValidation, http.StatusUnprocessableEntity},
		{"missing path", map[string]any{"storage_bucket": "b"}, core.CodeValidation, http.StatusUnprocessableEntity},
		{"blank path", map[string]any{"storage_bucket": "b", "storage_path": "   "}, core.CodeValidation, http.StatusUnprocessableEntity},
		{"bad category", map[string]any{"storage_bucket": "b", "storage_path": "p", "category": "selfie"}, core.CodeValidation, http.StatusUnprocessableEntity},
		{"negative size", map[string]any{"storage_bucket": "b", "storage_path": "p", "size_bytes": -1}, core.CodeValidation, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := testutil.NewResolver()
			h, _ := newHandler(t, resolver, &fakeSigner{})

			req := testutil.JSONRequest(t, http.MethodPost, "/api/artifacts/confirm", tt.body)
			rec := httptest.NewRecorder()
			h.Confirm(rec, testutil.AsUser(req, testutil.UserID))

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, tt.code, testutil.DecodeEnvelope(t, rec).Error.Code)
			assert.Zero(t, resolver.Calls())
		})
	}
}

func TestConfirm_StoreFailure(t *testing.T) {
	h, mock := newHandler(t, testutil.NewResolver(), &fakeSigner{})

	mock.ExpectQuery(`INSERT INTO workspace_artifacts`).
		WillReturnError(errors.New("violates check constraint"))

	req := testutil.JSONRequest(t, http.MethodPost, "/api/artifacts/confirm", map[string]any{
		"storage_bucket": "b",
		"storage_path":   "p",
		"category":       CategoryNotice,
	})
	rec := httptest.NewRecorder()
	h.Confirm(rec, testutil.AsUser(req, testutil.UserID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := testutil.DecodeEnvelope(t, rec)
	assert.Equal(t, core.CodeDBInsertFailed, env.Error.Code)
	assert.Contains(t, env.Error.Message, "check constraint")
	assert.NotEmpty(t, env.Error.Details)
}

func TestConfirm_NoEmployer(t *testing.T) {
	resolver := testutil.NewResolver()
	resolver.EmployerErr = workspace.ErrNoEmployerForWorkspace
	h, _ := newHandler(t, resolver, &fakeSigner{})

	req := testutil.JSONRequest(t, http.MethodPost, "/api/artifacts/confirm", map[string]any{
		"storage_bucket": "b",
		"storage_path":   "p",
	})
	rec := httptest.NewRecorder()
	h.Confirm(rec, testutil.AsUser(req, testutil.UserID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, core.CodeNoEmployerForWorkspace, testutil.DecodeEnvelope(t, rec).Error.Code)
}

func TestHandlers_Unauthenticated(t *testing.T) {
	h, _ := newHandler(t, testutil.NewResolver(), &fakeSigner{})

	for name, fn := range map[string]http.HandlerFunc{
		"confirm":    h.Confirm,
		"upload-url": h.UploadURL,
		"list":       h.List,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			fn(rec, testutil.JSONRequest(t, http.MethodPost, "/", map[string]any{}))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, core.CodeUnauthenticated, testutil.DecodeEnvelope(t, rec).Error.Code)
		})
	}
}

func TestUploadURL(t *testing.T) {
	signer := &fakeSigner{}
	h, _ := newHandler(t, testutil.NewResolver(), signer)

	req := testutil.JSONRequest(t, http.MethodPost, "/api/artifacts/upload-url", map[string]any{
		"filename": "EIN letter (final).pdf",
	})
	rec := httptest.NewRecorder()
	h.UploadURL(rec, testutil.AsUser(req, testutil.UserID))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp UploadURLResponse
	testutil.DecodeData(t, rec, &resp)
	assert.Equal(t, "artifacts", resp.Bucket)
	assert.Equal(t, "artifacts", signer.bucket)
	assert.Equal(t, signer.path, resp.Path)
	assert.True(t, strings.HasPrefix(resp.Path, testutil.WorkspaceID+"/"))
	assert.True(t, strings.HasSuffix(resp.Path, "-EIN_letter_final_.pdf"))
	assert.Equal(t, "tok", resp.Token)
}

func TestUploadURL_StorageFailure(t *testing.T) {
	h, _ := newHandler(t, testutil.NewResolver(), &fakeSigner{err: errors.New("bucket not found")})

	req := testutil.JSONRequest(t, http.MethodPost, "/api/artifacts/upload-url", map[string]any{"filename": "a.pdf"})
	rec := httptest.NewRecorder()
	h.UploadURL(rec, testutil.AsUser(req, testutil.UserID))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, core.CodeUpstreamFailed, testutil.DecodeEnvelope(t, rec).Error.Code)
}

func TestList(t *testing.T) {
	h, mock := newHandler(t, testutil.NewResolver(), &fakeSigner{})

	mock.ExpectQuery(`FROM workspace_artifacts\s+WHERE workspace_id = \$1\s+ORDER BY created_at DESC`).
		WithArgs(testutil.WorkspaceID, listLimit).
		WillReturnRows(sqlmock.NewRows(artifactRowColumns))

	rec := httptest.NewRecorder()
	h.List(rec, testutil.AsUser(httptest.NewRequest(http.MethodGet, "/api/artifacts", nil), testutil.UserID))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []ArtifactResponse
	testutil.DecodeData(t, rec, &resp)
	assert.Empty(t, resp)
	assert.NotNil(t, resp)
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":           "report.pdf",
		"../../etc/passwd":     "passwd",
		`C:\Users\me\scan.png`: "scan.png",
		"my scan #2.jpg":       "my_scan_2.jpg",
		"...":                  "file",
		"":                     "file",
	}

	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}

	long := strings.Repeat("a", 300)
	assert.Equal(t, strings.Repeat("a", maxFilenameLength), SanitizeFilename(long))
}

func TestStorageClient_SignsUpload(t *testing.T) {
	var gotPath, gotAuth, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"/object/upload/sign/artifacts/ws/x.pdf?token=abc"}`))
	}))
	defer srv.Close()

	client := NewStorageClient(config.SupabaseConfig{
		URL:            srv.URL,
		ServiceRoleKey: "service-key",
	}, time.Second)

	signed, err := client.CreateSignedUploadURL(t.Context(), "artifacts", "ws/x.pdf")
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/upload/sign/artifacts/ws/x.pdf", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "service-key", gotKey)
	assert.Equal(t, "abc", signed.Token)
	assert.Equal(t, srv.URL+"/storage/v1/object/upload/sign/artifacts/ws/x.pdf?token=abc", signed.URL)
}

func TestStorageClient_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"Bucket not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewStorageClient(config.SupabaseConfig{URL: srv.URL}, time.Second)

	_, err := client.CreateSignedUploadURL(t.Context(), "missing", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
