// AngelaMos | 2026
// storage.go

package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spryng/elevyn/internal/config"
	"github.com/spryng/elevyn/internal/core"
)

const (
	maxStorageResponse = 64 << 10
	maxFilenameLength  = 120
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type SignedUpload struct {
	URL   string
	Token string
}

// StorageClient signs uploads against the blob storage API. It holds the
// service-role key, so its output is the only thing a browser ever sees.
type StorageClient struct {
	baseURL    string
	serviceKey string
	http       *http.Client
}

func NewStorageClient(cfg config.SupabaseConfig, timeout time.Duration) *StorageClient {
	return &StorageClient{
		baseURL:    cfg.StorageURL(),
		serviceKey: cfg.ServiceRoleKey,
		http:       &http.Client{Timeout: timeout},
	}
}

func (c *StorageClient) CreateSignedUploadURL(
	ctx context.Context,
	bucket, objectPath string,
) (*SignedUpload, error) {
	endpoint := c.baseURL + "/object/upload/sign/" +
		url.PathEscape(bucket) + "/" + escapePath(objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build sign request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign upload: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxStorageResponse))
	if err != nil {
		return nil, fmt.Errorf("read sign response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("sign upload: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode sign response: %w", err)
	}

	signed, err := url.Parse(body.URL)
	if err != nil || body.URL == "" {
		return nil, fmt.Errorf("sign upload: bad url %q", body.URL)
	}

	return &SignedUpload{
		URL:   c.baseURL + signed.String(),
		Token: signed.Query().Get("token"),
	}, nil
}

// ObjectPath places an upload under the workspace prefix with a unique
// component so two uploads of the same file never collide.
func ObjectPath(workspaceID, filename string) string {
	return workspaceID + "/" + uuid.NewString() + "-" + SanitizeFilename(filename)
}

func SanitizeFilename(name string) string {
	name = name[strings.LastIndexAny(name, `/\`)+1:]
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if len(name) > maxFilenameLength {
		name = name[len(name)-maxFilenameLength:]
	}
	if name == "" {
		return "file"
	}
	return name
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// UpstreamError reports a failed call to blob storage.
func UpstreamError(err error) *core.AppError {
	return core.NewAppError(
		err,
		"storage service rejected the request",
		http.StatusBadGateway,
		core.CodeUpstreamFailed,
	)
}
