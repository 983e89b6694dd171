// AngelaMos | 2026
// provider.go

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spryng/elevyn/internal/config"
	"github.com/spryng/elevyn/internal/core"
)

const maxProviderResponse = 1 << 20

// IdentityProvider is the subset of the auth provider's API this service
// drives. Sessions are always owned by the provider.
type IdentityProvider interface {
	ExchangeCode(ctx context.Context, authCode, codeVerifier string) (*Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
	SendMagicLink(ctx context.Context, email, redirectTo, codeChallenge string) error
	Logout(ctx context.Context, accessToken string) error
}

type ProviderClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewProviderClient builds a client for the GoTrue API that authenticates
// with the public anon key.
func NewProviderClient(cfg config.SupabaseConfig, timeout time.Duration) *ProviderClient {
	return &ProviderClient{
		baseURL: cfg.AuthURL(),
		apiKey:  cfg.AnonKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *ProviderClient) ExchangeCode(
	ctx context.Context,
	authCode, codeVerifier string,
) (*Session, error) {
	var session Session
	err := c.do(ctx, "/token?grant_type=pkce", "", pkceGrantRequest{
		AuthCode:     authCode,
		CodeVerifier: codeVerifier,
	}, &session)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return &session, nil
}

func (c *ProviderClient) RefreshSession(
	ctx context.Context,
	refreshToken string,
) (*Session, error) {
	var session Session
	err := c.do(ctx, "/token?grant_type=refresh_token", "", refreshGrantRequest{
		RefreshToken: refreshToken,
	}, &session)
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return &session, nil
}

func (c *ProviderClient) SendMagicLink(
	ctx context.Context,
	email, redirectTo, codeChallenge string,
) error {
	path := "/otp?redirect_to=" + url.QueryEscape(redirectTo)
	err := c.do(ctx, path, "", otpRequest{
		Email:               email,
		CreateUser:          true,
		CodeChallenge:       codeChallenge,
		CodeChallengeMethod: "s256",
	}, nil)
	if err != nil {
		return fmt.Errorf("send magic link: %w", err)
	}
	return nil
}

func (c *ProviderClient) Logout(ctx context.Context, accessToken string) error {
	if err := c.do(ctx, "/logout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Ping reports whether the provider's health endpoint answers.
func (c *ProviderClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrProviderFailure, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", core.ErrProviderFailure, resp.StatusCode)
	}
	return nil
}

func (c *ProviderClient) do(
	ctx context.Context,
	path, bearer string,
	body, out any,
) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		reader,
	)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrProviderFailure, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderResponse))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var pe providerError
		//nolint:errcheck // fall back to the generic message
		_ = json.Unmarshal(raw, &pe)
		return fmt.Errorf(
			"%w: status %d: %s",
			core.ErrProviderFailure,
			resp.StatusCode,
			pe.text(),
		)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
