// Package identity verifies bearer access tokens against the LINE profile
// endpoint and caches the resolved profiles.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chatmart/internal/model"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Provider resolves an access token to the profile it belongs to.
type Provider interface {
	Profile(ctx context.Context, accessToken string) (*model.Profile, error)
}

// HTTPProvider calls GET /v2/profile on the identity provider.
type HTTPProvider struct {
	baseURL string
	http    *http.Client
}

// NewHTTPProvider builds a provider for baseURL. A nil httpClient gets a
// traced client with the given timeout.
func NewHTTPProvider(baseURL string, timeout time.Duration, httpClient *http.Client) (*HTTPProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("identity provider base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &HTTPProvider{baseURL: baseURL, http: httpClient}, nil
}

// Profile returns the caller's profile. Any failure, including a rejected
// token, is an UpstreamAuthError.
func (p *HTTPProvider) Profile(ctx context.Context, accessToken string) (*model.Profile, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, model.NewUpstreamAuthError(errors.New("access token is empty"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v2/profile", nil)
	if err != nil {
		return nil, model.NewUpstreamAuthError(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, model.NewUpstreamAuthError(fmt.Errorf("call profile endpoint: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, model.NewUpstreamAuthError(fmt.Errorf("profile endpoint returned %s", resp.Status))
	}

	var profile model.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, model.NewUpstreamAuthError(fmt.Errorf("decode profile: %w", err))
	}
	if profile.UserID == "" {
		return nil, model.NewUpstreamAuthError(errors.New("profile has no user id"))
	}

	return &profile, nil
}
