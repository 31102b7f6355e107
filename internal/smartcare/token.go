package smartcare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	domerrors "github.com/telcoinsight/keluhan-bot-go/internal/errors"
)

// Tokens live one hour; refresh starts five minutes early so in-flight
// queries never race the expiry.
const (
	tokenLifetime    = time.Hour
	tokenRefreshSkew = 5 * time.Minute
)

type tokenResponse struct {
	AccessToken string `json:"AccessToken"`
}

// TokenManager caches the upstream access token and refreshes it on
// demand. Concurrent refreshes collapse into a single request.
type TokenManager struct {
	httpClient *http.Client
	tokenURL   string
	appKey     string
	appSecret  string

	group singleflight.Group
	now   func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenManager creates a token manager using the given HTTP client.
func NewTokenManager(httpClient *http.Client, tokenURL, appKey, appSecret string) *TokenManager {
	return &TokenManager{
		httpClient: httpClient,
		tokenURL:   tokenURL,
		appKey:     appKey,
		appSecret:  appSecret,
		now:        time.Now,
	}
}

// Token returns a valid access token, fetching a new one when the cached
// token is missing or inside the refresh window.
func (t *TokenManager) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	if t.token != "" && t.now().Before(t.expiresAt.Add(-tokenRefreshSkew)) {
		token := t.token
		t.mu.Unlock()
		return token, nil
	}
	t.mu.Unlock()

	result, err, _ := t.group.Do("token", func() (any, error) {
		return t.fetch(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Invalidate drops the cached token. Called after a 401 so the retry
// fetches a fresh one.
func (t *TokenManager) Invalidate() {
	t.mu.Lock()
	t.token = ""
	t.expiresAt = time.Time{}
	t.mu.Unlock()
}

func (t *TokenManager) fetch(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"app_key":    t.appKey,
		"app_secret": t.appSecret,
	})
	if err != nil {
		return "", fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", domerrors.NewUpstreamError(t.tokenURL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", domerrors.NewUpstreamError(t.tokenURL, resp.StatusCode,
			fmt.Errorf("token request failed: %s", string(raw)))
	}

	var parsed tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", domerrors.NewUpstreamError(t.tokenURL, resp.StatusCode,
			fmt.Errorf("decode token response: %w", err))
	}
	if parsed.AccessToken == "" {
		return "", domerrors.NewUpstreamError(t.tokenURL, resp.StatusCode,
			fmt.Errorf("empty access token in response"))
	}

	expiresAt := t.now().Add(tokenLifetime)

	t.mu.Lock()
	t.token = parsed.AccessToken
	t.expiresAt = expiresAt
	t.mu.Unlock()

	slog.Debug("smartcare access token refreshed", "expires_at", expiresAt)
	return parsed.AccessToken, nil
}
