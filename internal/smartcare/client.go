// Package smartcare implements the live MSISDN lookup workflow against
// the upstream usage-history API: token management, cached queries, and
// the Indonesian narratives rendered from the results.
package smartcare

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/telcoinsight/keluhan-bot-go/internal/config"
	domerrors "github.com/telcoinsight/keluhan-bot-go/internal/errors"
	"github.com/telcoinsight/keluhan-bot-go/internal/metrics"
)

// Fixed query parameters required by the upstream template.
const (
	paramSceneComb    = 1002
	paramRoamComb     = 1
	paramUUID         = "FEKAKFMOJOZgFA7iNzKQJGMQ9JLZJ7mi"
	paramTemplateCode = "CCH"
	paramLanguage     = "en_US"
	paramUserName     = "admin"
	paramGranularity  = "1h"
	paramServiceID    = "10010"
)

const (
	maxQueryAttempts  = 2
	timeoutRetryDelay = 2 * time.Second
)

type queryPayload struct {
	NumValue     string `json:"numValue"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	SceneComb    int    `json:"sceneComb"`
	RoamComb     int    `json:"roamComb"`
	UUID         string `json:"uuid"`
	TemplateCode string `json:"templateCode"`
	Language     string `json:"language"`
	UserName     string `json:"userName"`
	Granularity  string `json:"granularity"`
	ServiceID    string `json:"serviceid"`
}

// HistoryResponse is the upstream reply: one entry per hour bucket.
type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
}

// HistoryEntry is a single hourly measurement. The numeric fields arrive
// as either JSON numbers or strings depending on template version, so
// they use a tolerant decoder.
type HistoryEntry struct {
	Text         string    `json:"TEXT"`
	TotalTraffic flexFloat `json:"TOTALTRAFFIC"`
	TotalScore   flexFloat `json:"TOTALSCORE"`
	TotalLatency flexFloat `json:"TOTALINTERNALLATENCYCCH"`
	UTC          string    `json:"UTC"`
}

// flexFloat accepts a number, a numeric string, or null. Anything
// unparseable decodes to zero, matching the upstream's own tooling.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// Client queries the usage-history endpoint with token refresh and
// response caching.
type Client struct {
	httpClient *http.Client
	tokens     *TokenManager
	queryURL   string
	appKey     string
	cache      Cache
	metrics    *metrics.Metrics
}

// NewClient builds the client from config. cache and m may be nil.
func NewClient(cfg *config.Config, cache Cache, m *metrics.Metrics) *Client {
	// The upstream lives on an internal network behind self-signed
	// certificates.
	httpClient := &http.Client{
		Timeout: cfg.SmartCareTimeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		},
	}

	return &Client{
		httpClient: httpClient,
		tokens:     NewTokenManager(httpClient, cfg.SmartCareTokenURL, cfg.SmartCareAppKey, cfg.SmartCareAppSecret),
		queryURL:   cfg.SmartCareQueryURL,
		appKey:     cfg.SmartCareAppKey,
		cache:      cache,
		metrics:    m,
	}
}

// QueryHistory fetches hourly usage for the API-form msisdn (8xx...) over
// the given window. A 401 forces one token refresh; a timeout gets one
// delayed retry.
func (c *Client) QueryHistory(ctx context.Context, apiMSISDN, startTime, endTime string) (*HistoryResponse, error) {
	key := cacheKey(apiMSISDN, startTime, endTime)
	if c.cache != nil {
		if resp, ok := c.cache.Get(ctx, key); ok {
			if c.metrics != nil {
				c.metrics.RecordCacheHit("smartcare")
			}
			return resp, nil
		}
		if c.metrics != nil {
			c.metrics.RecordCacheMiss("smartcare")
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxQueryAttempts; attempt++ {
		resp, err := c.queryOnce(ctx, apiMSISDN, startTime, endTime)
		if err == nil {
			if c.cache != nil {
				c.cache.Set(ctx, key, resp)
			}
			c.recordRequest("success")
			return resp, nil
		}
		lastErr = err

		var upstream *domerrors.UpstreamError
		switch {
		case errors.As(err, &upstream) && upstream.StatusCode == http.StatusUnauthorized:
			slog.WarnContext(ctx, "smartcare token rejected, forcing refresh")
			c.tokens.Invalidate()
		case isTimeout(err):
			slog.WarnContext(ctx, "smartcare query timed out, retrying",
				"delay", timeoutRetryDelay)
			select {
			case <-time.After(timeoutRetryDelay):
			case <-ctx.Done():
				c.recordRequest("canceled")
				return nil, ctx.Err()
			}
		default:
			c.recordRequest("error")
			return nil, err
		}
	}

	c.recordRequest("error")
	return nil, lastErr
}

func (c *Client) queryOnce(ctx context.Context, apiMSISDN, startTime, endTime string) (*HistoryResponse, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	payload := queryPayload{
		NumValue:     apiMSISDN,
		StartTime:    startTime,
		EndTime:      endTime,
		SceneComb:    paramSceneComb,
		RoamComb:     paramRoamComb,
		UUID:         paramUUID,
		TemplateCode: paramTemplateCode,
		Language:     paramLanguage,
		UserName:     paramUserName,
		Granularity:  paramGranularity,
		ServiceID:    paramServiceID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal query payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("X-APP-Key", c.appKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domerrors.NewUpstreamError(c.queryURL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, domerrors.NewUpstreamError(c.queryURL, resp.StatusCode,
			fmt.Errorf("query failed: %s", string(raw)))
	}

	var parsed HistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, domerrors.NewUpstreamError(c.queryURL, resp.StatusCode,
			fmt.Errorf("decode query response: %w", err))
	}
	return &parsed, nil
}

func (c *Client) recordRequest(status string) {
	if c.metrics != nil {
		c.metrics.RecordSmartCareRequest(status)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
