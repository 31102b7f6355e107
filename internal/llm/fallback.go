// Cross-provider failover wrapper.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/telcoinsight/keluhan-bot-go/internal/metrics"
)

// Client fans a completion out to a primary provider with retry, then a
// fallback provider. Callers that can degrade deterministically should
// treat an error from Client as "skip the LLM step", not a hard failure.
type Client struct {
	primary     Completer
	fallback    Completer
	retryConfig RetryConfig
	metrics     *metrics.Metrics
}

// NewClient creates a fallback-enabled client. fallback and m may be nil.
func NewClient(primary, fallback Completer, cfg RetryConfig, m *metrics.Metrics) *Client {
	return &Client{
		primary:     primary,
		fallback:    fallback,
		retryConfig: cfg,
		metrics:     m,
	}
}

// IsEnabled returns true if at least one provider is usable.
func (c *Client) IsEnabled() bool {
	if c == nil {
		return false
	}
	return (c.primary != nil && c.primary.IsEnabled()) ||
		(c.fallback != nil && c.fallback.IsEnabled())
}

// Close closes both providers.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.primary != nil {
		if err := c.primary.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.fallback != nil {
		if err := c.fallback.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// complete tries the primary provider with retry, then the fallback.
// operation labels the metrics for the calling use case.
func (c *Client) complete(ctx context.Context, operation, system, user string) (string, error) {
	if c == nil || c.primary == nil {
		return "", errors.New("llm client not configured")
	}

	start := time.Now()
	provider := c.primary.Provider()

	result, err := c.completeWithRetry(ctx, c.primary, system, user)
	if err == nil {
		c.recordRequest(provider, operation, "success", time.Since(start))
		return result, nil
	}

	action := ClassifyError(err)
	slog.WarnContext(ctx, "primary llm provider failed",
		"provider", provider,
		"operation", operation,
		"error", err,
		"action", action.String(),
		"duration", time.Since(start))

	if action == ActionFail || c.fallback == nil {
		c.recordRequest(provider, operation, "error", time.Since(start))
		return "", err
	}

	slog.InfoContext(ctx, "falling back to secondary provider",
		"from", provider,
		"to", c.fallback.Provider(),
		"operation", operation)

	fallbackStart := time.Now()
	fallbackProvider := c.fallback.Provider()

	result, err = c.completeWithRetry(ctx, c.fallback, system, user)
	if err == nil {
		c.recordRequest(fallbackProvider, operation, "success", time.Since(fallbackStart))
		if c.metrics != nil {
			c.metrics.RecordLLMFallback(provider.String(), fallbackProvider.String(), operation)
		}
		return result, nil
	}

	c.recordRequest(fallbackProvider, operation, "error", time.Since(fallbackStart))
	slog.ErrorContext(ctx, "all llm providers failed",
		"primary", provider,
		"fallback", fallbackProvider,
		"operation", operation,
		"error", err)

	return "", fmt.Errorf("all providers failed: %w", err)
}

func (c *Client) completeWithRetry(ctx context.Context, completer Completer, system, user string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < c.retryConfig.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		result, err := completer.Complete(ctx, system, user)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if ClassifyError(err) != ActionRetry {
			return "", err
		}

		if attempt == c.retryConfig.MaxAttempts-1 {
			break
		}

		backoff := CalculateBackoff(attempt+1, c.retryConfig.InitialDelay, c.retryConfig.MaxDelay)
		if !HasSufficientBudget(ctx, backoff) {
			return "", fmt.Errorf("timeout during retry: %w", lastErr)
		}

		slog.DebugContext(ctx, "retrying llm completion",
			"provider", completer.Provider(),
			"attempt", attempt+1,
			"backoff", backoff,
			"error", err)

		if err := Sleep(ctx, backoff); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

func (c *Client) recordRequest(provider Provider, operation, status string, d time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordLLMRequest(provider.String(), operation, status, d.Seconds())
}
