package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestFallbackUsedOnTransientPrimaryFailure(t *testing.T) {
	primary := &fakeCompleter{provider: ProviderGemini, err: errors.New("503 service unavailable")}
	secondary := &fakeCompleter{provider: ProviderGroq, reply: "CLASSIFICATION: knowledge\nCONFIDENCE: 0.9\nREASONING: ok"}
	c := NewClient(primary, secondary, fastRetry(), nil)

	result, err := c.Classify(context.Background(), "apa itu apn")
	require.NoError(t, err)
	assert.Equal(t, CategoryKnowledge, result.Category)
	// Transient errors retry before falling back
	assert.Equal(t, 2, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestNoFallbackOnPermanentError(t *testing.T) {
	primary := &fakeCompleter{provider: ProviderGemini, err: errors.New("invalid api key")}
	secondary := &fakeCompleter{provider: ProviderGroq, reply: "ok"}
	c := NewClient(primary, secondary, fastRetry(), nil)

	_, err := c.Classify(context.Background(), "query")
	require.Error(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, secondary.calls)
}

func TestQuotaExhaustionFallsBackWithoutRetry(t *testing.T) {
	primary := &fakeCompleter{provider: ProviderGemini, err: errors.New("quota exceeded")}
	secondary := &fakeCompleter{provider: ProviderGroq, reply: "improved"}
	c := NewClient(primary, secondary, fastRetry(), nil)

	improved, err := c.ImproveText(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "improved", improved)
	assert.Equal(t, 1, primary.calls)
}

func TestBothProvidersFailing(t *testing.T) {
	primary := &fakeCompleter{provider: ProviderGemini, err: errors.New("quota exceeded")}
	secondary := &fakeCompleter{provider: ProviderGroq, err: errors.New("502 bad gateway")}
	c := NewClient(primary, secondary, fastRetry(), nil)

	_, err := c.ImproveText(context.Background(), "text")
	assert.Error(t, err)
}

func TestIsEnabled(t *testing.T) {
	assert.False(t, (*Client)(nil).IsEnabled())
	assert.False(t, NewClient(nil, nil, fastRetry(), nil).IsEnabled())
	assert.True(t, newTestClient("x").IsEnabled())
}
