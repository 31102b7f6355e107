package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorAction
	}{
		{"nil", nil, ActionFail},
		{"canceled", context.Canceled, ActionFail},
		{"deadline", context.DeadlineExceeded, ActionRetry},
		{"quota", errors.New("quota exceeded for project"), ActionFallback},
		{"billing", errors.New("billing account disabled"), ActionFallback},
		{"rate limit", errors.New("rate limit reached, too many requests"), ActionRetry},
		{"server error", errors.New("503 service unavailable"), ActionRetry},
		{"timeout", errors.New("connection timeout"), ActionRetry},
		{"bad request", errors.New("400 bad request"), ActionFail},
		{"auth", errors.New("invalid api key"), ActionFail},
		{"forbidden", errors.New("403 forbidden"), ActionFail},
		{"unknown", errors.New("something odd happened"), ActionRetry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestClassifyErrorStatusCode(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorAction
	}{
		{429, ActionRetry},
		{500, ActionRetry},
		{503, ActionRetry},
		{400, ActionFail},
		{401, ActionFail},
		{404, ActionFail},
	}

	for _, tt := range tests {
		err := WrapError(errors.New("upstream"), ProviderGroq, tt.status)
		assert.Equal(t, tt.want, ClassifyError(err), "status %d", tt.status)
	}
}

func TestLLMErrorFormatting(t *testing.T) {
	base := errors.New("boom")
	err := WrapError(base, ProviderGemini, 429)

	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "429")
	assert.ErrorIs(t, err, base)

	var llmErr *LLMError
	assert.ErrorAs(t, err, &llmErr)
	assert.Equal(t, ProviderGemini, llmErr.Provider)
}

func TestWrapErrorNil(t *testing.T) {
	assert.NoError(t, WrapError(nil, ProviderGemini, 0))
}

func TestIsRetryableAndPermanent(t *testing.T) {
	assert.True(t, IsRetryable(errors.New("gateway timeout")))
	assert.True(t, IsPermanent(errors.New("401 unauthorized")))
	assert.False(t, IsPermanent(errors.New("overloaded")))
}
