// Package llm provides integration with LLM APIs (Gemini and Groq) for the
// reasoning steps of the complaint pipeline: ambiguous intent
// classification, follow-up context enhancement, free-form date extraction,
// and narrative text polishing.
//
// Architecture:
//   - Gemini: uses google.golang.org/genai (official SDK)
//   - Groq: uses github.com/openai/openai-go/v3 (OpenAI-compatible API)
//
// Fallback strategy:
//  1. Retry the same provider with full-jitter exponential backoff
//  2. Fall back to the secondary provider
//  3. Let the caller degrade to its deterministic path
package llm

import (
	"context"
	"time"
)

// Provider identifies an LLM provider.
type Provider string

const (
	// ProviderGemini is Google's Gemini API (non-OpenAI-compatible).
	ProviderGemini Provider = "gemini"
	// ProviderGroq is Groq's API (OpenAI-compatible, fast inference).
	ProviderGroq Provider = "groq"
)

// ProviderEndpoint defines the base URL for OpenAI-compatible providers.
// Gemini is not listed as it uses its own SDK.
var ProviderEndpoint = map[Provider]string{
	ProviderGroq: "https://api.groq.com/openai/v1/",
}

// String returns the string representation of the provider.
func (p Provider) String() string { return string(p) }

// Completer is a single-provider text completion backend.
type Completer interface {
	// Complete sends a system and user prompt and returns the raw text reply.
	Complete(ctx context.Context, system, user string) (string, error)
	// IsEnabled reports whether the backend is properly initialized.
	IsEnabled() bool
	// Provider returns the provider type for metrics.
	Provider() Provider
	// Close releases any resources held by the backend.
	Close() error
}

// RetryConfig defines retry behavior for LLM API calls.
// Uses AWS-recommended Full Jitter exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialDelay is the base delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries.
	MaxDelay time.Duration
}

// Default models. Flash-class models are enough for short structured
// replies and keep latency inside the pipeline budget.
const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultGroqModel   = "llama-3.3-70b-versatile"
)

// Retry configuration defaults.
const (
	DefaultMaxRetryAttempts  = 2
	DefaultInitialRetryDelay = 500 * time.Millisecond
	DefaultMaxRetryDelay     = 3 * time.Second
)

// DefaultRetryConfig returns the standard retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  DefaultMaxRetryAttempts,
		InitialDelay: DefaultInitialRetryDelay,
		MaxDelay:     DefaultMaxRetryDelay,
	}
}
