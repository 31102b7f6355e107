// Provider construction from application configuration.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/telcoinsight/keluhan-bot-go/internal/config"
	"github.com/telcoinsight/keluhan-bot-go/internal/metrics"
)

// NewFromConfig builds the fallback client from configured API keys.
// Returns a disabled client (IsEnabled()==false) when no provider has a
// key; callers then rely on their deterministic fallbacks everywhere.
func NewFromConfig(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*Client, error) {
	gemini, err := newGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("init gemini: %w", err)
	}

	groq, err := newOpenAICompleter(ProviderGroq, cfg.GroqAPIKey, cfg.GroqModel)
	if err != nil {
		return nil, fmt.Errorf("init groq: %w", err)
	}

	var primary, fallback Completer
	switch {
	case gemini != nil && groq != nil:
		if Provider(cfg.LLMPrimaryProvider) == ProviderGroq {
			primary, fallback = groq, gemini
		} else {
			primary, fallback = gemini, groq
		}
	case gemini != nil:
		primary = gemini
	case groq != nil:
		primary = groq
	default:
		slog.Warn("no llm provider configured, reasoning steps will use local fallbacks")
	}

	if primary != nil {
		slog.Info("llm client configured",
			"primary", primary.Provider(),
			"fallback_available", fallback != nil)
	}

	return NewClient(primary, fallback, DefaultRetryConfig(), m), nil
}
