// Gemini implementation of the Completer interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

type geminiCompleter struct {
	client *genai.Client
	model  string
}

// newGeminiCompleter creates a Gemini-backed completer.
// Returns nil if apiKey is empty (provider disabled).
func newGeminiCompleter(ctx context.Context, apiKey, model string) (*geminiCompleter, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiCompleter{client: client, model: model}, nil
}

// Complete sends the prompt pair and returns the raw text response.
func (c *geminiCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if c == nil {
		return "", errors.New("gemini completer is nil")
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		// Low temperature: replies are parsed as labeled lines and must
		// stay on format.
		Temperature:     genai.Ptr[float32](0.1),
		MaxOutputTokens: 512,
	}

	start := time.Now()
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), config)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "gemini completion failed",
			"model", c.model,
			"input_length", len(user),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", WrapError(fmt.Errorf("generate content failed: %w", err), ProviderGemini, 0)
	}

	text := result.Text()
	if text == "" {
		return "", WrapError(errors.New("empty response from model"), ProviderGemini, 0)
	}

	if result.UsageMetadata != nil {
		slog.DebugContext(ctx, "gemini completion done",
			"model", c.model,
			"input_tokens", result.UsageMetadata.PromptTokenCount,
			"output_tokens", result.UsageMetadata.CandidatesTokenCount,
			"duration_ms", duration.Milliseconds())
	}

	return text, nil
}

// IsEnabled returns true if the completer is initialized.
func (c *geminiCompleter) IsEnabled() bool {
	return c != nil && c.client != nil
}

// Provider returns the provider type.
func (c *geminiCompleter) Provider() Provider { return ProviderGemini }

// Close releases resources. Safe to call on nil receiver.
func (c *geminiCompleter) Close() error {
	// genai.Client does not require explicit cleanup in the current SDK
	return nil
}
