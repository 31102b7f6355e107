// OpenAI-compatible implementation of the Completer interface.
// Works with Groq and any other provider exposing the OpenAI API shape.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

type openaiCompleter struct {
	client   openai.Client
	model    string
	provider Provider
}

// newOpenAICompleter creates a completer for an OpenAI-compatible provider.
// Returns nil if apiKey is empty (provider disabled).
func newOpenAICompleter(provider Provider, apiKey, model string) (*openaiCompleter, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	baseURL, ok := ProviderEndpoint[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported OpenAI-compatible provider: %s", provider)
	}

	if model == "" {
		if provider != ProviderGroq {
			return nil, fmt.Errorf("no default model for provider: %s", provider)
		}
		model = DefaultGroqModel
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &openaiCompleter{client: client, model: model, provider: provider}, nil
}

// Complete sends the prompt pair and returns the raw text response.
func (c *openaiCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if c == nil {
		return "", errors.New("openai completer is nil")
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(512),
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "chat completion failed",
			"provider", c.provider,
			"model", c.model,
			"input_length", len(user),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", WrapError(fmt.Errorf("chat completion failed: %w", err), c.provider, 0)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", WrapError(errors.New("empty response from model"), c.provider, 0)
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "chat completion done",
			"provider", c.provider,
			"model", c.model,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"duration_ms", duration.Milliseconds())
	}

	return resp.Choices[0].Message.Content, nil
}

// IsEnabled returns true if the completer is initialized.
func (c *openaiCompleter) IsEnabled() bool { return c != nil }

// Provider returns the provider type.
func (c *openaiCompleter) Provider() Provider {
	if c == nil {
		return ""
	}
	return c.provider
}

// Close releases resources. The openai-go client needs no cleanup.
func (c *openaiCompleter) Close() error { return nil }
