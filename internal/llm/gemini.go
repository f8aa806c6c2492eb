package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	cfg    *ProviderConfig
}

// NewGeminiClient creates a new Gemini adapter.
func NewGeminiClient(ctx context.Context, cfg *ProviderConfig) (*GeminiClient, error) {
	if cfg.APIKey() == "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, cfg.ID)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, cfg: cfg}, nil
}

// Provider returns the vendor identifier.
func (c *GeminiClient) Provider() Provider { return c.cfg.ID }

// Generate sends the conversation to Gemini. The system turn maps to the
// model's system instruction; remaining turns become content parts.
func (c *GeminiClient) Generate(ctx context.Context, messages []Message, opts Options) (*Result, error) {
	model := c.client.GenerativeModel(resolveModel(opts, c.cfg))
	model.SetTemperature(float32(resolveTemperature(opts)))
	model.SetMaxOutputTokens(int32(resolveMaxTokens(opts, c.cfg)))

	system, turns := splitSystemMessage(messages)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	parts := make([]genai.Part, 0, len(turns))
	for _, m := range turns {
		parts = append(parts, genai.Text(m.Content))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	text, err := extractGeminiText(resp)
	if err != nil {
		return nil, err
	}

	tokens := EstimateTokens(text)
	if resp.UsageMetadata != nil && resp.UsageMetadata.TotalTokenCount > 0 {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &Result{Content: text, TokensUsed: tokens}, nil
}

// Close releases resources held by the underlying client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractGeminiText extracts text from a Gemini API response.
func extractGeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// splitSystemMessage separates the system turn from the conversation turns.
func splitSystemMessage(messages []Message) (string, []Message) {
	var system string
	turns := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem && system == "" {
			system = m.Content
			continue
		}
		turns = append(turns, m)
	}
	return system, turns
}
