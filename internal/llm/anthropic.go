package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client for Anthropic Claude.
type AnthropicClient struct {
	client anthropic.Client
	cfg    *ProviderConfig
}

// NewAnthropicClient creates a new Anthropic adapter.
func NewAnthropicClient(cfg *ProviderConfig) (*AnthropicClient, error) {
	if cfg.APIKey() == "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, cfg.ID)
	}

	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey())),
		cfg:    cfg,
	}, nil
}

// Provider returns the vendor identifier.
func (c *AnthropicClient) Provider() Provider { return c.cfg.ID }

// Generate sends the conversation to the Messages API. Anthropic takes the
// system message as a top-level parameter, so it is extracted from the turns.
func (c *AnthropicClient) Generate(ctx context.Context, messages []Message, opts Options) (*Result, error) {
	system, turns := splitSystemMessage(messages)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(resolveModel(opts, c.cfg)),
		MaxTokens:   int64(resolveMaxTokens(opts, c.cfg)),
		Temperature: anthropic.Float(resolveTemperature(opts)),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	for _, m := range turns {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic message failed: %w", err)
	}

	var content string
	for _, block := range msg.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	if content == "" {
		return nil, fmt.Errorf("no text content in anthropic response")
	}

	tokens := int(msg.Usage.InputTokens + msg.Usage.OutputTokens)
	if tokens == 0 {
		tokens = EstimateTokens(content)
	}

	return &Result{Content: content, TokensUsed: tokens}, nil
}
