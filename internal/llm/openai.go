package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client for OpenAI and for the OpenAI-compatible
// vendors (OpenRouter, DeepSeek, Ollama) through a BaseURL override.
type OpenAIClient struct {
	client *openai.Client
	cfg    *ProviderConfig
}

// NewOpenAIClient creates a chat-completion adapter for the given provider.
func NewOpenAIClient(cfg *ProviderConfig) (*OpenAIClient, error) {
	if cfg.APIKey() == "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, cfg.ID)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey())
	if cfg.BaseURL() != "" {
		clientCfg.BaseURL = cfg.BaseURL()
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}, nil
}

// Provider returns the vendor identifier.
func (c *OpenAIClient) Provider() Provider { return c.cfg.ID }

// Generate sends the conversation as a chat completion request.
func (c *OpenAIClient) Generate(ctx context.Context, messages []Message, opts Options) (*Result, error) {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       resolveModel(opts, c.cfg),
		Messages:    chatMessages,
		MaxTokens:   resolveMaxTokens(opts, c.cfg),
		Temperature: float32(resolveTemperature(opts)),
	})
	if err != nil {
		return nil, fmt.Errorf("%s chat completion failed: %w", c.cfg.ID, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in %s response", c.cfg.ID)
	}

	content := resp.Choices[0].Message.Content
	tokens := resp.Usage.TotalTokens
	if tokens == 0 {
		tokens = EstimateTokens(content)
	}

	return &Result{Content: content, TokensUsed: tokens}, nil
}
