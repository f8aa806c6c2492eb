package llm

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for provider configuration and selection failures.
var (
	// ErrProviderNotConfigured indicates no credential was present for the
	// provider at startup. Surfaced before any network call.
	ErrProviderNotConfigured = errors.New("provider not configured")
	// ErrNoProviderAvailable indicates every configured provider is at its
	// rate limit. Not retried; propagates to the caller.
	ErrNoProviderAvailable = errors.New("no provider available")
)

// Role tags a prompt message.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged turn of a prompt or conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Options control a single generation call. Zero values fall back to
// provider-specific defaults.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Result is the normalized output of a vendor call.
type Result struct {
	Content    string
	TokensUsed int
}

// Client is the common contract every vendor adapter satisfies.
type Client interface {
	// Generate sends the message list and returns the model's text output
	// with a token count (vendor-reported, or estimated when the vendor
	// does not report usage).
	Generate(ctx context.Context, messages []Message, opts Options) (*Result, error)
	// Provider returns the vendor this client talks to.
	Provider() Provider
}

// NewClient creates the adapter for a configured provider. A missing
// credential fails fast with ErrProviderNotConfigured.
func NewClient(ctx context.Context, provider Provider, registry *Registry) (Client, error) {
	cfg, err := registry.Config(provider)
	if err != nil {
		return nil, err
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg)
	case ProviderOpenAI, ProviderOpenRouter, ProviderDeepSeek, ProviderOllama:
		// All four speak the OpenAI chat completion protocol; the config's
		// BaseURL selects the endpoint.
		return NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// EstimateTokens approximates a token count as character length divided by
// four, used when the vendor API does not report usage.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

func resolveModel(opts Options, cfg *ProviderConfig) string {
	if opts.Model != "" {
		return opts.Model
	}
	return cfg.DefaultModel
}

func resolveMaxTokens(opts Options, cfg *ProviderConfig) int {
	if opts.MaxTokens > 0 {
		return opts.MaxTokens
	}
	if cfg.MaxTokens > 0 {
		return cfg.MaxTokens
	}
	return 2000
}

func resolveTemperature(opts Options) float64 {
	if opts.Temperature > 0 {
		return opts.Temperature
	}
	return 0.7
}
