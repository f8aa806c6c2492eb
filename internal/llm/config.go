// Package llm provides the provider registry and client abstractions for
// text generation vendors.
package llm

import (
	"fmt"
	"os"
)

// Provider identifies a configured text-generation vendor.
type Provider string

// Provider constants define supported vendors.
const (
	ProviderOpenAI     Provider = "openai"
	ProviderGemini     Provider = "gemini"
	ProviderAnthropic  Provider = "anthropic"
	ProviderOllama     Provider = "ollama"
	ProviderDeepSeek   Provider = "deepseek"
	ProviderOpenRouter Provider = "openrouter"
)

// ProviderConfig is the static per-vendor descriptor. Instances are immutable
// after startup; providers without a credential are omitted from the registry.
type ProviderConfig struct {
	ID                Provider `json:"id"`
	DisplayName       string   `json:"displayName"`
	Description       string   `json:"description"`
	DefaultModel      string   `json:"defaultModel"`
	SupportedModels   []string `json:"supportedModels"`
	MaxTokens         int      `json:"maxTokens"`
	SupportsStreaming bool     `json:"supportsStreaming"`
	RequestsPerMinute int      `json:"requestsPerMinute"`
	TokensPerMinute   int      `json:"tokensPerMinute"`
	InputCostPer1K    float64  `json:"inputCostPer1K"`
	OutputCostPer1K   float64  `json:"outputCostPer1K"`
	Capabilities      []string `json:"capabilities"`
	// LatencyMS and Reliability are nominal figures used by the
	// recommendation endpoint, not live measurements.
	LatencyMS   float64 `json:"latencyMs"`
	Reliability float64 `json:"reliability"`

	apiKey  string
	baseURL string
}

// APIKey returns the credential captured at startup.
func (c *ProviderConfig) APIKey() string { return c.apiKey }

// BaseURL returns the endpoint override, if any (OpenRouter, DeepSeek, Ollama).
func (c *ProviderConfig) BaseURL() string { return c.baseURL }

// ProviderStatus is the registry's public view of one provider.
type ProviderStatus struct {
	ID        Provider        `json:"id"`
	Available bool            `json:"available"`
	Config    *ProviderConfig `json:"config"`
}

// Registry holds the providers discovered from the environment at startup.
// Registration order is the canonical scan order for fallback selection.
type Registry struct {
	order   []Provider
	configs map[Provider]*ProviderConfig
}

// NewRegistry builds the registry from environment credentials. Presence of a
// credential is the sole availability signal; no health probe is performed.
func NewRegistry() *Registry {
	r := &Registry{configs: make(map[Provider]*ProviderConfig)}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		r.Register(openAIConfig(key))
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		r.Register(geminiConfig(key))
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		r.Register(anthropicConfig(key))
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		r.Register(ollamaConfig(host))
	}
	if key := os.Getenv("DEEPSEEK_API_KEY"); key != "" {
		r.Register(deepSeekConfig(key))
	}
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		r.Register(openRouterConfig(key))
	}

	return r
}

// NewRegistryWith builds a registry from explicit configs, in the given
// order. Used by tests and by regeneration of recorded requests.
func NewRegistryWith(configs ...*ProviderConfig) *Registry {
	r := &Registry{configs: make(map[Provider]*ProviderConfig)}
	for _, cfg := range configs {
		r.Register(cfg)
	}
	return r
}

// Register adds a provider to the registry. Later registrations of the same
// ID replace the config but keep the original position.
func (r *Registry) Register(cfg *ProviderConfig) {
	if _, exists := r.configs[cfg.ID]; !exists {
		r.order = append(r.order, cfg.ID)
	}
	r.configs[cfg.ID] = cfg
}

// List returns all configured providers in registration order.
func (r *Registry) List() []ProviderStatus {
	statuses := make([]ProviderStatus, 0, len(r.order))
	for _, id := range r.order {
		statuses = append(statuses, ProviderStatus{ID: id, Available: true, Config: r.configs[id]})
	}
	return statuses
}

// Config returns the configuration for a provider, or an error if the
// provider has no credential configured.
func (r *Registry) Config(id Provider) (*ProviderConfig, error) {
	cfg, ok := r.configs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, id)
	}
	return cfg, nil
}

// Status returns the public view of one provider, or an error if it has no
// credential configured.
func (r *Registry) Status(id Provider) (*ProviderStatus, error) {
	cfg, err := r.Config(id)
	if err != nil {
		return nil, err
	}
	return &ProviderStatus{ID: id, Available: true, Config: cfg}, nil
}

// Available reports whether the provider was configured at startup.
func (r *Registry) Available(id Provider) bool {
	_, ok := r.configs[id]
	return ok
}

// Order returns provider IDs in registration order.
func (r *Registry) Order() []Provider {
	out := make([]Provider, len(r.order))
	copy(out, r.order)
	return out
}

func openAIConfig(key string) *ProviderConfig {
	return &ProviderConfig{
		ID:                ProviderOpenAI,
		DisplayName:       "OpenAI GPT-4",
		Description:       "Advanced AI model with excellent creative writing capabilities",
		DefaultModel:      "gpt-4",
		SupportedModels:   []string{"gpt-4", "gpt-4-turbo", "gpt-3.5-turbo"},
		MaxTokens:         8192,
		SupportsStreaming: true,
		RequestsPerMinute: 60,
		TokensPerMinute:   90000,
		InputCostPer1K:    0.03,
		OutputCostPer1K:   0.06,
		Capabilities:      []string{"chat", "json"},
		LatencyMS:         2500,
		Reliability:       0.99,
		apiKey:            key,
	}
}

func geminiConfig(key string) *ProviderConfig {
	return &ProviderConfig{
		ID:                ProviderGemini,
		DisplayName:       "Google Gemini",
		Description:       "Google's powerful multimodal AI model",
		DefaultModel:      "gemini-2.5-flash",
		SupportedModels:   []string{"gemini-2.5-flash", "gemini-2.5-pro"},
		MaxTokens:         8192,
		SupportsStreaming: true,
		RequestsPerMinute: 60,
		TokensPerMinute:   120000,
		InputCostPer1K:    0.00125,
		OutputCostPer1K:   0.005,
		Capabilities:      []string{"chat", "json"},
		LatencyMS:         1800,
		Reliability:       0.98,
		apiKey:            key,
	}
}

func anthropicConfig(key string) *ProviderConfig {
	return &ProviderConfig{
		ID:                ProviderAnthropic,
		DisplayName:       "Anthropic Claude",
		Description:       "Claude AI with strong reasoning and safety features",
		DefaultModel:      "claude-3-5-sonnet-latest",
		SupportedModels:   []string{"claude-3-5-sonnet-latest", "claude-3-5-haiku-latest"},
		MaxTokens:         8192,
		SupportsStreaming: true,
		RequestsPerMinute: 50,
		TokensPerMinute:   80000,
		InputCostPer1K:    0.003,
		OutputCostPer1K:   0.015,
		Capabilities:      []string{"chat", "json"},
		LatencyMS:         2200,
		Reliability:       0.99,
		apiKey:            key,
	}
}

func ollamaConfig(host string) *ProviderConfig {
	return &ProviderConfig{
		ID:                ProviderOllama,
		DisplayName:       "Ollama (Local)",
		Description:       "Local AI model for privacy-focused generation",
		DefaultModel:      "llama3",
		SupportedModels:   []string{"llama3", "llama2", "mistral"},
		MaxTokens:         4096,
		SupportsStreaming: true,
		RequestsPerMinute: 120,
		TokensPerMinute:   200000,
		Capabilities:      []string{"chat"},
		LatencyMS:         5000,
		Reliability:       0.95,
		// Ollama's OpenAI-compatible endpoint ignores the key but the
		// client requires a non-empty value.
		apiKey:  "ollama",
		baseURL: host + "/v1",
	}
}

func deepSeekConfig(key string) *ProviderConfig {
	return &ProviderConfig{
		ID:                ProviderDeepSeek,
		DisplayName:       "DeepSeek Coder",
		Description:       "DeepSeek AI model specialized in coding and technical content",
		DefaultModel:      "deepseek-chat",
		SupportedModels:   []string{"deepseek-chat", "deepseek-coder"},
		MaxTokens:         8192,
		SupportsStreaming: true,
		RequestsPerMinute: 60,
		TokensPerMinute:   100000,
		InputCostPer1K:    0.0005,
		OutputCostPer1K:   0.0015,
		Capabilities:      []string{"chat", "json"},
		LatencyMS:         3000,
		Reliability:       0.97,
		apiKey:            key,
		baseURL:           "https://api.deepseek.com/v1",
	}
}

func openRouterConfig(key string) *ProviderConfig {
	return &ProviderConfig{
		ID:                ProviderOpenRouter,
		DisplayName:       "OpenRouter (Multi-Model)",
		Description:       "Access to multiple AI models through OpenRouter API",
		DefaultModel:      "openai/gpt-4o",
		SupportedModels:   []string{"openai/gpt-4o", "anthropic/claude-3.5-sonnet", "meta-llama/llama-3-70b-instruct"},
		MaxTokens:         8192,
		SupportsStreaming: true,
		RequestsPerMinute: 60,
		TokensPerMinute:   100000,
		InputCostPer1K:    0.005,
		OutputCostPer1K:   0.015,
		Capabilities:      []string{"chat", "json"},
		LatencyMS:         2800,
		Reliability:       0.97,
		apiKey:            key,
		baseURL:           "https://openrouter.ai/api/v1",
	}
}
