package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-generator/internal/llm"
	"github.com/jonathan/portfolio-generator/internal/types"
)

const fakeModelOutput = `{"enhancedAbout": "Polished about text", "tagline": "Builder of things", "metaDescription": "Portfolio of a builder"}`

func testProviderConfig(id llm.Provider, inCost, outCost float64) *llm.ProviderConfig {
	return &llm.ProviderConfig{
		ID:                id,
		DisplayName:       string(id),
		DefaultModel:      string(id) + "-default",
		MaxTokens:         8192,
		RequestsPerMinute: 60,
		TokensPerMinute:   1000000,
		InputCostPer1K:    inCost,
		OutputCostPer1K:   outCost,
		LatencyMS:         2000,
		Reliability:       0.97,
	}
}

// fakeClient scripts vendor behavior: it fails failures times, then succeeds.
type fakeClient struct {
	provider llm.Provider
	failures int
	calls    int
}

func (f *fakeClient) Generate(_ context.Context, _ []llm.Message, _ llm.Options) (*llm.Result, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("vendor unavailable")
	}
	return &llm.Result{Content: fakeModelOutput, TokensUsed: 42}, nil
}

func (f *fakeClient) Provider() llm.Provider { return f.provider }

func newTestService(t *testing.T, registry *llm.Registry, client *fakeClient) (*Service, *[]time.Duration) {
	t.Helper()

	svc := NewService(registry, t.TempDir(), 0)
	t.Cleanup(svc.Close)

	delays := &[]time.Duration{}
	svc.newClient = func(_ context.Context, provider llm.Provider, _ *llm.Registry) (llm.Client, error) {
		client.provider = provider
		return client, nil
	}
	svc.jitter = func() time.Duration { return 0 }
	svc.sleep = func(d time.Duration) { *delays = append(*delays, d) }
	return svc, delays
}

func servicePortfolio() *types.PortfolioData {
	return &types.PortfolioData{
		PersonalInfo: types.PersonalInfo{Name: "Ada Lovelace", Email: "ada@example.com"},
		AboutMe:      "Analytical engine programmer.",
		Projects: []types.Project{
			{Name: "Notes", Description: "Algorithm for Bernoulli numbers", Technologies: []string{"math"}},
		},
	}
}

func TestGenerate_ProducesBundle(t *testing.T) {
	registry := llm.NewRegistryWith(testProviderConfig(llm.ProviderOpenAI, 0.03, 0.06))
	client := &fakeClient{}
	svc, _ := newTestService(t, registry, client)

	resp, err := svc.Generate(context.Background(), &Request{
		Data:     servicePortfolio(),
		Provider: llm.ProviderOpenAI,
		Style:    "minimal",
	})
	require.NoError(t, err)

	assert.Contains(t, resp.Portfolio.HTML, "Ada Lovelace")
	assert.NotEmpty(t, resp.Portfolio.CSS)
	assert.NotEmpty(t, resp.Portfolio.JS)
	assert.Equal(t, "openai", resp.Portfolio.Metadata.Provider)
	assert.Equal(t, "minimal", resp.Portfolio.Metadata.Style)
	assert.Equal(t, 42, resp.TokensUsed)
	assert.NotEmpty(t, resp.HistoryID)
	assert.NotEmpty(t, resp.ContextID)
	assert.FileExists(t, resp.ArchivePath)
	assert.False(t, resp.Cached)
}

func TestGenerate_CacheHitSkipsVendor(t *testing.T) {
	registry := llm.NewRegistryWith(testProviderConfig(llm.ProviderOpenAI, 0.03, 0.06))
	client := &fakeClient{}
	svc, _ := newTestService(t, registry, client)

	req := func() *Request {
		return &Request{Data: servicePortfolio(), Provider: llm.ProviderOpenAI, Style: "minimal"}
	}

	first, err := svc.Generate(context.Background(), req())
	require.NoError(t, err)

	second, err := svc.Generate(context.Background(), req())
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls, "cached request must not reach the vendor")
	assert.True(t, second.Cached)
	assert.Equal(t, first.Portfolio.HTML, second.Portfolio.HTML)
	assert.Equal(t, first.Portfolio.CSS, second.Portfolio.CSS)
	assert.Equal(t, first.Portfolio.JS, second.Portfolio.JS)
}

func TestGenerate_RetriesThenSucceeds(t *testing.T) {
	registry := llm.NewRegistryWith(testProviderConfig(llm.ProviderGemini, 0.00125, 0.005))
	client := &fakeClient{failures: 2}
	svc, delays := newTestService(t, registry, client)

	resp, err := svc.Generate(context.Background(), &Request{
		Data:     servicePortfolio(),
		Provider: llm.ProviderGemini,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, client.calls, "two failures then one success")
	// Backoff doubles: 1s before the second attempt, 2s before the third.
	require.Len(t, *delays, 2)
	assert.Equal(t, time.Second, (*delays)[0])
	assert.Equal(t, 2*time.Second, (*delays)[1])
	assert.Equal(t, 42, resp.TokensUsed)
}

func TestGenerate_FailsAfterMaxAttempts(t *testing.T) {
	registry := llm.NewRegistryWith(testProviderConfig(llm.ProviderGemini, 0.00125, 0.005))
	client := &fakeClient{failures: 10}
	svc, _ := newTestService(t, registry, client)

	_, err := svc.Generate(context.Background(), &Request{
		Data:     servicePortfolio(),
		Provider: llm.ProviderGemini,
	})
	require.Error(t, err)
	assert.Equal(t, maxAttempts, client.calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestGenerate_FallsBackToNextProvider(t *testing.T) {
	first := testProviderConfig(llm.ProviderOpenAI, 0.03, 0.06)
	first.RequestsPerMinute = 1
	registry := llm.NewRegistryWith(first, testProviderConfig(llm.ProviderGemini, 0.00125, 0.005))
	client := &fakeClient{}
	svc, _ := newTestService(t, registry, client)

	// Exhaust the first provider's request budget.
	svc.Limiter().Record("openai", 10)

	resp, err := svc.Generate(context.Background(), &Request{Data: servicePortfolio()})
	require.NoError(t, err)
	assert.Equal(t, "gemini", resp.Portfolio.Metadata.Provider)
}

func TestGenerate_NamedProviderRateLimitedFallsBack(t *testing.T) {
	limited := testProviderConfig(llm.ProviderOpenAI, 0.03, 0.06)
	limited.RequestsPerMinute = 1
	registry := llm.NewRegistryWith(limited, testProviderConfig(llm.ProviderGemini, 0.00125, 0.005))
	client := &fakeClient{}
	svc, _ := newTestService(t, registry, client)

	svc.Limiter().Record("openai", 10)

	resp, err := svc.Generate(context.Background(), &Request{
		Data:     servicePortfolio(),
		Provider: llm.ProviderOpenAI,
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini", resp.Portfolio.Metadata.Provider)
}

func TestGenerate_NamedProviderUnconfiguredFallsBack(t *testing.T) {
	registry := llm.NewRegistryWith(testProviderConfig(llm.ProviderGemini, 0.00125, 0.005))
	client := &fakeClient{}
	svc, _ := newTestService(t, registry, client)

	resp, err := svc.Generate(context.Background(), &Request{
		Data:     servicePortfolio(),
		Provider: llm.ProviderOpenAI,
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini", resp.Portfolio.Metadata.Provider)
}

func TestGenerate_NamedProviderNoFallback(t *testing.T) {
	cfg := testProviderConfig(llm.ProviderOpenAI, 0.03, 0.06)
	cfg.RequestsPerMinute = 1
	registry := llm.NewRegistryWith(cfg)
	svc, _ := newTestService(t, registry, &fakeClient{})

	svc.Limiter().Record("openai", 10)

	_, err := svc.Generate(context.Background(), &Request{
		Data:     servicePortfolio(),
		Provider: llm.ProviderOpenAI,
	})
	assert.ErrorIs(t, err, llm.ErrNoProviderAvailable)
}

func TestGenerate_NoProviderConfigured(t *testing.T) {
	registry := llm.NewRegistryWith()
	svc, _ := newTestService(t, registry, &fakeClient{})

	_, err := svc.Generate(context.Background(), &Request{Data: servicePortfolio()})
	assert.ErrorIs(t, err, llm.ErrNoProviderAvailable)

	_, err = svc.Generate(context.Background(), &Request{
		Data:     servicePortfolio(),
		Provider: llm.ProviderAnthropic,
	})
	assert.ErrorIs(t, err, llm.ErrNoProviderAvailable)
}

func TestGenerate_InvalidDataRejected(t *testing.T) {
	registry := llm.NewRegistryWith(testProviderConfig(llm.ProviderOpenAI, 0.03, 0.06))
	client := &fakeClient{}
	svc, _ := newTestService(t, registry, client)

	_, err := svc.Generate(context.Background(), &Request{
		Data: &types.PortfolioData{PersonalInfo: types.PersonalInfo{Name: "No Email"}},
	})
	require.Error(t, err)
	assert.Zero(t, client.calls)
}

func TestGenerate_ProgressStages(t *testing.T) {
	registry := llm.NewRegistryWith(testProviderConfig(llm.ProviderOpenAI, 0.03, 0.06))
	svc, _ := newTestService(t, registry, &fakeClient{})

	var events []ProgressEvent
	_, err := svc.Generate(context.Background(), &Request{
		Data:     servicePortfolio(),
		Provider: llm.ProviderOpenAI,
		Progress: func(e ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)

	require.Len(t, events, 5)
	stages := []string{StageInitializing, StageTemplatesLoaded, StageAIContentGenerated, StageTemplatesCompiled, StageComplete}
	percents := []int{10, 20, 70, 85, 100}
	for i, event := range events {
		assert.Equal(t, stages[i], event.Stage)
		assert.Equal(t, percents[i], event.Progress)
	}
}

func TestGenerate_ErrorEmitsProgressError(t *testing.T) {
	registry := llm.NewRegistryWith(testProviderConfig(llm.ProviderOpenAI, 0.03, 0.06))
	svc, _ := newTestService(t, registry, &fakeClient{failures: 10})

	var events []ProgressEvent
	_, err := svc.Generate(context.Background(), &Request{
		Data:     servicePortfolio(),
		Provider: llm.ProviderOpenAI,
		Progress: func(e ProgressEvent) { events = append(events, e) },
	})
	require.Error(t, err)

	last := events[len(events)-1]
	assert.Equal(t, StageError, last.Stage)
	assert.NotEmpty(t, last.Error)
}

func TestGenerate_UnknownStyleFallsBackToMinimal(t *testing.T) {
	registry := llm.NewRegistryWith(testProviderConfig(llm.ProviderOpenAI, 0.03, 0.06))
	svc, _ := newTestService(t, registry, &fakeClient{})

	resp, err := svc.Generate(context.Background(), &Request{
		Data:     servicePortfolio(),
		Provider: llm.ProviderOpenAI,
		Style:    "brutalist",
	})
	require.NoError(t, err)
	assert.Equal(t, "minimal", resp.Portfolio.Metadata.Style)
}

func TestRegenerate_ReplaysWithOverrides(t *testing.T) {
	registry := llm.NewRegistryWith(
		testProviderConfig(llm.ProviderOpenAI, 0.03, 0.06),
		testProviderConfig(llm.ProviderGemini, 0.00125, 0.005),
	)
	client := &fakeClient{}
	svc, _ := newTestService(t, registry, client)

	first, err := svc.Generate(context.Background(), &Request{
		Data:     servicePortfolio(),
		Provider: llm.ProviderOpenAI,
		Style:    "minimal",
	})
	require.NoError(t, err)

	resp, err := svc.Regenerate(context.Background(), first.HistoryID, &Request{
		Provider: llm.ProviderGemini,
		Style:    "modern",
	})
	require.NoError(t, err)

	assert.Equal(t, "gemini", resp.Portfolio.Metadata.Provider)
	assert.Equal(t, "modern", resp.Portfolio.Metadata.Style)
	assert.False(t, resp.Cached)
}

func TestRegenerate_UnknownRecord(t *testing.T) {
	registry := llm.NewRegistryWith(testProviderConfig(llm.ProviderOpenAI, 0.03, 0.06))
	svc, _ := newTestService(t, registry, &fakeClient{})

	_, err := svc.Regenerate(context.Background(), "missing", nil)
	assert.Error(t, err)
}
