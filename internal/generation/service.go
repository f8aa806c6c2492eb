// Package generation orchestrates the end-to-end portfolio pipeline: provider
// selection, prompt dispatch with retries, template compilation, quality
// scoring, archiving, caching and history.
package generation

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/portfolio-generator/internal/archive"
	"github.com/jonathan/portfolio-generator/internal/llm"
	"github.com/jonathan/portfolio-generator/internal/llm/ratelimit"
	"github.com/jonathan/portfolio-generator/internal/store"
	"github.com/jonathan/portfolio-generator/internal/templates"
	"github.com/jonathan/portfolio-generator/internal/types"
)

// Retry policy for vendor calls. Only the prompt round trip is retried;
// compilation and packaging failures are terminal.
const (
	maxAttempts     = 3
	baseRetryDelay  = time.Second
	maxRetryJitter  = 500 * time.Millisecond
	defaultCacheCap = 256
)

// clientFactory builds a vendor adapter. Swapped out in tests.
type clientFactory func(ctx context.Context, provider llm.Provider, registry *llm.Registry) (llm.Client, error)

// Request is one generation job.
type Request struct {
	Data        *types.PortfolioData
	Provider    llm.Provider
	Style       string
	Model       string
	Temperature float64
	MaxTokens   int
	Progress    ProgressFunc
}

// Response is the outcome of one generation job.
type Response struct {
	Portfolio   *types.GeneratedPortfolio `json:"portfolio"`
	Quality     types.QualityScores       `json:"quality"`
	TokensUsed  int                       `json:"tokensUsed"`
	HistoryID   string                    `json:"historyId"`
	ContextID   string                    `json:"contextId,omitempty"`
	ArchivePath string                    `json:"archivePath"`
	Cached      bool                      `json:"cached"`
}

// Service runs generation jobs against the configured providers.
type Service struct {
	registry *llm.Registry
	limiter  *ratelimit.Limiter
	cache    *Cache
	history  *History
	contexts *ContextStore

	outputDir  string
	llmTimeout time.Duration

	newClient clientFactory
	retryBase time.Duration
	jitter    func() time.Duration
	sleep     func(time.Duration)
}

// NewService wires the pipeline. llmTimeout bounds each individual vendor
// call, not the whole job.
func NewService(registry *llm.Registry, outputDir string, llmTimeout time.Duration) *Service {
	limits := make(map[string]ratelimit.Limits)
	for _, id := range registry.Order() {
		cfg, err := registry.Config(id)
		if err != nil {
			continue
		}
		limits[string(id)] = ratelimit.Limits{
			RequestsPerMinute: cfg.RequestsPerMinute,
			TokensPerMinute:   cfg.TokensPerMinute,
		}
	}

	return &Service{
		registry:   registry,
		limiter:    ratelimit.NewLimiter(limits),
		cache:      NewCache(defaultCacheCap),
		history:    NewHistory(),
		contexts:   NewContextStore(),
		outputDir:  outputDir,
		llmTimeout: llmTimeout,
		newClient:  llm.NewClient,
		retryBase:  baseRetryDelay,
		jitter: func() time.Duration {
			return time.Duration(rand.Int63n(int64(maxRetryJitter)))
		},
		sleep: time.Sleep,
	}
}

// Close releases the background goroutines.
func (s *Service) Close() {
	s.limiter.Stop()
	s.contexts.Stop()
}

// Cache returns the bundle cache for inspection endpoints.
func (s *Service) Cache() *Cache { return s.cache }

// History returns the generation history.
func (s *Service) History() *History { return s.history }

// Limiter returns the provider rate limiter.
func (s *Service) Limiter() *ratelimit.Limiter { return s.limiter }

// Registry returns the provider registry.
func (s *Service) Registry() *llm.Registry { return s.registry }

// Generate runs one job. Identical requests within cache identity return the
// cached bundle without any vendor call.
func (s *Service) Generate(ctx context.Context, req *Request) (*Response, error) {
	resp, err := s.generate(ctx, req)
	if err != nil {
		req.Progress.emitError(err)
	}
	return resp, err
}

func (s *Service) generate(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Data.Validate(); err != nil {
		return nil, fmt.Errorf("invalid portfolio data: %w", err)
	}

	req.Progress.emit(StageInitializing, "Starting portfolio generation")

	style := templates.ResolveStyle(req.Style)
	provider, cfg, err := s.selectProvider(req)
	if err != nil {
		return nil, err
	}
	model := req.Model
	if model == "" {
		model = cfg.DefaultModel
	}

	key := CacheKey(req.Data, string(provider), style, model)
	if cached, ok := s.cache.Get(key); ok {
		log.Printf("Cache hit for %s (%s/%s)", req.Data.PersonalInfo.Name, provider, model)
		req.Progress.emit(StageComplete, "Portfolio served from cache")
		return &Response{
			Portfolio: cached,
			Quality:   AnalyzeQuality(cached.HTML, cached.CSS),
			Cached:    true,
		}, nil
	}

	req.Progress.emit(StageTemplatesLoaded, fmt.Sprintf("Loaded %s template set", style))

	content, contextID, tokensUsed, err := s.generateContent(ctx, req, provider, model)
	if err != nil {
		return nil, err
	}
	req.Progress.emit(StageAIContentGenerated, "AI content generated")

	now := time.Now()
	compiled, err := templates.Compile(style, &templates.Data{
		PortfolioData: *req.Data,
		Enhanced:      *content,
		CurrentYear:   now.Year(),
		Style:         style,
	})
	if err != nil {
		return nil, fmt.Errorf("template compilation failed: %w", err)
	}
	req.Progress.emit(StageTemplatesCompiled, "Templates compiled")

	portfolio := &types.GeneratedPortfolio{
		HTML: compiled.HTML,
		CSS:  compiled.CSS,
		JS:   compiled.JS,
		Metadata: types.ArtifactMetadata{
			GeneratedAt: now,
			Provider:    string(provider),
			Model:       model,
			Style:       style,
			Name:        req.Data.PersonalInfo.Name,
		},
	}

	quality := AnalyzeQuality(portfolio.HTML, portfolio.CSS)

	archiveName := store.Filename(req.Data.PersonalInfo.Name, now)
	archiveName = archiveName[:len(archiveName)-len(".json")] + ".zip"
	archivePath := filepath.Join(s.outputDir, archiveName)
	if err := archive.WriteZip(archivePath, map[string]string{
		"index.html": portfolio.HTML,
		"styles.css": portfolio.CSS,
		"script.js":  portfolio.JS,
	}); err != nil {
		return nil, err
	}

	historyID := s.history.Add(&Record{
		CreatedAt:   now,
		Provider:    string(provider),
		Model:       model,
		Style:       style,
		Name:        req.Data.PersonalInfo.Name,
		TokensUsed:  tokensUsed,
		Quality:     quality,
		ArchivePath: archivePath,
		Data:        req.Data,
	})
	s.cache.Put(key, portfolio)

	req.Progress.emit(StageComplete, "Portfolio generation complete")
	return &Response{
		Portfolio:   portfolio,
		Quality:     quality,
		TokensUsed:  tokensUsed,
		HistoryID:   historyID,
		ContextID:   contextID,
		ArchivePath: archivePath,
	}, nil
}

// Regenerate replays a recorded request, applying any non-zero overrides.
func (s *Service) Regenerate(ctx context.Context, historyID string, overrides *Request) (*Response, error) {
	rec, ok := s.history.Get(historyID)
	if !ok || rec.Data == nil {
		return nil, fmt.Errorf("generation record %s not found", historyID)
	}

	req := &Request{
		Data:     rec.Data,
		Provider: llm.Provider(rec.Provider),
		Style:    rec.Style,
		Model:    rec.Model,
	}
	if overrides != nil {
		if overrides.Provider != "" {
			req.Provider = overrides.Provider
			req.Model = ""
		}
		if overrides.Style != "" {
			req.Style = overrides.Style
		}
		if overrides.Model != "" {
			req.Model = overrides.Model
		}
		req.Temperature = overrides.Temperature
		req.MaxTokens = overrides.MaxTokens
		req.Progress = overrides.Progress
	}
	return s.Generate(ctx, req)
}

// selectProvider picks the provider serving this request. A named provider is
// used when configured and under its limits; any other case, named or not,
// falls back to scanning the registry in registration order for the first
// provider with headroom.
func (s *Service) selectProvider(req *Request) (llm.Provider, *llm.ProviderConfig, error) {
	estimated := 1000 + ComplexityScore(req.Data)*200

	if req.Provider != "" {
		cfg, err := s.registry.Config(req.Provider)
		if err == nil && s.limiter.Check(string(req.Provider), estimated) {
			return req.Provider, cfg, nil
		}
		log.Printf("Requested provider %s unavailable, scanning for fallback", req.Provider)
	}

	for _, id := range s.registry.Order() {
		if !s.limiter.Check(string(id), estimated) {
			continue
		}
		cfg, err := s.registry.Config(id)
		if err != nil {
			continue
		}
		return id, cfg, nil
	}
	return "", nil, llm.ErrNoProviderAvailable
}

// generateContent runs the prompt round trip with exponential backoff. The
// exchange is recorded in a fresh conversation context whose id is returned
// so follow-up refinements can extend it.
func (s *Service) generateContent(ctx context.Context, req *Request, provider llm.Provider, model string) (*types.EnhancedContent, string, int, error) {
	messages := llm.BuildPrompt(req.Data, req.Style)
	opts := llm.Options{Model: model, Temperature: req.Temperature, MaxTokens: req.MaxTokens}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := s.retryBase*(1<<uint(attempt-1)) + s.jitter()
			log.Printf("Retrying %s after %v (attempt %d/%d): %v", provider, delay, attempt+1, maxAttempts, lastErr)
			s.sleep(delay)
		}

		result, err := s.callProvider(ctx, provider, messages, opts)
		if err != nil {
			lastErr = err
			continue
		}

		s.limiter.Record(string(provider), result.TokensUsed)

		contextID := uuid.New().String()
		s.contexts.Append(contextID, messages...)
		s.contexts.Append(contextID, llm.Message{Role: llm.RoleAssistant, Content: result.Content})

		return llm.ParseEnhancedContent(result.Content), contextID, result.TokensUsed, nil
	}
	return nil, "", 0, fmt.Errorf("content generation failed after %d attempts: %w", maxAttempts, lastErr)
}

func (s *Service) callProvider(ctx context.Context, provider llm.Provider, messages []llm.Message, opts llm.Options) (*llm.Result, error) {
	callCtx := ctx
	if s.llmTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.llmTimeout)
		defer cancel()
	}

	client, err := s.newClient(callCtx, provider, s.registry)
	if err != nil {
		return nil, err
	}
	if closer, ok := client.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	return client.Generate(callCtx, messages, opts)
}
