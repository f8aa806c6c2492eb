package generation

import (
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/portfolio-generator/internal/llm"
	"github.com/jonathan/portfolio-generator/internal/types"
)

// maxBilledOutputTokens caps the output side of an estimate regardless of the
// requested max tokens.
const maxBilledOutputTokens = 3000

// ComplexityScore condenses the payload into a single integer driving the
// input-token estimate. Longer about sections contribute at most 5 points.
func ComplexityScore(data *types.PortfolioData) int {
	about := math.Min(float64(len(data.AboutMe))/100, 5)
	score := 1 +
		2*float64(len(data.Projects)) +
		0.5*float64(data.TechTagCount()) +
		float64(len(data.Education)) +
		1.5*float64(len(data.Achievements)) +
		0.5*float64(data.SocialLinkCount()) +
		about
	return int(math.Round(score))
}

// EstimateCost prices a generation request against a provider's published
// per-1K rates. The figure is advisory; confidence is fixed.
func EstimateCost(data *types.PortfolioData, cfg *llm.ProviderConfig, model string, maxTokens int) *types.CostEstimate {
	complexity := ComplexityScore(data)
	inputTokens := 1000 + complexity*200

	if maxTokens <= 0 {
		maxTokens = cfg.MaxTokens
	}
	outputTokens := maxTokens
	if outputTokens > maxBilledOutputTokens {
		outputTokens = maxBilledOutputTokens
	}

	cost := float64(inputTokens)/1000*cfg.InputCostPer1K +
		float64(outputTokens)/1000*cfg.OutputCostPer1K

	if model == "" {
		model = cfg.DefaultModel
	}
	return &types.CostEstimate{
		Provider:        string(cfg.ID),
		Model:           model,
		InputTokens:     inputTokens,
		OutputTokens:    outputTokens,
		EstimatedCost:   math.Round(cost*10000) / 10000,
		Currency:        "USD",
		Confidence:      0.8,
		ComplexityScore: complexity,
	}
}

// Recommend ranks every configured provider for the payload, cheapest first.
func Recommend(data *types.PortfolioData, registry *llm.Registry) []types.ModelRecommendation {
	recs := make([]types.ModelRecommendation, 0)
	for _, id := range registry.Order() {
		cfg, err := registry.Config(id)
		if err != nil {
			continue
		}
		estimate := EstimateCost(data, cfg, cfg.DefaultModel, cfg.MaxTokens)
		recs = append(recs, types.ModelRecommendation{
			Provider:      string(id),
			Model:         cfg.DefaultModel,
			Reason:        recommendReason(cfg),
			EstimatedCost: estimate.EstimatedCost,
			EstimatedTime: cfg.LatencyMS / 1000,
		})
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].EstimatedCost < recs[j].EstimatedCost
	})
	return recs
}

func recommendReason(cfg *llm.ProviderConfig) string {
	switch {
	case cfg.InputCostPer1K == 0:
		return fmt.Sprintf("%s runs locally at no cost", cfg.DisplayName)
	case cfg.Reliability >= 0.99:
		return fmt.Sprintf("%s offers the highest reliability for this workload", cfg.DisplayName)
	case cfg.LatencyMS <= 2000:
		return fmt.Sprintf("%s responds fastest for this payload size", cfg.DisplayName)
	default:
		return fmt.Sprintf("%s balances cost and quality for this payload", cfg.DisplayName)
	}
}
