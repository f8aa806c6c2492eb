package types

import "time"

// ColorScheme is the palette suggested by the model for the chosen style.
type ColorScheme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// EnhancedProject mirrors Project with model-improved copy.
type EnhancedProject struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
}

// EnhancedContent is the normalized output of the response parser. It is
// always well formed; malformed model output is replaced with fallback values.
type EnhancedContent struct {
	EnhancedAbout    string            `json:"enhancedAbout"`
	Tagline          string            `json:"tagline"`
	MetaDescription  string            `json:"metaDescription"`
	ColorScheme      ColorScheme       `json:"colorScheme"`
	EnhancedProjects []EnhancedProject `json:"enhancedProjects"`
}

// ArtifactMetadata describes one generated portfolio bundle.
type ArtifactMetadata struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	Style       string    `json:"style"`
	Name        string    `json:"name"`
}

// GeneratedPortfolio is the complete artifact returned by one generation.
type GeneratedPortfolio struct {
	HTML     string           `json:"html"`
	CSS      string           `json:"css"`
	JS       string           `json:"js"`
	Metadata ArtifactMetadata `json:"metadata"`
}

// QualityScores holds the heuristic per-axis scores for a generated bundle.
type QualityScores struct {
	Accessibility int `json:"accessibility"`
	Performance   int `json:"performance"`
	SEO           int `json:"seo"`
}

// CostEstimate is an advisory estimate, never reconciled against billing.
type CostEstimate struct {
	Provider        string  `json:"provider"`
	Model           string  `json:"model"`
	InputTokens     int     `json:"inputTokens"`
	OutputTokens    int     `json:"outputTokens"`
	EstimatedCost   float64 `json:"estimatedCost"`
	Currency        string  `json:"currency"`
	Confidence      float64 `json:"confidence"`
	ComplexityScore int     `json:"complexityScore"`
}

// ModelRecommendation ranks a provider/model pair for a given payload.
type ModelRecommendation struct {
	Provider      string  `json:"provider"`
	Model         string  `json:"model"`
	Reason        string  `json:"reason"`
	EstimatedCost float64 `json:"estimatedCost"`
	EstimatedTime float64 `json:"estimatedTime"`
}
