package generation

import (
	"strings"

	"github.com/jonathan/portfolio-generator/internal/types"
)

// AnalyzeQuality scores a compiled bundle on three axes with substring
// heuristics. Each axis starts at 70 and is capped at 100. The scores are
// indicative only; no DOM parsing or rendering is involved.
func AnalyzeQuality(html, css string) types.QualityScores {
	accessibility := 70
	if strings.Contains(html, "alt=") {
		accessibility += 10
	}
	if strings.Contains(html, "aria-") {
		accessibility += 10
	}
	if strings.Contains(html, "<nav") {
		accessibility += 5
	}

	performance := 70
	if strings.Contains(html, "media=") || strings.Contains(html, `loading="lazy"`) {
		performance += 10
	}
	if css != "" && !strings.Contains(css, "\n\n") {
		performance += 5
	}

	seo := 70
	if strings.Contains(html, `name="description"`) {
		seo += 10
	}
	if strings.Contains(html, "<title>") {
		seo += 10
	}
	if strings.Contains(html, `property="og:`) {
		seo += 5
	}

	return types.QualityScores{
		Accessibility: clampScore(accessibility),
		Performance:   clampScore(performance),
		SEO:           clampScore(seo),
	}
}

func clampScore(score int) int {
	if score > 100 {
		return 100
	}
	return score
}
