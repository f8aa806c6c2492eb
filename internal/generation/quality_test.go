package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeQuality_BaseScores(t *testing.T) {
	scores := AnalyzeQuality("<html></html>", "body { }\n\np { }")

	assert.Equal(t, 70, scores.Accessibility)
	assert.Equal(t, 70, scores.Performance)
	assert.Equal(t, 70, scores.SEO)
}

func TestAnalyzeQuality_AccessibilitySignals(t *testing.T) {
	html := `<html><nav></nav><img alt="photo"><div aria-label="menu"></div></html>`

	scores := AnalyzeQuality(html, "")
	assert.Equal(t, 95, scores.Accessibility)
}

func TestAnalyzeQuality_PerformanceSignals(t *testing.T) {
	html := `<img loading="lazy" src="x.png">`
	css := "body{margin:0}p{color:#111}"

	scores := AnalyzeQuality(html, css)
	assert.Equal(t, 85, scores.Performance)
}

func TestAnalyzeQuality_SEOSignals(t *testing.T) {
	html := `<head><title>Ada</title><meta name="description" content="x"><meta property="og:title" content="Ada"></head>`

	scores := AnalyzeQuality(html, "")
	assert.Equal(t, 95, scores.SEO)
}

func TestAnalyzeQuality_Deterministic(t *testing.T) {
	html := `<title>t</title><nav><img alt="a">`
	a := AnalyzeQuality(html, "x{}")
	b := AnalyzeQuality(html, "x{}")
	assert.Equal(t, a, b)
}

func TestAnalyzeQuality_CappedAt100(t *testing.T) {
	assert.Equal(t, 100, clampScore(120))
	assert.Equal(t, 95, clampScore(95))
}
