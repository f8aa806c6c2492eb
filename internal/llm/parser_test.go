package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-generator/internal/types"
)

func TestParseEnhancedContent_ExtractsEmbeddedJSON(t *testing.T) {
	raw := `here is your json { "enhancedAbout": "x", "tagline": "y", "metaDescription": "z" }`

	content := ParseEnhancedContent(raw)

	assert.Equal(t, "x", content.EnhancedAbout)
	assert.Equal(t, "y", content.Tagline)
	assert.Equal(t, "z", content.MetaDescription)
	// Absent palette is filled with the default.
	assert.Equal(t, "#3b82f6", content.ColorScheme.Primary)
	assert.NotNil(t, content.EnhancedProjects)
}

func TestParseEnhancedContent_FencedJSON(t *testing.T) {
	raw := "```json\n{\"enhancedAbout\": \"about\", \"tagline\": \"tag\", \"metaDescription\": \"meta\", \"colorScheme\": {\"primary\": \"#111111\", \"secondary\": \"#222222\", \"accent\": \"#333333\"}}\n```"

	content := ParseEnhancedContent(raw)

	assert.Equal(t, "about", content.EnhancedAbout)
	assert.Equal(t, "#111111", content.ColorScheme.Primary)
}

func TestParseEnhancedContent_GarbageFallsBack(t *testing.T) {
	raw := "I'm sorry, I can't produce JSON today."

	content := ParseEnhancedContent(raw)

	require.NotNil(t, content)
	assert.Equal(t, raw, content.EnhancedAbout)
	assert.Equal(t, "Professional Developer & Designer", content.Tagline)
	assert.Equal(t, "#3b82f6", content.ColorScheme.Primary)
	assert.Empty(t, content.EnhancedProjects)
}

func TestParseEnhancedContent_MissingRequiredKeyFallsBack(t *testing.T) {
	raw := `{"enhancedAbout": "only about"}`

	content := ParseEnhancedContent(raw)

	// Schema rejection falls through to the synthesized fallback.
	assert.Equal(t, "Professional Developer & Designer", content.Tagline)
}

func TestParseEnhancedContent_TruncatesLongRawFallback(t *testing.T) {
	raw := ""
	for i := 0; i < 60; i++ {
		raw += "0123456789"
	}

	content := ParseEnhancedContent(raw)

	assert.Len(t, content.EnhancedAbout, 500)
}

func TestParseEnhancedContent_BracesInsideStrings(t *testing.T) {
	raw := `{"enhancedAbout": "loves {curly} braces", "tagline": "t", "metaDescription": "m"}`

	content := ParseEnhancedContent(raw)

	assert.Equal(t, "loves {curly} braces", content.EnhancedAbout)
}

func TestFallbackContent_RetainsOriginalData(t *testing.T) {
	data := &types.PortfolioData{
		PersonalInfo: types.PersonalInfo{Name: "Ada", Email: "ada@example.com"},
		AboutMe:      "I build things.",
		Projects: []types.Project{
			{Name: "Engine", Description: "Analytical engine", Technologies: []string{"brass"}},
		},
	}

	content := FallbackContent(data)

	assert.Equal(t, "I build things.", content.EnhancedAbout)
	assert.Equal(t, "Ada - Professional Portfolio", content.Tagline)
	require.Len(t, content.EnhancedProjects, 1)
	assert.Equal(t, "Engine", content.EnhancedProjects[0].Name)
}
