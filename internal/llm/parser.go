// Package llm - parser.go normalizes free-form model output into
// EnhancedContent. Parsing never fails: non-conforming output is replaced
// with synthesized fallback content.
package llm

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/portfolio-generator/internal/types"
)

// enhancedContentSchema is the minimum shape accepted from the model. The
// three string keys must all be present; everything else is optional.
const enhancedContentSchema = `{
	"type": "object",
	"required": ["enhancedAbout", "tagline", "metaDescription"],
	"properties": {
		"enhancedAbout": {"type": "string"},
		"tagline": {"type": "string"},
		"metaDescription": {"type": "string"},
		"colorScheme": {"type": "object"},
		"enhancedProjects": {"type": "array"}
	}
}`

// defaultColorScheme is the neutral palette used whenever the model does not
// supply one.
func defaultColorScheme() types.ColorScheme {
	return types.ColorScheme{Primary: "#3b82f6", Secondary: "#1e40af", Accent: "#f59e0b"}
}

// ParseEnhancedContent extracts the first JSON object from raw model output
// and validates it. On any failure it returns synthesized content built from
// the raw text; it never returns an error.
func ParseEnhancedContent(raw string) *types.EnhancedContent {
	candidate := ExtractJSONObject(CleanJSONBlock(raw))
	if candidate != "" {
		if content, err := decodeEnhancedContent(candidate); err == nil {
			return content
		} else {
			log.Printf("Discarding malformed enhanced content: %v", err)
		}
	}

	about := raw
	if len(about) > 500 {
		about = about[:500]
	}
	return &types.EnhancedContent{
		EnhancedAbout:    about,
		Tagline:          "Professional Developer & Designer",
		MetaDescription:  "Professional portfolio showcasing projects and experience",
		ColorScheme:      defaultColorScheme(),
		EnhancedProjects: []types.EnhancedProject{},
	}
}

// FallbackContent synthesizes enhanced content directly from the submitted
// data, for paths that render without a vendor call such as style previews.
func FallbackContent(data *types.PortfolioData) *types.EnhancedContent {
	projects := make([]types.EnhancedProject, 0, len(data.Projects))
	for _, p := range data.Projects {
		projects = append(projects, types.EnhancedProject{
			Name:         p.Name,
			Description:  p.Description,
			Technologies: p.Technologies,
		})
	}
	return &types.EnhancedContent{
		EnhancedAbout:    data.AboutMe,
		Tagline:          fmt.Sprintf("%s - Professional Portfolio", data.PersonalInfo.Name),
		MetaDescription:  fmt.Sprintf("Portfolio of %s showcasing projects and experience", data.PersonalInfo.Name),
		ColorScheme:      defaultColorScheme(),
		EnhancedProjects: projects,
	}
}

func decodeEnhancedContent(candidate string) (*types.EnhancedContent, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(enhancedContentSchema),
		gojsonschema.NewStringLoader(candidate),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed during load: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("missing required keys: %v", result.Errors())
	}

	var content types.EnhancedContent
	if err := json.Unmarshal([]byte(candidate), &content); err != nil {
		return nil, fmt.Errorf("failed to decode enhanced content: %w", err)
	}

	if content.ColorScheme == (types.ColorScheme{}) {
		content.ColorScheme = defaultColorScheme()
	}
	if content.EnhancedProjects == nil {
		content.EnhancedProjects = []types.EnhancedProject{}
	}
	return &content, nil
}
