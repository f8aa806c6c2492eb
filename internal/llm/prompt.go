// Package llm - prompt.go converts portfolio form data into the role-tagged
// prompt sent to a provider adapter.
package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/portfolio-generator/internal/prompts"
	"github.com/jonathan/portfolio-generator/internal/types"
)

const promptFile = "generation.json"

// BuildPrompt is a pure function from portfolio data and style to an ordered
// message list: a system persona with per-style guidance, one illustrative
// before/after example pair, and the user turn embedding the serialized data
// with the enhancement requirements and mandated JSON schema. Unrecognized
// styles fall back to the minimal guidance.
func BuildPrompt(data *types.PortfolioData, style string) []Message {
	guidance, err := prompts.Get(promptFile, "style_"+style)
	if err != nil {
		guidance = prompts.MustGet(promptFile, "style_minimal")
	}

	system := prompts.Format(prompts.MustGet(promptFile, "system"), map[string]string{
		"StyleGuidance": guidance,
	})
	user := prompts.Format(prompts.MustGet(promptFile, "user"), map[string]string{
		"Style":         style,
		"PortfolioData": serializePortfolio(data),
	})

	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: prompts.MustGet(promptFile, "example_user")},
		{Role: RoleAssistant, Content: prompts.MustGet(promptFile, "example_assistant")},
		{Role: RoleUser, Content: user},
	}
}

// serializePortfolio renders the form data as the compact text block embedded
// in the user turn.
func serializePortfolio(data *types.PortfolioData) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Name: %s\n", data.PersonalInfo.Name)
	if data.PersonalInfo.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", data.PersonalInfo.Location)
	}
	fmt.Fprintf(&sb, "About: %s\n", data.AboutMe)

	if len(data.Projects) > 0 {
		entries := make([]string, 0, len(data.Projects))
		for _, p := range data.Projects {
			entry := fmt.Sprintf("%s: %s", p.Name, p.Description)
			if len(p.Technologies) > 0 {
				entry += fmt.Sprintf(" [%s]", strings.Join(p.Technologies, ", "))
			}
			entries = append(entries, entry)
		}
		fmt.Fprintf(&sb, "Projects: %s\n", strings.Join(entries, "; "))
	}

	if len(data.Education) > 0 {
		entries := make([]string, 0, len(data.Education))
		for _, e := range data.Education {
			entries = append(entries, fmt.Sprintf("%s in %s from %s", e.Degree, e.Field, e.Institution))
		}
		fmt.Fprintf(&sb, "Education: %s\n", strings.Join(entries, "; "))
	}

	if len(data.Achievements) > 0 {
		entries := make([]string, 0, len(data.Achievements))
		for _, a := range data.Achievements {
			entries = append(entries, fmt.Sprintf("%s (%s)", a.Title, a.Date))
		}
		fmt.Fprintf(&sb, "Achievements: %s\n", strings.Join(entries, "; "))
	}

	return sb.String()
}
