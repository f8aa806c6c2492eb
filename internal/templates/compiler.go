// Package templates compiles the embedded per-style template sets into the
// final HTML/CSS/JS bundle.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/portfolio-generator/internal/types"
)

//go:embed assets
var assets embed.FS

// DefaultStyle is the fallback when a requested style has no template set.
const DefaultStyle = "minimal"

// styleDescriptions drives the /styles listing. Order is the display order.
var styleOrder = []string{"minimal", "modern", "creative", "professional", "dark", "glassmorphism"}

var styleDescriptions = map[string]string{
	"minimal":       "Clean and simple design focusing on content",
	"modern":        "Contemporary design with sidebar navigation",
	"creative":      "Bold and artistic with unique visual elements",
	"professional":  "Corporate-friendly design for business use",
	"dark":          "Dark theme with modern aesthetics",
	"glassmorphism": "Trendy glass-like effects and transparency",
}

// StyleInfo describes one available style.
type StyleInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

// Styles returns all available styles in display order.
func Styles() []StyleInfo {
	infos := make([]StyleInfo, 0, len(styleOrder))
	for _, name := range styleOrder {
		display := name
		if len(display) > 0 {
			display = string(display[0]-'a'+'A') + display[1:]
		}
		infos = append(infos, StyleInfo{
			Name:        name,
			DisplayName: display,
			Description: styleDescriptions[name],
		})
	}
	return infos
}

// Data is the merged model handed to the templates: original form data plus
// AI-enhanced content.
type Data struct {
	types.PortfolioData
	Enhanced    types.EnhancedContent
	CurrentYear int
	Style       string
}

// Output holds the three compiled text files of one bundle.
type Output struct {
	HTML string
	CSS  string
	JS   string
}

// ResolveStyle returns the style whose template set will actually be used;
// unknown styles fall back to the default rather than failing.
func ResolveStyle(style string) string {
	if _, err := assets.ReadFile(assetPath(style, "index.html.tmpl")); err != nil {
		return DefaultStyle
	}
	return style
}

// Compile renders the html, css and js templates of the resolved style. The
// three files are independent, so they compile concurrently.
func Compile(style string, data *Data) (*Output, error) {
	resolved := ResolveStyle(style)
	out := &Output{}

	var g errgroup.Group
	g.Go(func() error {
		html, err := renderHTML(resolved, data)
		if err != nil {
			return err
		}
		out.HTML = html
		return nil
	})
	g.Go(func() error {
		css, err := renderText(resolved, "styles.css.tmpl", data)
		if err != nil {
			return err
		}
		out.CSS = css
		return nil
	})
	g.Go(func() error {
		js, err := renderText(resolved, "script.js.tmpl", data)
		if err != nil {
			return err
		}
		out.JS = js
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func assetPath(style, file string) string {
	return "assets/" + style + "/" + file
}

func renderHTML(style string, data *Data) (string, error) {
	raw, err := assets.ReadFile(assetPath(style, "index.html.tmpl"))
	if err != nil {
		return "", fmt.Errorf("failed to read html template for %s: %w", style, err)
	}
	tmpl, err := htmltemplate.New("index").Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse html template for %s: %w", style, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute html template for %s: %w", style, err)
	}
	return buf.String(), nil
}

func renderText(style, file string, data *Data) (string, error) {
	raw, err := assets.ReadFile(assetPath(style, file))
	if err != nil {
		return "", fmt.Errorf("failed to read %s for %s: %w", file, style, err)
	}
	tmpl, err := texttemplate.New(file).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse %s for %s: %w", file, style, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s for %s: %w", file, style, err)
	}
	return buf.String(), nil
}
