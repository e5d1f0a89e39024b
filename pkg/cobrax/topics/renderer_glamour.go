package topics

import (
	"github.com/arthur-debert/gantry/pkg/logging"
	"github.com/charmbracelet/glamour"
)

// standardStyles are the glamour styles selectable by name
var standardStyles = map[string]bool{
	"dark":    true,
	"light":   true,
	"notty":   true,
	"ascii":   true,
	"dracula": true,
	"pink":    true,
}

// GlamourRenderer uses glamour for markdown topics
type GlamourRenderer struct {
	Style string // "auto", a standard style name, or a path to a style file
	Width int    // word wrap; 0 keeps glamour's default
}

// NewGlamourRenderer creates a markdown renderer. With noColor the plain
// "notty" style is used instead of detecting the terminal.
func NewGlamourRenderer(noColor bool) *GlamourRenderer {
	style := "auto"
	if noColor {
		style = "notty"
	}
	return &GlamourRenderer{Style: style}
}

// Render converts markdown to terminal output. Other formats and render
// failures fall back to the raw content.
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	var options []glamour.TermRendererOption
	switch {
	case r.Style == "" || r.Style == "auto":
		options = append(options, glamour.WithAutoStyle())
	case standardStyles[r.Style]:
		options = append(options, glamour.WithStandardStyle(r.Style))
	default:
		options = append(options, glamour.WithStylePath(r.Style))
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	logger := logging.GetLogger("cobrax.topics")
	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		logger.Debug().Err(err).Str("style", r.Style).Msg("Falling back to plain topic")
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		logger.Debug().Err(err).Msg("Falling back to plain topic")
		return content
	}
	return rendered
}
