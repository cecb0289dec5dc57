package printer

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders Markdown for the terminal.
type MarkdownRenderer struct {
	r *glamour.TermRenderer
}

// NewMarkdownRenderer returns a renderer that wraps at width, 0 disables wrapping.
// Without color the output is plain text.
func NewMarkdownRenderer(width int, color bool) (*MarkdownRenderer, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(max(width, 0)),
	}
	if color {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create markdown renderer: %w", err)
	}

	return &MarkdownRenderer{r: r}, nil
}

// Render returns the rendered Markdown, on failure the source is returned as is.
func (m *MarkdownRenderer) Render(md string) string {
	out, err := m.r.Render(md)
	if err != nil {
		return md
	}
	return out
}
