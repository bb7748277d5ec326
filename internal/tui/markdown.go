package tui

import (
	"strings"

	"charm.land/glamour/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/mark3labs/stepdeck/internal/logger"
)

// renderMarkdown renders markdown content using glamour.
// Falls back to plain text wrapping if rendering fails.
func renderMarkdown(content string, width int) string {
	// Cap width to 120 for readability
	if width > 120 {
		width = 120
	}
	if width < 10 {
		return wrapText(content, max(width, 1))
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logger.Warn("markdown renderer: %v", err)
		return wrapText(content, width)
	}

	rendered, err := r.Render(content)
	if err != nil {
		logger.Warn("markdown render: %v", err)
		return wrapText(content, width)
	}

	return strings.Trim(rendered, "\n")
}

// wrapText hard-wraps plain text to width.
func wrapText(content string, width int) string {
	return ansi.Wrap(content, width, "")
}
