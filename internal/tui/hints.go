package tui

import (
	"strings"

	"github.com/mark3labs/stepdeck/internal/tui/theme"
)

// Standard key representations for consistent hints across the app.
const (
	KeyLeftRight = "←/→"
	KeyHomeEnd   = "home/end"
	KeyDigits    = "1-9"
	KeyTab       = "tab"
	KeyAutoplay  = "a"
	KeyPlusMinus = "+/-"
	KeyNotes     = "n"
	KeyPreview   = "p"
	KeyEdit      = "e"
	KeyEsc       = "esc"
	KeyQuit      = "q"
)

// RenderHint renders a single key-description pair.
// Example: RenderHint("enter", "select") -> "enter select"
func RenderHint(key, desc string) string {
	s := theme.Current().S()
	return s.HintKey.Render(key) + " " + s.HintDesc.Render(desc)
}

// RenderHintBar renders a hint bar with multiple key-description pairs.
// Pairs are separated by " . ".
// Example: RenderHintBar("←/→", "step", "q", "quit") -> "←/→ step . q quit"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	sep := " " + s.HintSeparator.Render(".") + " "
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		parts = append(parts, RenderHint(pairs[i], pairs[i+1]))
	}
	return strings.Join(parts, sep)
}
