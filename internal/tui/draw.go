package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"

	"github.com/mark3labs/stepdeck/internal/tui/theme"
)

// DrawText renders already styled text into area.
func DrawText(scr uv.Screen, area uv.Rectangle, text string) {
	uv.NewStyledString(text).Draw(scr, area)
}

// DrawStyled renders text with style, sized to fill area.
func DrawStyled(scr uv.Screen, area uv.Rectangle, style lipgloss.Style, text string) {
	content := style.Width(area.Dx()).Height(area.Dy()).Render(text)
	uv.NewStyledString(content).Draw(scr, area)
}

// DrawPanel draws a "Title ──────── badge" header row and returns the area
// below it. The badge is dropped when the row is too narrow for it.
func DrawPanel(scr uv.Screen, area uv.Rectangle, title, badge string) uv.Rectangle {
	if title == "" || area.Dy() <= 0 {
		return area
	}

	s := theme.Current().S()
	head := s.PanelTitle.Render(ansi.Truncate(title, area.Dx(), "…"))
	tail := ""
	if badge != "" {
		tail = " " + s.PanelBadge.Render(badge)
	}
	rule := area.Dx() - lipgloss.Width(head) - lipgloss.Width(tail) - 1
	if rule < 1 {
		tail = ""
		rule = area.Dx() - lipgloss.Width(head) - 1
	}
	row := head + " " + s.PanelRule.Render(strings.Repeat("─", max(rule, 0))) + tail
	DrawText(scr, uv.Rect(area.Min.X, area.Min.Y, area.Dx(), 1), row)

	return uv.Rect(area.Min.X, area.Min.Y+1, area.Dx(), area.Dy()-1)
}

// DrawScrollIndicator puts " NN% " in the bottom-right corner of area.
func DrawScrollIndicator(scr uv.Screen, area uv.Rectangle, percent float64) {
	indicator := fmt.Sprintf(" %d%% ", int(percent*100))
	w := len(indicator)
	if area.Dx() < w || area.Dy() < 1 {
		return
	}
	DrawStyled(scr, uv.Rect(area.Max.X-w, area.Max.Y-1, w, 1), theme.Current().S().ScrollIndicator, indicator)
}

// DrawVerticalDivider fills area's first column with a divider line.
func DrawVerticalDivider(scr uv.Screen, area uv.Rectangle) {
	divider := theme.Current().S().Divider.Render("│")
	for y := area.Min.Y; y < area.Max.Y; y++ {
		DrawText(scr, uv.Rect(area.Min.X, y, 1, 1), divider)
	}
}
