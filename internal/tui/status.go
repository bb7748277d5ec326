package tui

import (
	"fmt"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/stepdeck/internal/slideshow"
	"github.com/mark3labs/stepdeck/internal/tui/theme"
)

// drawHeader renders the deck title, the step title and the playback state.
func (a *App) drawHeader(scr uv.Screen, area uv.Rectangle) {
	if area.Empty() {
		return
	}
	s := theme.Current().S()

	title := "stepdeck"
	if a.deck != nil {
		title = a.deck.Title()
	}
	left := s.HeaderTitle.Render(title)
	if step := a.ctrl.State().ActiveStep; step.Title != "" {
		left += s.HeaderMeta.Render(" · " + step.Title)
	}

	right := a.playbackStatus()
	gap := area.Dx() - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		DrawText(scr, area, left)
		return
	}
	DrawText(scr, area, left+fmt.Sprintf("%*s", gap, "")+right)
}

func (a *App) playbackStatus() string {
	s := theme.Current().S()
	var out string
	if a.following {
		out += s.StatusPlaying.Render("following") + " "
	}
	if a.ctrl.Loop() {
		out += s.StatusText.Render("↻") + " "
	}
	if a.auto.Running() {
		out += s.StatusPlaying.Render("▶ " + a.interval.String())
	} else {
		out += s.StatusText.Render("⏸ " + a.interval.String())
	}
	return out
}

// drawFooter renders the last error, or the key hints.
func (a *App) drawFooter(scr uv.Screen, area uv.Rectangle) {
	if area.Empty() {
		return
	}
	if a.err != nil {
		DrawText(scr, area, theme.Current().S().StatusError.Render("error: "+a.err.Error()))
		return
	}

	pairs := []string{KeyLeftRight, "step", KeyTab, "file", KeyAutoplay, "autoplay", KeyPlusMinus, "speed"}
	if a.rangeCtl.Focused() {
		pairs = []string{"↑/↓", "slide", KeyEsc, "release"}
	}
	if a.ctrl.HasNotes() {
		pairs = append(pairs, KeyNotes, "notes")
	}
	if a.ctrl.PairingKind() != slideshow.PairingNone {
		pairs = append(pairs, KeyPreview, "preview")
	}
	if a.deck != nil && a.deck.Path != "" {
		pairs = append(pairs, KeyEdit, "edit")
	}
	pairs = append(pairs, KeyQuit, "quit")
	DrawText(scr, area, RenderHintBar(pairs...))
}
