package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/stepdeck/internal/tui/theme"
)

// NotesPane shows the presenter note of the current step. Rendered notes
// are cached per step index for the current width.
type NotesPane struct {
	viewport viewport.Model
	area     uv.Rectangle

	index int
	note  string
	cache map[int]string
	width int
}

// NewNotesPane creates an empty notes pane.
func NewNotesPane() *NotesPane {
	return &NotesPane{
		viewport: viewport.New(viewport.WithWidth(0), viewport.WithHeight(0)),
		index:    -1,
		cache:    make(map[int]string),
	}
}

// SetNote shows note for the step at index.
func (n *NotesPane) SetNote(index int, note string) {
	changed := index != n.index || note != n.note
	n.index = index
	n.note = note
	if changed {
		delete(n.cache, index)
		n.refresh()
		n.viewport.GotoTop()
	}
}

// Reset drops every cached rendering, e.g. after the deck was reloaded.
func (n *NotesPane) Reset() {
	clear(n.cache)
	n.index = -1
}

// SetArea positions the pane including its title row.
func (n *NotesPane) SetArea(area uv.Rectangle) {
	n.area = area
	n.viewport.SetWidth(max(area.Dx(), 0))
	n.viewport.SetHeight(max(area.Dy()-1, 0))
	if area.Dx() != n.width {
		n.width = area.Dx()
		clear(n.cache)
	}
	n.refresh()
}

// Scroll moves the notes by delta lines.
func (n *NotesPane) Scroll(delta int) {
	if delta < 0 {
		n.viewport.ScrollUp(-delta)
	} else {
		n.viewport.ScrollDown(delta)
	}
}

// Contains reports whether (x, y) is inside the pane.
func (n *NotesPane) Contains(x, y int) bool {
	return inRect(x, y, n.area)
}

func (n *NotesPane) refresh() {
	if strings.TrimSpace(n.note) == "" {
		n.viewport.SetContent(theme.Current().S().EmptyState.Render("No notes for this step"))
		return
	}
	rendered, ok := n.cache[n.index]
	if !ok {
		rendered = renderMarkdown(n.note, n.width)
		n.cache[n.index] = rendered
	}
	n.viewport.SetContent(rendered)
}

// Draw renders the pane with its title row.
func (n *NotesPane) Draw(scr uv.Screen, area uv.Rectangle) {
	badge := ""
	if n.index >= 0 {
		badge = fmt.Sprintf("step %d", n.index+1)
	}
	inner := DrawPanel(scr, area, "Notes", badge)
	if inner.Dy() <= 0 {
		return
	}
	DrawText(scr, inner, n.viewport.View())
	if n.viewport.TotalLineCount() > n.viewport.Height() {
		DrawScrollIndicator(scr, inner, n.viewport.ScrollPercent())
	}
}
