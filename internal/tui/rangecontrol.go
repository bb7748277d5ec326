package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/stepdeck/internal/tui/theme"
)

const (
	prevLabel = "◀ Prev"
	nextLabel = "Next ▶"
)

// rangeHit says which part of the range control was clicked.
type rangeHit int

const (
	hitNone rangeHit = iota
	hitPrev
	hitNext
	hitTrack
)

// RangeControl is the Prev button, the slider track with one position per
// step, the Next button and a step counter. Prev is disabled on the first
// step and Next on the last one, whether or not the deck loops.
type RangeControl struct {
	index, total int
	focused      bool

	area    uv.Rectangle
	prevBox uv.Rectangle
	nextBox uv.Rectangle
	track   uv.Rectangle
}

// NewRangeControl creates a range control with no area yet.
func NewRangeControl() *RangeControl {
	return &RangeControl{}
}

// Set updates the position shown.
func (r *RangeControl) Set(index, total int) {
	r.index = index
	r.total = total
}

// PrevDisabled reports whether Prev is disabled.
func (r *RangeControl) PrevDisabled() bool {
	return r.index <= 0
}

// NextDisabled reports whether Next is disabled.
func (r *RangeControl) NextDisabled() bool {
	return r.index >= r.total-1
}

// Exists reports whether the control has been laid out on screen.
func (r *RangeControl) Exists() bool {
	return !r.track.Empty()
}

// Focus gives the control input focus. It is a no-op returning false while
// the control does not exist yet.
func (r *RangeControl) Focus() bool {
	if !r.Exists() {
		return false
	}
	r.focused = true
	return true
}

// Blur drops input focus.
func (r *RangeControl) Blur() {
	r.focused = false
}

// Focused reports whether the control has input focus.
func (r *RangeControl) Focused() bool {
	return r.focused
}

// SetArea lays out the buttons, track and counter inside area.
func (r *RangeControl) SetArea(area uv.Rectangle) {
	r.area = area
	r.prevBox, r.nextBox, r.track = uv.Rectangle{}, uv.Rectangle{}, uv.Rectangle{}
	if area.Dy() <= 0 {
		r.focused = false
		return
	}

	s := theme.Current().S()
	prevW := lipgloss.Width(s.Button.Render(prevLabel))
	nextW := lipgloss.Width(s.Button.Render(nextLabel))
	counterW := len(r.counter()) + 1

	trackW := area.Dx() - prevW - nextW - counterW - 2
	if trackW < 2 {
		r.focused = false
		return
	}

	y := area.Min.Y
	x := area.Min.X
	r.prevBox = uv.Rect(x, y, prevW, 1)
	x += prevW + 1
	r.track = uv.Rect(x, y, trackW, 1)
	x += trackW + 1
	r.nextBox = uv.Rect(x, y, nextW, 1)
}

func (r *RangeControl) counter() string {
	// Width is reserved for the largest count so the track does not jump.
	w := len(fmt.Sprint(r.total))
	return fmt.Sprintf("%*d/%d", w, r.index+1, r.total)
}

// positionX maps a step index to a column on the track.
func (r *RangeControl) positionX(i int) int {
	w := r.track.Dx()
	if r.total <= 1 || w <= 1 {
		return r.track.Min.X
	}
	return r.track.Min.X + i*(w-1)/(r.total-1)
}

// indexAtX maps a track column to the nearest step index.
func (r *RangeControl) indexAtX(x int) int {
	w := r.track.Dx()
	if r.total <= 1 || w <= 1 {
		return 0
	}
	off := min(max(x-r.track.Min.X, 0), w-1)
	return (off*(r.total-1)*2 + (w - 1)) / ((w - 1) * 2)
}

// HitTest maps a click to a control part. For the track, the index under
// the cursor is returned as well.
func (r *RangeControl) HitTest(x, y int) (rangeHit, int) {
	switch {
	case inRect(x, y, r.prevBox):
		return hitPrev, r.index - 1
	case inRect(x, y, r.nextBox):
		return hitNext, r.index + 1
	case inRect(x, y, r.track):
		return hitTrack, r.indexAtX(x)
	}
	return hitNone, r.index
}

// Draw renders the control into the area passed to SetArea.
func (r *RangeControl) Draw(scr uv.Screen) {
	if !r.Exists() {
		return
	}
	s := theme.Current().S()
	th := theme.Current()

	prev := s.Button
	if r.PrevDisabled() {
		prev = s.ButtonDisabled
	}
	next := s.Button
	if r.NextDisabled() {
		next = s.ButtonDisabled
	}
	DrawText(scr, r.prevBox, prev.Render(prevLabel))
	DrawText(scr, r.nextBox, next.Render(nextLabel))

	thumbX := r.positionX(r.index)
	thumb := s.TrackThumb
	if r.focused {
		thumb = s.TrackThumbFocused
	}

	var b strings.Builder
	w := r.track.Dx()
	for i := 0; i < w; i++ {
		x := r.track.Min.X + i
		switch {
		case x == thumbX:
			b.WriteString(thumb.Render("●"))
		case x < thumbX:
			// Filled part fades from secondary to primary.
			c := theme.InterpolateColor(th.Secondary, th.Primary, float64(i)/float64(max(w-1, 1)))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("━"))
		default:
			b.WriteString(s.TrackEmpty.Render("─"))
		}
	}
	DrawText(scr, r.track, b.String())

	counterArea := uv.Rectangle{
		Min: uv.Position{X: r.nextBox.Max.X + 1, Y: r.area.Min.Y},
		Max: uv.Position{X: r.area.Max.X, Y: r.area.Min.Y + 1},
	}
	DrawText(scr, counterArea, s.Counter.Render(r.counter()))
}
