package tui

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeControl_FocusGuard(t *testing.T) {
	rc := NewRangeControl()
	rc.Set(0, 5)

	assert.False(t, rc.Exists())
	assert.False(t, rc.Focus(), "focusing a control that is not laid out is a no-op")
	assert.False(t, rc.Focused())

	rc.SetArea(uv.Rect(0, 0, 80, 1))
	require.True(t, rc.Exists())
	assert.True(t, rc.Focus())

	rc.SetArea(uv.Rect(0, 0, 12, 1))
	assert.False(t, rc.Exists())
	assert.False(t, rc.Focused(), "focus is lost with the control")
}

func TestRangeControl_DisabledButtons(t *testing.T) {
	rc := NewRangeControl()

	rc.Set(0, 3)
	assert.True(t, rc.PrevDisabled())
	assert.False(t, rc.NextDisabled())

	rc.Set(1, 3)
	assert.False(t, rc.PrevDisabled())
	assert.False(t, rc.NextDisabled())

	rc.Set(2, 3)
	assert.False(t, rc.PrevDisabled())
	assert.True(t, rc.NextDisabled())

	rc.Set(0, 1)
	assert.True(t, rc.PrevDisabled())
	assert.True(t, rc.NextDisabled(), "a single step is both first and last")
}

func TestRangeControl_TrackMapping(t *testing.T) {
	rc := NewRangeControl()
	rc.Set(0, 5)
	rc.SetArea(uv.Rect(0, 0, 80, 1))

	first, last := rc.track.Min.X, rc.track.Max.X-1
	assert.Equal(t, 0, rc.indexAtX(first))
	assert.Equal(t, 4, rc.indexAtX(last))
	assert.Equal(t, 0, rc.indexAtX(first-10), "left of the track clamps")
	assert.Equal(t, 4, rc.indexAtX(last+10), "right of the track clamps")

	for i := 0; i < 5; i++ {
		assert.Equal(t, i, rc.indexAtX(rc.positionX(i)), "position %d round-trips", i)
	}
}

func TestRangeControl_HitTest(t *testing.T) {
	rc := NewRangeControl()
	rc.Set(2, 5)
	rc.SetArea(uv.Rect(0, 10, 80, 1))

	hit, i := rc.HitTest(rc.prevBox.Min.X, 10)
	assert.Equal(t, hitPrev, hit)
	assert.Equal(t, 1, i)

	hit, i = rc.HitTest(rc.nextBox.Min.X, 10)
	assert.Equal(t, hitNext, hit)
	assert.Equal(t, 3, i)

	hit, i = rc.HitTest(rc.track.Min.X, 10)
	assert.Equal(t, hitTrack, hit)
	assert.Equal(t, 0, i)

	hit, _ = rc.HitTest(rc.track.Min.X, 11)
	assert.Equal(t, hitNone, hit)
}

func TestRangeControl_Draw(t *testing.T) {
	rc := NewRangeControl()
	rc.Set(1, 12)
	rc.SetArea(uv.Rect(0, 0, 80, 1))

	canvas := uv.NewScreenBuffer(80, 1)
	rc.Draw(canvas)
	out := ansi.Strip(canvas.Render())

	assert.Contains(t, out, prevLabel)
	assert.Contains(t, out, nextLabel)
	assert.Contains(t, out, " 2/12")
	assert.Contains(t, out, "●")
}
