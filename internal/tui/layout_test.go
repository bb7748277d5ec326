package tui

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
)

func TestCalculateLayout_Desktop(t *testing.T) {
	l := CalculateLayout(120, 40, SidePanes{Preview: true, Notes: true})

	assert.Equal(t, LayoutDesktop, l.Mode)
	assert.Equal(t, uv.Rect(0, 0, 120, 1), l.Header)
	assert.Equal(t, uv.Rect(0, 38, 120, 1), l.Range)
	assert.Equal(t, uv.Rect(0, 39, 120, 1), l.Footer)

	assert.Equal(t, uv.Rect(0, 1, 71, 37), l.Editor)
	assert.Equal(t, uv.Rect(71, 1, 1, 37), l.Divider)
	assert.Equal(t, uv.Rect(72, 1, 48, 18), l.Preview)
	assert.Equal(t, uv.Rect(72, 19, 48, 19), l.Notes)
}

func TestCalculateLayout_Compact(t *testing.T) {
	l := CalculateLayout(80, 30, SidePanes{Notes: true})

	assert.True(t, l.IsCompact())
	assert.Equal(t, uv.Rect(0, 1, 80, 16), l.Editor)
	assert.True(t, l.Divider.Empty())
	assert.True(t, l.Preview.Empty())
	assert.Equal(t, uv.Rect(0, 17, 80, 11), l.Notes)
}

func TestCalculateLayout_NoSidePanes(t *testing.T) {
	l := CalculateLayout(120, 40, SidePanes{})

	assert.Equal(t, uv.Rect(0, 1, 120, 37), l.Editor)
	assert.True(t, l.Preview.Empty())
	assert.True(t, l.Notes.Empty())
}

func TestCalculateLayout_Tiny(t *testing.T) {
	l := CalculateLayout(10, 2, SidePanes{Preview: true})

	assert.True(t, l.Header.Empty())
	assert.True(t, l.Range.Empty(), "range control is dropped when there is no room")
	assert.Equal(t, uv.Rect(0, 1, 10, 1), l.Footer)
	assert.Equal(t, uv.Rect(0, 0, 10, 1), l.Editor)
	assert.True(t, l.Preview.Empty())
}

func TestCalculateLayout_ZeroSize(t *testing.T) {
	l := CalculateLayout(0, 0, SidePanes{Preview: true, Notes: true})
	assert.True(t, l.Editor.Empty())
	assert.True(t, l.Range.Empty())
}
