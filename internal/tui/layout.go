package tui

import uv "github.com/charmbracelet/ultraviolet"

// Layout breakpoints and dimensions
const (
	// CompactWidthBreakpoint is the minimum width for side-by-side panes
	CompactWidthBreakpoint = 100
	// SideWidthMin is the narrowest the side column gets in desktop mode
	SideWidthMin = 36
	// HeaderHeight is the height of the header in rows
	HeaderHeight = 1
	// RangeHeight is the height of the range control in rows
	RangeHeight = 1
	// FooterHeight is the height of the footer in rows
	FooterHeight = 1
	// MinContentHeight is the smallest content area that still shows panes
	MinContentHeight = 3
)

// LayoutMode represents the layout mode based on terminal size
type LayoutMode int

const (
	// LayoutDesktop places the side panes to the right of the editor
	LayoutDesktop LayoutMode = iota
	// LayoutCompact stacks the side panes below the editor
	LayoutCompact
)

// SidePanes says which optional panes are shown.
type SidePanes struct {
	Preview bool
	Notes   bool
}

// Any reports whether at least one side pane is shown.
func (p SidePanes) Any() bool {
	return p.Preview || p.Notes
}

// Layout defines the rectangular regions for all UI components.
// Empty rectangles mean the component is not shown.
type Layout struct {
	Mode    LayoutMode
	Area    uv.Rectangle
	Header  uv.Rectangle
	Editor  uv.Rectangle
	Divider uv.Rectangle
	Preview uv.Rectangle
	Notes   uv.Rectangle
	Range   uv.Rectangle
	Footer  uv.Rectangle
}

// IsCompact returns true if the layout is in compact mode
func (l Layout) IsCompact() bool {
	return l.Mode == LayoutCompact
}

// CalculateLayout computes the layout rectangles based on terminal dimensions
func CalculateLayout(width, height int, panes SidePanes) Layout {
	mode := LayoutDesktop
	if width < CompactWidthBreakpoint {
		mode = LayoutCompact
	}

	area := uv.Rect(0, 0, max(width, 0), max(height, 0))
	l := Layout{Mode: mode, Area: area}
	if width <= 0 || height <= 0 {
		return l
	}

	// Rows from the top: header, then from the bottom: footer and range.
	// Tiny terminals lose the range row before the header.
	y := 0
	if height >= HeaderHeight+FooterHeight+RangeHeight+1 {
		l.Header = uv.Rect(0, 0, width, HeaderHeight)
		y = HeaderHeight
	}
	bottom := height
	if height > FooterHeight {
		l.Footer = uv.Rect(0, height-FooterHeight, width, FooterHeight)
		bottom -= FooterHeight
	}
	if bottom-y > RangeHeight {
		l.Range = uv.Rect(0, bottom-RangeHeight, width, RangeHeight)
		bottom -= RangeHeight
	}

	content := uv.Rectangle{
		Min: uv.Position{X: 0, Y: y},
		Max: uv.Position{X: width, Y: bottom},
	}
	if content.Dy() <= 0 {
		return l
	}

	if !panes.Any() || content.Dy() < MinContentHeight {
		l.Editor = content
		return l
	}

	var side uv.Rectangle
	if mode == LayoutDesktop {
		sideWidth := max(width*2/5, SideWidthMin)
		editorWidth := width - sideWidth - 1
		l.Editor = uv.Rect(0, content.Min.Y, editorWidth, content.Dy())
		l.Divider = uv.Rect(editorWidth, content.Min.Y, 1, content.Dy())
		side = uv.Rect(editorWidth+1, content.Min.Y, sideWidth, content.Dy())
	} else {
		editorHeight := content.Dy() * 3 / 5
		l.Editor = uv.Rect(0, content.Min.Y, width, editorHeight)
		side = uv.Rect(0, content.Min.Y+editorHeight, width, content.Dy()-editorHeight)
	}

	switch {
	case panes.Preview && panes.Notes:
		previewHeight := side.Dy() / 2
		l.Preview = uv.Rect(side.Min.X, side.Min.Y, side.Dx(), previewHeight)
		l.Notes = uv.Rect(side.Min.X, side.Min.Y+previewHeight, side.Dx(), side.Dy()-previewHeight)
	case panes.Preview:
		l.Preview = side
	default:
		l.Notes = side
	}
	return l
}
