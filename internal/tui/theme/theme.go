package theme

import (
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgCrust    string
	BgBase     string
	BgMantle   string
	BgGutter   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string
	BgOverlay  string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Background of the focused line range in the editor
	FocusLineBg string

	styles     *Styles
	stylesOnce sync.Once
}

var (
	registry = map[string]func() *Theme{
		"catppuccin-mocha": NewCatppuccinMocha,
	}
	current   *Theme
	currentMu sync.RWMutex
)

// Current returns the active theme, defaulting to catppuccin-mocha.
func Current() *Theme {
	currentMu.RLock()
	t := current
	currentMu.RUnlock()
	if t != nil {
		return t
	}

	currentMu.Lock()
	defer currentMu.Unlock()
	if current == nil {
		current = NewCatppuccinMocha()
	}
	return current
}

// Set switches the active theme by name. Unknown names are ignored and
// reported as false.
func Set(name string) bool {
	build, ok := registry[name]
	if !ok {
		return false
	}
	currentMu.Lock()
	current = build()
	currentMu.Unlock()
	return true
}

// HexToColor converts a "#rrggbb" string to a color.Color.
func HexToColor(hex string) color.Color {
	return lipgloss.Color(hex)
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	c := lipgloss.Color
	return &Styles{
		HeaderTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),
		HeaderMeta: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)),

		PanelTitle: lipgloss.NewStyle().
			Foreground(c(t.FgSubtle)).
			Bold(true),
		PanelBadge: lipgloss.NewStyle().
			Foreground(c(t.Tertiary)).
			Italic(true),
		PanelRule: lipgloss.NewStyle().
			Foreground(c(t.BgSurface1)),
		Divider: lipgloss.NewStyle().
			Foreground(c(t.BgSurface0)),

		Tab: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)).
			Padding(0, 1),
		TabActive: lipgloss.NewStyle().
			Foreground(c(t.BgBase)).
			Background(c(t.Secondary)).
			Bold(true).
			Padding(0, 1),

		LineNumber: lipgloss.NewStyle().
			Foreground(c(t.BgOverlay)),
		LineNumberFocused: lipgloss.NewStyle().
			Foreground(c(t.Warning)),
		FocusMarker: lipgloss.NewStyle().
			Foreground(c(t.Warning)),

		Button: lipgloss.NewStyle().
			Foreground(c(t.FgBase)).
			Background(c(t.BgSurface0)).
			Padding(0, 1),
		ButtonDisabled: lipgloss.NewStyle().
			Foreground(c(t.BgSurface2)).
			Background(c(t.BgMantle)).
			Padding(0, 1),
		TrackEmpty: lipgloss.NewStyle().
			Foreground(c(t.BgSurface1)),
		TrackThumb: lipgloss.NewStyle().
			Foreground(c(t.FgBright)).
			Bold(true),
		TrackThumbFocused: lipgloss.NewStyle().
			Foreground(c(t.Warning)).
			Bold(true),
		Counter: lipgloss.NewStyle().
			Foreground(c(t.FgSubtle)),

		StatusTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),
		StatusText: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)),
		StatusPlaying: lipgloss.NewStyle().
			Foreground(c(t.Success)),
		StatusError: lipgloss.NewStyle().
			Foreground(c(t.Error)),

		HintKey: lipgloss.NewStyle().
			Foreground(c(t.FgSubtle)),
		HintDesc: lipgloss.NewStyle().
			Foreground(c(t.BgOverlay)),
		HintSeparator: lipgloss.NewStyle().
			Foreground(c(t.BgSurface1)),

		EmptyState: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)).
			Italic(true),
		Link: lipgloss.NewStyle().
			Foreground(c(t.Info)).
			Underline(true),
		ScrollIndicator: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)).
			Background(c(t.BgSurface0)),
	}
}
