package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	PanelTitle lipgloss.Style
	PanelBadge lipgloss.Style
	PanelRule  lipgloss.Style
	Divider    lipgloss.Style

	// Editor
	Tab               lipgloss.Style
	TabActive         lipgloss.Style
	LineNumber        lipgloss.Style
	LineNumberFocused lipgloss.Style
	FocusMarker       lipgloss.Style

	// Range control
	Button            lipgloss.Style
	ButtonDisabled    lipgloss.Style
	TrackEmpty        lipgloss.Style
	TrackThumb        lipgloss.Style
	TrackThumbFocused lipgloss.Style
	Counter           lipgloss.Style

	// Status bar
	StatusTitle   lipgloss.Style
	StatusText    lipgloss.Style
	StatusPlaying lipgloss.Style
	StatusError   lipgloss.Style

	// Hints
	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	EmptyState      lipgloss.Style
	Link            lipgloss.Style
	ScrollIndicator lipgloss.Style
}
