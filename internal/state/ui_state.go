// Package state persists presenter preferences between runs.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/stepdeck/internal/logger"
)

// UIState holds persistent UI preferences that carry across sessions.
type UIState struct {
	Panes PaneState `json:"panes"`
	// Positions maps an absolute deck path to the last step shown.
	Positions map[string]int `json:"positions,omitempty"`
}

// PaneState holds pane visibility preferences.
type PaneState struct {
	Notes   bool `json:"notes"`
	Preview bool `json:"preview"`
}

// DefaultUIState returns the default UI state with every pane visible.
func DefaultUIState() *UIState {
	return &UIState{
		Panes: PaneState{
			Notes:   true,
			Preview: true,
		},
	}
}

// Position returns the remembered step for deck.
func (s *UIState) Position(deck string) (int, bool) {
	i, ok := s.Positions[deck]
	return i, ok
}

// SetPosition remembers the step shown for deck.
func (s *UIState) SetPosition(deck string, index int) {
	if s.Positions == nil {
		s.Positions = make(map[string]int)
	}
	s.Positions[deck] = index
}

// Load reads the UI state from <dataDir>/ui-state.json.
// Returns default state if the file doesn't exist or on error.
func Load(dataDir string) *UIState {
	path := filepath.Join(dataDir, "ui-state.json")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultUIState()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read UI state file: %v", err)
		return DefaultUIState()
	}

	state := DefaultUIState()
	if err := json.Unmarshal(data, state); err != nil {
		logger.Warn("Failed to parse UI state JSON: %v", err)
		return DefaultUIState()
	}

	return state
}

// Save writes the UI state to <dataDir>/ui-state.json.
// Creates the data directory if it doesn't exist.
func Save(dataDir string, state *UIState) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, "ui-state.json")

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling UI state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing UI state file: %w", err)
	}

	logger.Debug("UI state saved to %s", path)
	return nil
}
