package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/stepdeck/internal/deck"
	"github.com/mark3labs/stepdeck/internal/slideshow"
)

// JumpMsg moves to a step index. Out-of-range indexes are clamped.
type JumpMsg struct {
	Index int
}

// NextMsg advances one step, wrapping when the deck loops.
type NextMsg struct{}

// PrevMsg goes back one step.
type PrevMsg struct{}

// SelectFileMsg makes a file of the current step active.
type SelectFileMsg struct {
	Filename string
}

// DeckReloadedMsg carries a re-read deck, or the error reading it.
type DeckReloadedMsg struct {
	Deck *deck.Deck
	Err  error
}

// AutoplayTickMsg is one scheduled autoplay tick.
type AutoplayTickMsg struct {
	Tick slideshow.Tick
}

// editorFinishedMsg is sent when the external editor exits.
type editorFinishedMsg struct {
	err error
}

// ackMsg wraps a message from outside the program and is closed once the
// wrapped message has been applied.
type ackMsg struct {
	msg  tea.Msg
	done chan struct{}
}
