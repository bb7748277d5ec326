package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/stepdeck/internal/logger"
	"github.com/mark3labs/stepdeck/internal/remote"
	"github.com/mark3labs/stepdeck/internal/slideshow"
)

// ackTimeout bounds how long a caller waits for the program to apply a
// posted message.
const ackTimeout = 2 * time.Second

// Control drives a running App from other goroutines. Navigation is posted
// into the program so it is applied in order with keyboard input; each call
// returns once the App has applied it.
type Control struct {
	app  *App
	send func(tea.Msg)
}

var _ remote.Control = (*Control)(nil)

// NewControl returns a Control for app. send is usually (*tea.Program).Send.
func NewControl(app *App, send func(tea.Msg)) *Control {
	return &Control{app: app, send: send}
}

// Status returns a snapshot of the controller currently shown.
func (c *Control) Status() slideshow.Snapshot {
	return c.app.Controller().Snapshot()
}

// JumpTo moves to index.
func (c *Control) JumpTo(index int) { c.post(JumpMsg{Index: index}) }

// Next advances one step.
func (c *Control) Next() { c.post(NextMsg{}) }

// Prev goes back one step.
func (c *Control) Prev() { c.post(PrevMsg{}) }

// SelectFile makes filename active.
func (c *Control) SelectFile(filename string) { c.post(SelectFileMsg{Filename: filename}) }

func (c *Control) post(msg tea.Msg) {
	done := make(chan struct{})
	c.send(ackMsg{msg: msg, done: done})
	select {
	case <-done:
	case <-time.After(ackTimeout):
		logger.Warn("control: %T not applied within %s", msg, ackTimeout)
	}
}
