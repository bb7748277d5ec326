package presenter

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/stepdeck/internal/logger"
	"github.com/mark3labs/stepdeck/internal/tui"
)

// prepareTUI creates the App and its program without running it, so remote
// components can be pointed at the program first.
func (p *Presenter) prepareTUI() {
	previewURL := ""
	if p.preview != nil {
		previewURL = p.preview.URL()
	}

	p.mu.Lock()
	d, ctrl := p.deck, p.ctrl
	p.mu.Unlock()

	app := tui.NewApp(tui.Options{
		Deck:       d,
		Controller: ctrl,
		Rebuild:    p.rebuild,
		DataDir:    p.cfg.Settings.DataDir,
		PreviewURL: previewURL,
		Following:  p.cfg.FollowURL != "",
	})
	p.program = tea.NewProgram(app)
	p.control = tui.NewControl(app, p.program.Send)
	p.tuiDone = make(chan struct{})
}

// runTUI starts the program in the background with panic recovery. The
// presentation context is cancelled when the program exits.
func (p *Presenter) runTUI() {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "TUI panic: %v\n", r)
				p.tuiErr = fmt.Errorf("TUI panic: %v", r)
			}
			close(p.tuiDone)
			logger.Debug("TUI quit detected, cancelling presentation context")
			p.cancel()
		}()

		if _, err := p.program.Run(); err != nil {
			logger.Error("TUI error: %v", err)
			p.tuiErr = err
		}
	}()
}
