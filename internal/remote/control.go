// Package remote exposes slideshow navigation as MCP tools over an embedded
// streamable HTTP server.
package remote

import (
	"github.com/mark3labs/stepdeck/internal/slideshow"
)

// Control is what the tools drive. Implementations must be safe to call from
// the HTTP server's goroutines.
type Control interface {
	Status() slideshow.Snapshot
	JumpTo(index int)
	Next()
	Prev()
	SelectFile(filename string)
}

type direct struct {
	ctrl *slideshow.Controller
}

// Direct returns a Control that calls ctrl synchronously. Used in headless
// mode where no UI loop owns the controller.
func Direct(ctrl *slideshow.Controller) Control {
	return direct{ctrl: ctrl}
}

func (d direct) Status() slideshow.Snapshot { return d.ctrl.Snapshot() }
func (d direct) JumpTo(index int)           { d.ctrl.JumpTo(index) }
func (d direct) Next()                      { d.ctrl.Next() }
func (d direct) Prev()                      { d.ctrl.Prev() }
func (d direct) SelectFile(filename string) { d.ctrl.SelectFile(filename) }
