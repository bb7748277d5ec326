// Package tui is the terminal presenter: a bubbletea program showing the
// multi-file editor, the preview and notes panes, and the range control of
// a slideshow.
package tui

import (
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/editor"

	"github.com/mark3labs/stepdeck/internal/deck"
	"github.com/mark3labs/stepdeck/internal/logger"
	"github.com/mark3labs/stepdeck/internal/slideshow"
	"github.com/mark3labs/stepdeck/internal/state"
	"github.com/mark3labs/stepdeck/internal/tui/theme"
)

const (
	// defaultInterval is used when autoplay is toggled on a deck without one.
	defaultInterval = 3 * time.Second
	// intervalStep is the +/- adjustment of the autoplay period.
	intervalStep = time.Second
	// minInterval is the shortest autoplay period reachable with -.
	minInterval = time.Second
	// scrollLines is the mouse wheel scroll distance.
	scrollLines = 3
)

// Options configures an App.
type Options struct {
	Deck       *deck.Deck
	Controller *slideshow.Controller
	// Rebuild turns a reloaded deck into a controller positioned at index.
	// Nil disables reloading.
	Rebuild func(d *deck.Deck, index int) (*slideshow.Controller, error)
	// DataDir holds ui-state.json. Empty disables persistence.
	DataDir    string
	PreviewURL string
	// Following marks a session that mirrors a remote presenter.
	Following bool
}

// App is the main Bubbletea model.
type App struct {
	deck    *deck.Deck
	deckKey string
	ctrl    *slideshow.Controller
	current atomic.Pointer[slideshow.Controller]
	rebuild func(*deck.Deck, int) (*slideshow.Controller, error)

	auto     *slideshow.Autoplay
	interval time.Duration

	editor   *Editor
	preview  *PreviewPane
	notes    *NotesPane
	rangeCtl *RangeControl

	layout        Layout
	layoutDirty   bool
	width, height int

	uiState   *state.UIState
	dataDir   string
	following bool

	autoFocusPending bool
	dragging         bool
	err              error
	quitting         bool
}

// NewApp creates a new App for an already built controller.
func NewApp(opts Options) *App {
	a := &App{
		deck:      opts.Deck,
		ctrl:      opts.Controller,
		rebuild:   opts.Rebuild,
		auto:      slideshow.NewAutoplay(),
		interval:  opts.Controller.AutoPlay(),
		editor:    NewEditor(),
		preview:   NewPreviewPane(opts.PreviewURL),
		notes:     NewNotesPane(),
		rangeCtl:  NewRangeControl(),
		dataDir:   opts.DataDir,
		following: opts.Following,

		autoFocusPending: opts.Controller.AutoFocus(),
		layoutDirty:      true,
	}
	a.current.Store(opts.Controller)

	if a.interval <= 0 {
		a.interval = defaultInterval
	}
	if opts.Deck != nil && opts.Deck.Path != "" {
		if abs, err := filepath.Abs(opts.Deck.Path); err == nil {
			a.deckKey = abs
		}
	}
	if a.dataDir != "" {
		a.uiState = state.Load(a.dataDir)
	} else {
		a.uiState = state.DefaultUIState()
	}

	a.sync()
	return a
}

// Controller returns the controller currently shown. Safe for use from
// other goroutines.
func (a *App) Controller() *slideshow.Controller {
	return a.current.Load()
}

// Init mounts the slideshow and starts autoplay when the deck asks for it.
func (a *App) Init() tea.Cmd {
	a.ctrl.Mount()
	if d := a.ctrl.AutoPlay(); d > 0 {
		return a.startAutoplay(d)
	}
	return nil
}

// Update handles incoming messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ackMsg:
		model, cmd := a.Update(msg.msg)
		close(msg.done)
		return model, cmd

	case tea.KeyPressMsg:
		return a.handleKeyPress(msg)

	case tea.MouseClickMsg:
		return a.handleMouse(msg)

	case tea.MouseMotionMsg:
		if a.dragging {
			a.ctrl.JumpTo(a.rangeCtl.indexAtX(msg.Mouse().X))
			a.sync()
		}
		return a, nil

	case tea.MouseReleaseMsg:
		a.dragging = false
		return a, nil

	case tea.MouseWheelMsg:
		return a.handleMouseWheel(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layoutDirty = true
		a.ensureLayout()
		return a, nil

	case JumpMsg:
		a.ctrl.JumpTo(msg.Index)
		a.sync()

	case NextMsg:
		a.ctrl.Next()
		a.sync()

	case PrevMsg:
		a.ctrl.Prev()
		a.sync()

	case SelectFileMsg:
		a.ctrl.SelectFile(msg.Filename)
		a.sync()

	case AutoplayTickMsg:
		return a, a.handleTick(msg.Tick)

	case DeckReloadedMsg:
		a.handleReload(msg)

	case editorFinishedMsg:
		if msg.err != nil {
			logger.Warn("editor: %v", msg.err)
			a.err = msg.err
			return a, nil
		}
		return a, a.reloadDeck()
	}

	return a, nil
}

// handleKeyPress processes keyboard input.
func (a *App) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.rangeCtl.Focused() {
		switch key {
		case "esc", "enter":
			a.rangeCtl.Blur()
			return a, nil
		case "up", "k":
			a.ctrl.JumpTo(a.ctrl.Index() + 1)
			a.sync()
			return a, nil
		case "down", "j":
			a.ctrl.JumpTo(a.ctrl.Index() - 1)
			a.sync()
			return a, nil
		}
	}

	switch key {
	case "ctrl+c", "q":
		return a, a.quit()
	case "left", "h":
		a.prev()
	case "right", "l", "space", " ":
		a.next()
	case "home", "g":
		a.ctrl.JumpTo(0)
		a.sync()
	case "end", "G":
		a.ctrl.JumpTo(a.ctrl.MaxIndex())
		a.sync()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(key)
		a.ctrl.JumpTo(n - 1)
		a.sync()
	case "tab":
		a.cycleFile(1)
	case "shift+tab":
		a.cycleFile(-1)
	case "f":
		if !a.rangeCtl.Focus() {
			logger.Debug("range control not on screen, focus skipped")
		}
	case "a":
		return a, a.toggleAutoplay()
	case "+", "=":
		return a, a.changeInterval(intervalStep)
	case "-", "_":
		return a, a.changeInterval(-intervalStep)
	case "n":
		if a.ctrl.HasNotes() {
			a.uiState.Panes.Notes = !a.uiState.Panes.Notes
			a.panesChanged()
		}
	case "p":
		if a.ctrl.PairingKind() != slideshow.PairingNone {
			a.uiState.Panes.Preview = !a.uiState.Panes.Preview
			a.panesChanged()
		}
	case "e":
		return a, a.editDeck()
	case "up", "k":
		a.editor.Scroll(-1)
	case "down", "j":
		a.editor.Scroll(1)
	case "pgup":
		a.editor.Scroll(-max(a.layout.Editor.Dy()-2, 1))
	case "pgdown":
		a.editor.Scroll(max(a.layout.Editor.Dy()-2, 1))
	}
	return a, nil
}

// prev and next follow the buttons: disabled on the first and last step.
func (a *App) prev() {
	if a.ctrl.AtStart() {
		return
	}
	a.ctrl.Prev()
	a.sync()
}

func (a *App) next() {
	if a.ctrl.AtEnd() {
		return
	}
	a.ctrl.Next()
	a.sync()
}

func (a *App) cycleFile(delta int) {
	step := a.ctrl.State().ActiveStep
	n := len(step.Files)
	if n == 0 {
		return
	}
	i := step.FileIndex(step.Active)
	if i < 0 {
		i = 0
	} else {
		i = ((i+delta)%n + n) % n
	}
	a.ctrl.SelectFile(step.Files[i].Name)
	a.sync()
}

// handleMouse processes left clicks on tabs and the range control.
func (a *App) handleMouse(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	if mouse.Button != tea.MouseLeft {
		return a, nil
	}
	a.ensureLayout()

	if name, ok := a.editor.TabAt(mouse.X, mouse.Y); ok {
		a.ctrl.SelectFile(name)
		a.sync()
		return a, nil
	}

	hit, index := a.rangeCtl.HitTest(mouse.X, mouse.Y)
	switch hit {
	case hitPrev:
		a.prev()
	case hitNext:
		a.next()
	case hitTrack:
		a.rangeCtl.Focus()
		a.dragging = true
		a.ctrl.JumpTo(index)
		a.sync()
	default:
		a.rangeCtl.Blur()
	}
	return a, nil
}

// handleMouseWheel scrolls the pane under the cursor.
func (a *App) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()

	var lines int
	switch mouse.Button {
	case tea.MouseWheelUp:
		lines = -scrollLines
	case tea.MouseWheelDown:
		lines = scrollLines
	default:
		return a, nil
	}

	switch {
	case a.editor.Contains(mouse.X, mouse.Y):
		a.editor.Scroll(lines)
	case a.preview.Contains(mouse.X, mouse.Y):
		a.preview.Scroll(lines)
	case a.notes.Contains(mouse.X, mouse.Y):
		a.notes.Scroll(lines)
	}
	return a, nil
}

func (a *App) startAutoplay(d time.Duration) tea.Cmd {
	t, ok := a.auto.SetInterval(d)
	if !ok {
		return nil
	}
	return autoplayTick(t)
}

func autoplayTick(t slideshow.Tick) tea.Cmd {
	return tea.Tick(t.Interval, func(time.Time) tea.Msg {
		return AutoplayTickMsg{Tick: t}
	})
}

func (a *App) toggleAutoplay() tea.Cmd {
	if a.auto.Running() {
		a.auto.Stop()
		return nil
	}
	return a.startAutoplay(a.interval)
}

func (a *App) changeInterval(delta time.Duration) tea.Cmd {
	a.interval = max(a.interval+delta, minInterval)
	if !a.auto.Running() {
		return nil
	}
	return a.startAutoplay(a.interval)
}

// handleTick advances on a live tick and schedules the next one. Ticks of a
// stopped or restarted run are dropped.
func (a *App) handleTick(t slideshow.Tick) tea.Cmd {
	if !a.auto.Fire(t) {
		return nil
	}
	a.ctrl.Next()
	a.sync()
	return autoplayTick(t)
}

func (a *App) editDeck() tea.Cmd {
	if a.deck == nil || a.deck.Path == "" {
		return nil
	}
	cmd, err := editor.Command("stepdeck", a.deck.Path)
	if err != nil {
		logger.Warn("editor: %v", err)
		a.err = err
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

func (a *App) reloadDeck() tea.Cmd {
	if a.deck == nil || a.deck.Path == "" {
		return nil
	}
	path := a.deck.Path
	return func() tea.Msg {
		d, err := deck.Load(path)
		return DeckReloadedMsg{Deck: d, Err: err}
	}
}

// handleReload swaps in a controller for the new deck at the current index,
// clamped to the new step count. On failure the old deck stays up.
func (a *App) handleReload(msg DeckReloadedMsg) {
	if msg.Err != nil {
		logger.Warn("deck reload: %v", msg.Err)
		a.err = msg.Err
		return
	}
	if a.rebuild == nil || msg.Deck == nil {
		return
	}

	ctrl, err := a.rebuild(msg.Deck, a.ctrl.Index())
	if err != nil {
		logger.Warn("deck reload: %v", err)
		a.err = err
		return
	}

	logger.Info("deck reloaded: %d steps", ctrl.Len())
	a.deck = msg.Deck
	a.ctrl = ctrl
	a.current.Store(ctrl)
	a.err = nil
	a.notes.Reset()
	ctrl.Mount()
	a.panesChanged()
}

func (a *App) quit() tea.Cmd {
	a.auto.Stop()
	a.quitting = true
	if a.deckKey != "" {
		a.uiState.SetPosition(a.deckKey, a.ctrl.Index())
	}
	a.saveState()
	return tea.Quit
}

func (a *App) saveState() {
	if a.dataDir == "" {
		return
	}
	if err := state.Save(a.dataDir, a.uiState); err != nil {
		logger.Warn("saving UI state: %v", err)
	}
}

// sync pushes the controller state into the panes.
func (a *App) sync() {
	st := a.ctrl.State()
	a.editor.SetStep(st.ActiveStep, a.ctrl.CodeConfig())
	pv, ok := a.ctrl.Preview()
	a.preview.SetPreview(pv, ok)
	a.notes.SetNote(st.StepIndex, a.ctrl.Note())
	a.rangeCtl.Set(st.StepIndex, a.ctrl.Len())
}

func (a *App) panesChanged() {
	a.saveState()
	a.sync()
	a.layoutDirty = true
	a.ensureLayout()
}

func (a *App) sidePanes() SidePanes {
	return SidePanes{
		Preview: a.uiState.Panes.Preview && a.ctrl.PairingKind() != slideshow.PairingNone,
		Notes:   a.uiState.Panes.Notes && a.ctrl.HasNotes(),
	}
}

// ensureLayout recalculates the layout when the size or visible panes
// changed, then retries a pending autofocus.
func (a *App) ensureLayout() {
	if a.layoutDirty {
		a.layout = CalculateLayout(a.width, a.height, a.sidePanes())
		a.editor.SetArea(a.layout.Editor)
		a.preview.SetArea(a.layout.Preview)
		a.notes.SetArea(a.layout.Notes)
		a.rangeCtl.SetArea(a.layout.Range)
		a.layoutDirty = false
	}
	if a.autoFocusPending && a.rangeCtl.Focus() {
		a.autoFocusPending = false
	}
}

// View renders the current view.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if a.quitting {
		// Leave the alt screen so the terminal is restored cleanly.
		view.AltScreen = false
		view.MouseMode = tea.MouseModeNone
		view.Content = lipgloss.NewLayer("")
		return view
	}

	a.ensureLayout()

	canvas := uv.NewScreenBuffer(a.width, a.height)
	a.Draw(canvas, canvas.Bounds())
	view.Content = lipgloss.NewLayer(canvas.Render())
	view.BackgroundColor = theme.HexToColor(theme.Current().BgBase)
	return view
}

// Draw renders every component into scr.
func (a *App) Draw(scr uv.Screen, area uv.Rectangle) {
	l := a.layout
	a.drawHeader(scr, l.Header)
	if !l.Editor.Empty() {
		a.editor.Draw(scr, l.Editor)
	}
	if !l.Divider.Empty() {
		DrawVerticalDivider(scr, l.Divider)
	}
	if !l.Preview.Empty() {
		a.preview.Draw(scr, l.Preview)
	}
	if !l.Notes.Empty() {
		a.notes.Draw(scr, l.Notes)
	}
	a.rangeCtl.Draw(scr)
	a.drawFooter(scr, l.Footer)
}
