package slideshow

import (
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/stepdeck/internal/logger"
)

// Options configures a Controller.
type Options struct {
	Steps []Step
	// Start is the requested initial index; it is clamped into range.
	Start int
	// Loop makes Next wrap from the last step to the first.
	Loop bool
	// AutoPlay is the autoplay period. Zero disables autoplay.
	AutoPlay time.Duration
	// OnChange observes every committed index change.
	OnChange func(ChangeEvent)

	// Preset selects shared-preset preview pairing and wins over Previews.
	Preset *PresetConfig
	// HasPreviewSteps selects per-step preview pairing over Previews.
	HasPreviewSteps bool
	Previews        []Fragment
	// Notes are index-aligned with Steps.
	Notes []string

	// AutoFocus asks the view to focus the range control once it exists.
	AutoFocus bool
	// CodeConfig is merged with Code; fields set in Code win.
	CodeConfig CodeConfig
	Code       CodeConfig
}

// Snapshot is a read-only summary of the controller state.
type Snapshot struct {
	Index      int      `json:"index"`
	Total      int      `json:"total"`
	StepID     string   `json:"step_id"`
	Title      string   `json:"title"`
	ActiveFile string   `json:"active_file"`
	Files      []string `json:"files"`
	AtStart    bool     `json:"at_start"`
	AtEnd      bool     `json:"at_end"`
	Loop       bool     `json:"loop"`
	HasNotes   bool     `json:"has_notes"`
	Preview    string   `json:"preview"`
}

// Controller owns the NavigationState of one slideshow. State is only
// changed through its methods; every change replaces the whole state and
// is followed by a ChangeEvent when the index moved.
type Controller struct {
	commitMu sync.Mutex // serialises commit and notification
	mu       sync.RWMutex
	state    NavigationState

	steps     []Step
	loop      bool
	autoPlay  time.Duration
	autoFocus bool
	code      CodeConfig
	pairing   Pairing
	notes     []string
	hasNotes  bool
	notifier  *Notifier
}

// New validates opts and builds the initial state. It does not notify;
// call Mount once observers are in place.
func New(opts Options) (*Controller, error) {
	state, err := Initialize(opts.Steps, opts.Start)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		state:     state,
		steps:     opts.Steps,
		loop:      opts.Loop,
		autoPlay:  opts.AutoPlay,
		autoFocus: opts.AutoFocus,
		code:      opts.CodeConfig.Merge(opts.Code),
		pairing:   ResolvePairing(opts.Preset, opts.HasPreviewSteps, opts.Previews),
		notes:     opts.Notes,
		hasNotes:  anyNote(opts.Notes),
		notifier:  NewNotifier(),
	}
	if opts.OnChange != nil {
		c.notifier.Subscribe(opts.OnChange)
	}

	logger.Debug("slideshow: %d steps, start=%d (requested %d), loop=%v, preview=%s",
		len(opts.Steps), state.StepIndex, opts.Start, opts.Loop, c.pairing.Kind())
	return c, nil
}

func anyNote(notes []string) bool {
	for _, n := range notes {
		if strings.TrimSpace(n) != "" {
			return true
		}
	}
	return false
}

// Mount emits the initial ChangeEvent. Repeated calls are no-ops.
func (c *Controller) Mount() {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	c.notifier.Emit(c.Index())
}

// Subscribe adds an observer next to Options.OnChange. Observers must not
// call navigation methods synchronously.
func (c *Controller) Subscribe(fn func(ChangeEvent)) func() {
	return c.notifier.Subscribe(fn)
}

func (c *Controller) commit(update func(NavigationState) NavigationState) NavigationState {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	c.mu.Lock()
	prev := c.state.StepIndex
	c.state = update(c.state)
	next := c.state
	c.mu.Unlock()

	if next.StepIndex != prev {
		logger.Debug("slideshow: step %d -> %d", prev, next.StepIndex)
	}
	c.notifier.Emit(next.StepIndex)
	return next
}

// JumpTo moves to index i, clamped into range.
func (c *Controller) JumpTo(i int) NavigationState {
	return c.commit(func(NavigationState) NavigationState {
		return JumpTo(c.steps, i)
	})
}

// Advance moves forward one step, wrapping only when loop is true.
func (c *Controller) Advance(loop bool) NavigationState {
	return c.commit(func(s NavigationState) NavigationState {
		return Advance(c.steps, s, loop)
	})
}

// Next advances using the configured loop setting.
func (c *Controller) Next() NavigationState {
	return c.Advance(c.loop)
}

// Prev moves back one step, holding at the first.
func (c *Controller) Prev() NavigationState {
	return c.commit(func(s NavigationState) NavigationState {
		return JumpTo(c.steps, s.StepIndex-1)
	})
}

// SelectFile makes filename the active file of the current step.
// It never emits a ChangeEvent.
func (c *Controller) SelectFile(filename string) NavigationState {
	return c.commit(func(s NavigationState) NavigationState {
		return SelectFile(s, filename)
	})
}

// State returns the committed state.
func (c *Controller) State() NavigationState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Index returns the current step index.
func (c *Controller) Index() int {
	return c.State().StepIndex
}

// Step returns the step at i from the original list.
func (c *Controller) Step(i int) Step {
	return c.steps[clamp(i, 0, c.MaxIndex())]
}

// Len returns the number of steps.
func (c *Controller) Len() int {
	return len(c.steps)
}

// MaxIndex returns the last valid index.
func (c *Controller) MaxIndex() int {
	return maxIndex(c.steps)
}

// AtStart reports whether the first step is shown.
func (c *Controller) AtStart() bool {
	return AtStart(c.State())
}

// AtEnd reports whether the last step is shown. Looping does not affect it.
func (c *Controller) AtEnd() bool {
	return AtEnd(c.steps, c.State())
}

// Loop returns the configured loop setting.
func (c *Controller) Loop() bool {
	return c.loop
}

// AutoPlay returns the configured autoplay period.
func (c *Controller) AutoPlay() time.Duration {
	return c.autoPlay
}

// AutoFocus reports whether the range control should take focus on mount.
func (c *Controller) AutoFocus() bool {
	return c.autoFocus
}

// CodeConfig returns the merged editor configuration.
func (c *Controller) CodeConfig() CodeConfig {
	return c.code
}

// HasNotes reports whether any step carries a note. It is fixed at
// construction.
func (c *Controller) HasNotes() bool {
	return c.hasNotes
}

// Note returns the note of the current step, or "" when there is none.
func (c *Controller) Note() string {
	i := c.Index()
	if i >= len(c.notes) {
		return ""
	}
	return c.notes[i]
}

// PairingKind returns the preview pairing variant.
func (c *Controller) PairingKind() PairingKind {
	return c.pairing.Kind()
}

// Preview resolves the preview of the current step.
func (c *Controller) Preview() (Preview, bool) {
	s := c.State()
	return c.pairing.Resolve(s.StepIndex, s.ActiveStep)
}

// Snapshot summarises the current state.
func (c *Controller) Snapshot() Snapshot {
	s := c.State()
	names := make([]string, len(s.ActiveStep.Files))
	for i, f := range s.ActiveStep.Files {
		names[i] = f.Name
	}
	return Snapshot{
		Index:      s.StepIndex,
		Total:      len(c.steps),
		StepID:     s.ActiveStep.ID,
		Title:      s.ActiveStep.Title,
		ActiveFile: s.ActiveStep.Active,
		Files:      names,
		AtStart:    AtStart(s),
		AtEnd:      AtEnd(c.steps, s),
		Loop:       c.loop,
		HasNotes:   c.hasNotes,
		Preview:    c.pairing.Kind().String(),
	}
}
