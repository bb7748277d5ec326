package slideshow

import (
	"sync"
	"time"

	"github.com/mark3labs/stepdeck/internal/logger"
)

// Tick identifies one scheduled autoplay tick. A tick from a run that has
// since been stopped or restarted is stale and must be ignored.
type Tick struct {
	Gen      uint64
	Interval time.Duration
}

// Autoplay tracks the autoplay run. It does not own a clock: the caller
// schedules each Tick (tea.Tick in the TUI, a time.Timer in Player) and
// passes it back through Fire.
type Autoplay struct {
	mu       sync.Mutex
	gen      uint64
	interval time.Duration
	running  bool
}

// NewAutoplay returns an idle autoplay.
func NewAutoplay() *Autoplay {
	return &Autoplay{}
}

// SetInterval stops the current run and, when d is positive, starts a new
// one. The returned Tick must be scheduled by the caller.
func (a *Autoplay) SetInterval(d time.Duration) (Tick, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.gen++
	a.interval = d
	a.running = d > 0
	if !a.running {
		logger.Debug("autoplay: idle")
		return Tick{}, false
	}
	logger.Debug("autoplay: running every %s (gen %d)", d, a.gen)
	return Tick{Gen: a.gen, Interval: d}, true
}

// Stop cancels the current run. Ticks already scheduled become stale.
func (a *Autoplay) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	a.running = false
}

// Fire reports whether t belongs to the live run. When it does, the caller
// advances the slideshow and schedules t again.
func (a *Autoplay) Fire(t Tick) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running && t.Gen == a.gen
}

// Running reports whether a run is active.
func (a *Autoplay) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Interval returns the period of the last SetInterval call.
func (a *Autoplay) Interval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interval
}

// Player drives a Controller's autoplay on wall-clock time. It holds at most
// one timer; SetInterval and Stop cancel it before anything else.
type Player struct {
	ctrl  *Controller
	auto  *Autoplay
	mu    sync.Mutex
	timer *time.Timer
}

// NewPlayer creates an idle player for ctrl.
func NewPlayer(ctrl *Controller) *Player {
	return &Player{ctrl: ctrl, auto: NewAutoplay()}
}

// SetInterval restarts autoplay with period d; zero stops it.
func (p *Player) SetInterval(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopTimer()
	if t, ok := p.auto.SetInterval(d); ok {
		p.schedule(t)
	}
}

// Stop cancels autoplay. No tick fires after Stop returns.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopTimer()
	p.auto.Stop()
}

// Running reports whether autoplay is active.
func (p *Player) Running() bool {
	return p.auto.Running()
}

func (p *Player) stopTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Player) schedule(t Tick) {
	p.timer = time.AfterFunc(t.Interval, func() { p.fire(t) })
}

func (p *Player) fire(t Tick) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Stop may have won the race with this callback.
	if !p.auto.Fire(t) {
		return
	}
	p.ctrl.Next()
	p.schedule(t)
}
