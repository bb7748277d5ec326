// Package presenter wires a deck to its outputs: the terminal UI or the
// headless printer, the browser preview, the NATS share link, the remote
// navigation tools and the deck watcher.
package presenter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/stepdeck/internal/config"
	"github.com/mark3labs/stepdeck/internal/deck"
	"github.com/mark3labs/stepdeck/internal/logger"
	"github.com/mark3labs/stepdeck/internal/preview"
	"github.com/mark3labs/stepdeck/internal/remote"
	"github.com/mark3labs/stepdeck/internal/share"
	"github.com/mark3labs/stepdeck/internal/slideshow"
	"github.com/mark3labs/stepdeck/internal/state"
	"github.com/mark3labs/stepdeck/internal/tui"
)

// PreviewOff disables the browser preview when used as preview_addr.
const PreviewOff = "off"

// defaultPreviewAddr serves the preview on a free loopback port.
const defaultPreviewAddr = "127.0.0.1:0"

// Config holds configuration for a presentation.
type Config struct {
	DeckPath  string         // Path to the deck file
	Settings  *config.Config // Config file values with flags applied
	Overrides Overrides      // Slideshow flags layered over the deck
	Resume    bool           // Start at the remembered step unless --start is given
	Headless  bool           // Print step changes instead of running the TUI
	FollowURL string         // Mirror the presenter at this NATS URL
	Out       io.Writer      // Headless output and startup links (default: stdout)
}

// Presenter manages the controller and every component attached to it.
type Presenter struct {
	cfg     Config
	ctx     context.Context
	cancel  context.CancelFunc
	deckKey string

	mu   sync.Mutex
	deck *deck.Deck
	ctrl *slideshow.Controller

	renderer *preview.Renderer
	preview  *preview.Server

	ns        *server.Server
	nc        *nats.Conn
	js        jetstream.JetStream
	subject   string
	publisher *share.Publisher
	followSub *nats.Subscription

	remote  *remote.Server
	watcher *deck.Watcher
	control remote.Control

	program *tea.Program
	tuiDone chan struct{}
	tuiErr  error
	player  *slideshow.Player

	stopOnce sync.Once
	stopErr  error
}

// New loads the deck and builds its controller. Nothing is started yet.
func New(cfg Config) (*Presenter, error) {
	if cfg.Settings == nil {
		cfg.Settings = config.Default()
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	d, err := deck.Load(cfg.DeckPath)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Presenter{
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		deck:     d,
		renderer: preview.NewRenderer(),
		subject:  share.Subject(d.Title()),
	}
	if abs, err := filepath.Abs(cfg.DeckPath); err == nil {
		p.deckKey = abs
	}

	var start *int
	if cfg.Resume && cfg.Overrides.Start == nil {
		if pos, ok := state.Load(cfg.Settings.DataDir).Position(p.deckKey); ok {
			logger.Info("resuming %s at step %d", cfg.DeckPath, pos)
			start = &pos
		}
	}

	ctrl, err := p.build(d, start)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%s: %w", cfg.DeckPath, err)
	}
	p.ctrl = ctrl
	return p, nil
}

// Controller returns the current controller. Reloads replace it.
func (p *Presenter) Controller() *slideshow.Controller {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ctrl
}

// Control returns the navigation entry point used by remote tools, browsers
// and followers. It is nil before Start.
func (p *Presenter) Control() remote.Control {
	return p.control
}

// build resolves options for d and attaches the change observer. A non-nil
// start replaces the resolved start index.
func (p *Presenter) build(d *deck.Deck, start *int) (*slideshow.Controller, error) {
	opts, err := Resolve(p.cfg.Settings, d, p.cfg.Overrides)
	if err != nil {
		return nil, err
	}
	if start != nil {
		opts.Start = *start
	}

	ctrl, err := slideshow.New(opts)
	if err != nil {
		return nil, err
	}
	ctrl.Subscribe(func(ev slideshow.ChangeEvent) {
		p.onChange(ctrl, ev)
	})
	return ctrl, nil
}

// rebuild is handed to the TUI for deck reloads.
func (p *Presenter) rebuild(d *deck.Deck, index int) (*slideshow.Controller, error) {
	ctrl, err := p.build(d, &index)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.deck = d
	p.ctrl = ctrl
	p.mu.Unlock()
	return ctrl, nil
}

// Start brings up every configured component, then the TUI or the headless
// autoplay.
func (p *Presenter) Start() error {
	logger.Info("Starting presentation of %s", p.cfg.DeckPath)
	s := p.cfg.Settings

	if p.cfg.FollowURL != "" {
		if err := p.connectFollower(); err != nil {
			return fmt.Errorf("failed to follow %s: %w", p.cfg.FollowURL, err)
		}
	} else if s.SharePort != 0 {
		if err := p.startShare(); err != nil {
			return fmt.Errorf("failed to start share link: %w", err)
		}
	}

	if s.PreviewAddr != PreviewOff && p.Controller().PairingKind() != slideshow.PairingNone {
		if err := p.startPreview(); err != nil {
			return fmt.Errorf("failed to start preview: %w", err)
		}
	}

	if p.cfg.Headless {
		p.control = liveControl{p: p}
	} else {
		p.prepareTUI()
	}

	if s.Remote {
		p.remote = remote.New(p.control)
		if _, err := p.remote.Start(p.ctx); err != nil {
			return fmt.Errorf("failed to start remote tools: %w", err)
		}
		p.announce("remote", p.remote.URL())
		if err := remote.WriteEndpoint(s.DataDir, p.remote.URL()); err != nil {
			logger.Warn("recording remote endpoint: %v", err)
		}
	}

	if s.Watch {
		w, err := deck.NewWatcher(p.cfg.DeckPath, p.onDeckChanged)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			// Presenting works without live reload.
			logger.Warn("deck watcher disabled: %v", err)
		} else {
			p.watcher = w
		}
	}

	if p.nc != nil && p.cfg.FollowURL != "" {
		sub, err := share.Follow(p.nc, p.subject, func(ev slideshow.ChangeEvent) {
			p.control.JumpTo(ev.Index)
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", p.subject, err)
		}
		p.followSub = sub
	}

	if p.program != nil {
		p.runTUI()
		return nil
	}

	ctrl := p.Controller()
	ctrl.Mount()
	p.player = slideshow.NewPlayer(ctrl)
	p.player.SetInterval(ctrl.AutoPlay())
	logger.Info("Running in headless mode")
	return nil
}

func (p *Presenter) announce(what, url string) {
	logger.Info("%s: %s", what, url)
	fmt.Fprintf(p.cfg.Out, "%-8s %s\n", what, url)
}

func (p *Presenter) startShare() error {
	s := p.cfg.Settings
	storeDir := filepath.Join(s.DataDir, "nats")
	if err := os.MkdirAll(storeDir, 0755); err != nil {
		return fmt.Errorf("creating NATS data directory: %w", err)
	}

	ns, err := share.StartServer(s.ShareHost, s.SharePort, storeDir)
	if err != nil {
		return err
	}
	nc, err := share.ConnectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		return err
	}
	p.ns, p.nc = ns, nc

	if err := p.setupJetStream(); err != nil {
		return err
	}
	p.publisher = share.NewPublisher(p.js, p.subject)
	p.announce("share", ns.ClientURL())
	return nil
}

func (p *Presenter) connectFollower() error {
	nc, err := share.Connect(p.cfg.FollowURL)
	if err != nil {
		return err
	}
	p.nc = nc
	if err := p.setupJetStream(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(p.ctx, 2*time.Second)
	defer cancel()
	ev, ok, err := share.Latest(ctx, p.js, p.subject)
	if err != nil {
		logger.Warn("no retained position for %s: %v", p.subject, err)
		return nil
	}
	if ok {
		logger.Info("joining at step %d", ev.Index)
		// Rebuild rather than jump so the joining step is still unannounced
		// when the preview subscribes and the controller mounts.
		p.mu.Lock()
		d := p.deck
		p.mu.Unlock()
		if _, err := p.rebuild(d, ev.Index); err != nil {
			return err
		}
	}
	return nil
}

func (p *Presenter) setupJetStream() error {
	js, err := share.CreateJetStream(p.nc)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}
	if _, err := share.SetupStream(p.ctx, js); err != nil {
		return fmt.Errorf("failed to setup stream: %w", err)
	}
	p.js = js
	return nil
}

func (p *Presenter) startPreview() error {
	addr := p.cfg.Settings.PreviewAddr
	if addr == "" {
		addr = defaultPreviewAddr
	}
	srv := preview.NewServer()
	srv.OnNavigate = func(m preview.NavigateMessage) {
		control := p.control
		if control == nil {
			return
		}
		// The loop goroutine must not wait on navigation, which publishes
		// back through it.
		go control.JumpTo(m.Index)
	}
	if err := srv.Start(addr); err != nil {
		return err
	}
	p.preview = srv
	p.announce("preview", srv.URL())
	return nil
}

// onChange fans a committed step change out to the preview, the share link
// and the headless printer.
func (p *Presenter) onChange(ctrl *slideshow.Controller, ev slideshow.ChangeEvent) {
	if p.preview != nil {
		doc := ""
		if pv, ok := ctrl.Preview(); ok {
			var err error
			doc, err = p.renderer.Document(pv)
			if err != nil {
				logger.Warn("preview render: %v", err)
			}
		}
		p.preview.Publish(doc, ev.Index, ctrl.Len())
	}

	if p.publisher != nil {
		ctx, cancel := context.WithTimeout(p.ctx, 2*time.Second)
		if err := p.publisher.Publish(ctx, ev); err != nil {
			logger.Warn("share publish: %v", err)
		}
		cancel()
	}

	if p.cfg.Headless {
		step := ctrl.Step(ev.Index)
		fmt.Fprintf(p.cfg.Out, "→ %d/%d %s [%s]\n", ev.Index+1, ctrl.Len(), step.Title, step.Active)
	}
}

func (p *Presenter) onDeckChanged() {
	d, err := deck.Load(p.cfg.DeckPath)
	if p.program != nil {
		p.program.Send(tui.DeckReloadedMsg{Deck: d, Err: err})
		return
	}
	if err != nil {
		logger.Warn("deck reload: %v", err)
		return
	}
	p.reloadHeadless(d)
}

func (p *Presenter) reloadHeadless(d *deck.Deck) {
	index := p.Controller().Index()
	ctrl, err := p.rebuild(d, index)
	if err != nil {
		logger.Warn("deck reload: %v", err)
		return
	}
	logger.Info("deck reloaded: %d steps", ctrl.Len())

	if p.player != nil {
		p.player.Stop()
	}
	ctrl.Mount()
	p.player = slideshow.NewPlayer(ctrl)
	p.player.SetInterval(ctrl.AutoPlay())
}

// Run blocks until the TUI exits or ctx is cancelled.
func (p *Presenter) Run(ctx context.Context) error {
	if p.program != nil {
		select {
		case <-p.tuiDone:
			return p.tuiErr
		case <-ctx.Done():
			return nil
		}
	}
	select {
	case <-ctx.Done():
	case <-p.ctx.Done():
	}
	return nil
}

// Stop gracefully shuts down all components and returns the combined
// errors. Multiple calls are safe.
func (p *Presenter) Stop() error {
	p.stopOnce.Do(func() {
		p.stopErr = p.stop()
	})
	return p.stopErr
}

func (p *Presenter) stop() error {
	logger.Info("Stopping presentation of %s", p.cfg.DeckPath)

	var errs []error

	if p.player != nil {
		p.player.Stop()
	}

	if p.program != nil {
		p.program.Quit()
		select {
		case <-p.tuiDone:
		case <-time.After(2 * time.Second):
			logger.Warn("TUI shutdown timed out after 2s")
			errs = append(errs, errors.New("TUI shutdown timed out"))
		}
	}
	p.savePosition()

	if p.watcher != nil {
		if err := p.watcher.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("watcher: %w", err))
		}
	}
	if p.remote != nil {
		if err := p.remote.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("remote: %w", err))
		}
		if err := remote.RemoveEndpoint(p.cfg.Settings.DataDir); err != nil {
			logger.Warn("removing remote endpoint: %v", err)
		}
	}
	if p.preview != nil {
		if err := p.preview.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("preview: %w", err))
		}
	}
	if p.followSub != nil {
		_ = p.followSub.Unsubscribe()
	}
	if err := share.Shutdown(p.nc, p.ns); err != nil {
		errs = append(errs, fmt.Errorf("share: %w", err))
	}

	p.cancel()
	logger.Info("Presentation stopped")
	return errors.Join(errs...)
}

// savePosition remembers the current step for --resume. The TUI also saves
// it when the user quits; a signal only reaches Stop.
func (p *Presenter) savePosition() {
	if p.deckKey == "" {
		return
	}
	dir := p.cfg.Settings.DataDir
	st := state.Load(dir)
	st.SetPosition(p.deckKey, p.Controller().Index())
	if err := state.Save(dir, st); err != nil {
		logger.Warn("saving position: %v", err)
	}
}

// liveControl forwards navigation to whichever controller is current.
type liveControl struct {
	p *Presenter
}

func (c liveControl) direct() remote.Control      { return remote.Direct(c.p.Controller()) }
func (c liveControl) Status() slideshow.Snapshot { return c.direct().Status() }
func (c liveControl) JumpTo(index int)           { c.direct().JumpTo(index) }
func (c liveControl) Next()                      { c.direct().Next() }
func (c liveControl) Prev()                      { c.direct().Prev() }
func (c liveControl) SelectFile(filename string) { c.direct().SelectFile(filename) }
