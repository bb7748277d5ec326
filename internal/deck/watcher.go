package deck

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mark3labs/stepdeck/internal/logger"
)

const debounceInterval = 100 * time.Millisecond

// Watcher reports changes to a deck file. It watches the containing
// directory so editors that save by rename are still seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	onEvent func()

	mu      sync.Mutex
	timer   *time.Timer
	done    chan struct{}
	stopped chan struct{}
}

// NewWatcher creates a watcher that calls onChange, debounced, after the deck
// at path is written, created or renamed into place.
func NewWatcher(path string, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher: w,
		path:    abs,
		onEvent: onChange,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}, nil
}

// Start adds the watch and starts the event loop.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = w.watcher.Close()
		return err
	}
	go w.eventLoop()
	logger.Info("deck watcher started for %s", w.path)
	return nil
}

// Stop shuts down the watcher and drops any pending reload.
func (w *Watcher) Stop() error {
	close(w.done)
	<-w.stopped

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) eventLoop() {
	defer close(w.stopped)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("deck watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}
	if filepath.Clean(event.Name) != w.path {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceInterval, w.fire)
}

func (w *Watcher) fire() {
	select {
	case <-w.done:
		return
	default:
	}
	logger.Debug("deck changed: %s", w.path)
	w.onEvent()
}
