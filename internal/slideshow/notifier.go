package slideshow

import (
	"runtime/debug"
	"sync"

	"github.com/mark3labs/stepdeck/internal/logger"
)

type observer struct {
	id int
	fn func(ChangeEvent)
}

// Notifier delivers ChangeEvents to observers, at most once per distinct
// index. The first emission always goes out.
type Notifier struct {
	mu        sync.Mutex
	observers []observer
	nextID    int
	last      int
	emitted   bool
}

// NewNotifier creates a notifier with no observers.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers fn and returns a function that removes it.
func (n *Notifier) Subscribe(fn func(ChangeEvent)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers = append(n.observers, observer{id: id, fn: fn})

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, o := range n.observers {
			if o.id == id {
				n.observers = append(n.observers[:i:i], n.observers[i+1:]...)
				return
			}
		}
	}
}

// Emit sends ChangeEvent{index} unless index equals the last emitted one.
// It reports whether observers were called.
func (n *Notifier) Emit(index int) bool {
	n.mu.Lock()
	if n.emitted && n.last == index {
		n.mu.Unlock()
		return false
	}
	n.emitted = true
	n.last = index
	observers := make([]observer, len(n.observers))
	copy(observers, n.observers)
	n.mu.Unlock()

	ev := ChangeEvent{Index: index}
	for _, o := range observers {
		deliver(o.fn, ev)
	}
	return true
}

// Last returns the last emitted index and whether anything was emitted yet.
func (n *Notifier) Last() (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last, n.emitted
}

func deliver(fn func(ChangeEvent), ev ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("change observer panic for index %d: %v\n%s", ev.Index, r, debug.Stack())
		}
	}()
	fn(ev)
}
