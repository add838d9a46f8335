// Package feed fans newly captured history entries out to subscribers.
// It is transport-agnostic: the watcher publishes, and anything holding a
// subscription (the IPC watch stream, tests) receives. Delivery is
// non-blocking; a subscriber that stops draining loses events rather than
// stalling the capture path.
package feed

import (
	"log/slog"
	"sync"

	"go.klb.dev/clipstash/internal/history"
)

const subscriberBuffer = 16

// Feed is the entry-added event surface.
type Feed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan history.Entry
}

// New returns an empty Feed.
func New() *Feed {
	return &Feed{subs: make(map[int]chan history.Entry)}
}

// Subscribe registers a new subscriber and returns its channel plus a cancel
// function. The channel is closed on cancel.
func (f *Feed) Subscribe() (<-chan history.Entry, func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	ch := make(chan history.Entry, subscriberBuffer)
	f.subs[id] = ch
	total := len(f.subs)
	f.mu.Unlock()

	slog.Debug("feed subscriber added", "id", id, "total", total)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers e to every subscriber without blocking.
func (f *Feed) Publish(e history.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, ch := range f.subs {
		select {
		case ch <- e:
		default:
			slog.Warn("feed subscriber lagging, dropping entry", "subscriber", id, "entry", e.ID)
		}
	}
}

// Subscribers returns the current subscriber count.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
