// Package paste re-serialises a chosen history entry onto the OS clipboard
// and asks the platform layer to deliver a paste keystroke to the application
// that last held focus. The watcher is suspended for the duration so it never
// re-captures our own write as a new clipboard change.
package paste

import (
	"fmt"
	"log/slog"
	"time"

	"go.klb.dev/clipstash/internal/classify"
	"go.klb.dev/clipstash/internal/clip"
	"go.klb.dev/clipstash/internal/history"
	"go.klb.dev/clipstash/internal/imagestore"
)

// DefaultSettleDelay is how long the clipboard write is given to settle
// before monitoring resumes.
const DefaultSettleDelay = 300 * time.Millisecond

// Monitor is the start/stop surface of the clipboard watcher.
type Monitor interface {
	Start()
	Stop()
}

// KeySender delivers the OS-level paste keystroke to the focused application.
// The platform automation behind it is external; failures are tolerated —
// the content is on the clipboard either way, so a manual paste still works.
type KeySender interface {
	SendPaste() error
}

// NopKeySender performs no key simulation. The daemon uses it when no
// platform automation is configured.
type NopKeySender struct{}

func (NopKeySender) SendPaste() error { return nil }

// Coordinator owns the "choose to paste" flow.
type Coordinator struct {
	store    *history.Store
	accessor clip.Accessor
	monitor  Monitor
	keys     KeySender
	settle   time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSettleDelay overrides the monitoring resume delay. Mainly for tests.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.settle = d }
}

// New returns a Coordinator. A nil keys falls back to NopKeySender.
func New(store *history.Store, accessor clip.Accessor, monitor Monitor, keys KeySender, opts ...Option) *Coordinator {
	if keys == nil {
		keys = NopKeySender{}
	}
	c := &Coordinator{
		store:    store,
		accessor: accessor,
		monitor:  monitor,
		keys:     keys,
		settle:   DefaultSettleDelay,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Paste writes the entry with the given id back to the OS clipboard in its
// native representation, records the usage, and requests the paste keystroke.
// Monitoring is suspended for the write and resumes after the settle delay;
// the resume re-baselines the watcher, so the write is never re-captured.
func (c *Coordinator) Paste(id int64) (history.Entry, error) {
	entry, err := c.store.Get(id)
	if err != nil {
		return history.Entry{}, err
	}

	c.monitor.Stop()
	defer func() {
		time.Sleep(c.settle)
		c.monitor.Start()
	}()

	if err := c.writeEntry(entry); err != nil {
		return history.Entry{}, fmt.Errorf("clipboard write: %w", err)
	}

	touched, err := c.store.Touch(id)
	if err == nil {
		entry = touched
	}

	if err := c.keys.SendPaste(); err != nil {
		slog.Warn("paste keystroke failed, content remains on clipboard", "err", err)
	}
	return entry, nil
}

func (c *Coordinator) writeEntry(e history.Entry) error {
	switch e.Format {
	case classify.FormatHTML, classify.FormatRTF:
		return c.accessor.WriteMarkup(e.Content, classify.PlainText(e.Content, e.Format))
	case classify.FormatImage:
		raw, err := imagestore.FromDataURI(e.Content)
		if err != nil {
			return err
		}
		return c.accessor.WriteImage(raw)
	default:
		// text and file entries both travel as plain text; a file entry's
		// content is its path reference.
		return c.accessor.WriteText(e.Content)
	}
}
