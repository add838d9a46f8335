// Package watcher polls the OS clipboard, diffs it against the last observed
// state, and turns detected changes into classified history entries.
//
// Two independent tracks are checked on every tick: the text family (plain
// text is the canonical change signal, even when the captured content ends up
// being HTML or RTF) and the image channel (diffed by content hash so that
// re-copying identical bytes never registers as a change). A single tick may
// therefore emit zero, one or two entries.
package watcher

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"go.klb.dev/clipstash/internal/classify"
	"go.klb.dev/clipstash/internal/clip"
	"go.klb.dev/clipstash/internal/history"
	"go.klb.dev/clipstash/internal/imagestore"
	"go.klb.dev/clipstash/internal/settings"
)

// UnknownApp is the fallback when the focused application cannot be resolved.
const UnknownApp = "Unknown"

// Publisher receives each newly stored entry. The daemon wires this to the
// entry feed consumed by the IPC watch stream.
type Publisher interface {
	Publish(history.Entry)
}

// Config assembles a Watcher's collaborators.
type Config struct {
	Accessor clip.Accessor
	Store    *history.Store
	Settings *settings.Settings
	Images   *imagestore.Store
	Publish  Publisher

	// ResolveApp names the application owning input focus, best effort.
	// Nil means every capture is attributed to UnknownApp.
	ResolveApp func() string
}

// Watcher is the polling clipboard monitor.
type Watcher struct {
	cfg Config

	mu      sync.Mutex
	running bool
	done    chan struct{}

	// Last observed state, owned by the polling goroutine between ticks and
	// reset by Start's baseline capture.
	lastText      string
	lastImageHash string
}

// New returns a stopped Watcher.
func New(cfg Config) *Watcher {
	return &Watcher{cfg: cfg}
}

// Start captures the current clipboard as the "last seen" baseline — content
// already on the clipboard at startup is not treated as a new entry — and
// begins polling. Calling Start on a running watcher is a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.done = make(chan struct{})

	w.baselineLocked()

	interval := w.cfg.Settings.PollInterval()
	go w.loop(w.done, interval)
	slog.Info("clipboard watcher started", "interval", interval)
}

// Stop cancels polling. Idempotent; leaves no dangling goroutines.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.done)
	slog.Info("clipboard watcher stopped")
}

// Running reports whether the watcher is polling.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) baselineLocked() {
	if snap, err := w.cfg.Accessor.ReadSnapshot(); err == nil {
		w.lastText = snap.Text
	} else {
		slog.Warn("baseline clipboard read failed", "err", err)
	}
	if img, err := w.cfg.Accessor.ReadImage(); err == nil {
		w.lastImageHash = hashImage(img)
	} else {
		slog.Warn("baseline image read failed", "err", err)
	}
}

// loop runs ticks from a single goroutine so a slow tick can never overlap
// the next one.
func (w *Watcher) loop(done <-chan struct{}, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			w.tick()
		}
	}
}

// Tick runs one poll cycle immediately. Exposed for tests; the polling loop
// calls it on every ticker fire.
func (w *Watcher) Tick() { w.tick() }

func (w *Watcher) tick() {
	if !w.cfg.Settings.MonitorClipboard() {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		// Stopped between the ticker firing and the lock; a paste writeback
		// may be in flight and must not be re-captured.
		return
	}
	w.textTick()
	w.imageTick()
}

// textTick detects text-family changes. The remembered value is always the
// plain-text channel: HTML/RTF channels routinely differ between reads of the
// same logical copy, so plain text is the only reliable change signal.
func (w *Watcher) textTick() {
	snap, err := w.cfg.Accessor.ReadSnapshot()
	if err != nil {
		slog.Debug("clipboard read failed, skipping tick", "err", err)
		return
	}
	if snap.Text == "" || snap.Text == w.lastText {
		return
	}

	c := classify.Snapshot(snap, w.cfg.Settings.AutoCategories())
	content := snap.Text
	switch c.Format {
	case classify.FormatHTML:
		content = snap.HTML
	case classify.FormatRTF:
		content = snap.RTF
	}
	w.submit(history.Draft{
		Content:     content,
		Format:      c.Format,
		ContentType: c.ContentType,
		Category:    c.Category,
		Preview:     c.Preview,
	})
	w.lastText = snap.Text
}

// imageTick detects image changes by content hash.
func (w *Watcher) imageTick() {
	img, err := w.cfg.Accessor.ReadImage()
	if err != nil {
		slog.Debug("clipboard image read failed, skipping tick", "err", err)
		return
	}
	hash := hashImage(img)
	if hash == "" || hash == w.lastImageHash {
		return
	}

	content := imagestore.DataURI(img)
	if w.cfg.Images != nil {
		if saved, err := w.cfg.Images.Save(img, hash); err != nil {
			slog.Warn("image persist failed", "err", err)
		} else {
			content = saved.DataURI
		}
	}

	auto := w.cfg.Settings.AutoCategories()
	w.submit(history.Draft{
		Content:     content,
		Format:      classify.FormatImage,
		ContentType: classify.TypeImage,
		Category:    classify.Categorize(classify.TypeImage, auto),
		Preview:     classify.Preview(content, classify.FormatImage),
	})
	w.lastImageHash = hash
}

// submit stores a draft and republishes the saved entry. Never lets an error
// escape the tick.
func (w *Watcher) submit(draft history.Draft) {
	draft.AppName = w.resolveApp()
	entry := w.cfg.Store.Insert(draft, w.cfg.Settings.MaxHistoryItems())
	slog.Debug("clipboard change captured",
		"id", entry.ID,
		"format", entry.Format,
		"type", entry.ContentType,
		"app", entry.AppName,
	)
	if w.cfg.Publish != nil {
		w.cfg.Publish.Publish(entry)
	}
}

func (w *Watcher) resolveApp() string {
	if w.cfg.ResolveApp == nil {
		return UnknownApp
	}
	if name := w.cfg.ResolveApp(); name != "" {
		return name
	}
	return UnknownApp
}

// hashImage returns a hex digest of the image bytes, or "" for no image.
// Hashing content rather than a timestamp means re-copying the same image is
// not a change, while a different image copied within the same tick is.
func hashImage(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
