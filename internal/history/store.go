package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Limits on the number of non-pinned entries the store will retain. The
// configured maximum is clamped into this range before eviction runs.
const (
	MinCapacity = 20
	MaxCapacity = 100
)

// DefaultFlushDelay is the quiet period after the last mutation before the
// in-memory state is written to disk. Clipboard activity is bursty; the
// debounce collapses a burst of mutations into a single physical write.
const DefaultFlushDelay = time.Second

// ErrNotFound is returned by lookups for ids not present in the store.
var ErrNotFound = errors.New("history: entry not found")

// Store is the in-memory history mirrored to a JSON file on disk.
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	path    string
	entries []*Entry // most-recent-first insertion order
	nextID  int64

	flushDelay time.Duration
	flushTimer *time.Timer
	closed     bool

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithFlushDelay overrides the debounce quiet period. Mainly for tests.
func WithFlushDelay(d time.Duration) Option {
	return func(s *Store) { s.flushDelay = d }
}

// WithClock overrides the store's time source. Mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the history file at path, repairing partial records and starting
// from an empty collection if the file is missing or unparsable. The next
// entry id is seeded from the highest id seen.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:       path,
		flushDelay: DefaultFlushDelay,
		nextID:     1,
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("history file unreadable, starting empty", "path", s.path, "err", err)
		}
		return
	}

	var f fileFormat
	if err := json.Unmarshal(raw, &f); err != nil {
		slog.Warn("history file corrupt, starting empty", "path", s.path, "err", err)
		return
	}

	now := s.now()
	for _, rec := range f.Entries {
		var le looseEntry
		if err := json.Unmarshal(rec, &le); err != nil {
			// A mistyped field decodes best-effort; only records that are not
			// JSON objects at all are beyond repair. Field is "" when the
			// type error is about the record itself.
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) || typeErr.Field == "" {
				slog.Warn("skipping unreadable history record", "err", err)
				continue
			}
			slog.Warn("repairing history record with mistyped fields", "id", le.ID, "err", err)
		}
		e := le.repair(now)
		s.entries = append(s.entries, &e)
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
	}
	slog.Debug("history loaded", "path", s.path, "entries", len(s.entries))
}

// QueryOptions filters and paginates a history read. The zero value returns
// the first page with the default limit.
type QueryOptions struct {
	Limit       int    // page size for non-pinned entries; 0 means 100
	Offset      int    // offset into the non-pinned partition
	Category    string // case-insensitive exact match; "" or "all" disables
	ContentType string // exact match on content type; "" disables
	Search      string // case-insensitive substring over content/preview/category/note
}

// Query returns all matching pinned entries (newest-first) followed by one
// page of matching non-pinned entries (newest-first). Pagination never hides
// a pinned entry.
func (s *Store) Query(opts QueryOptions) []Entry {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var pinned, unpinned []*Entry
	for _, e := range s.entries {
		if !matches(e, opts) {
			continue
		}
		if e.IsPinned {
			pinned = append(pinned, e)
		} else {
			unpinned = append(unpinned, e)
		}
	}
	sortNewestFirst(pinned)
	sortNewestFirst(unpinned)

	if opts.Offset >= len(unpinned) {
		unpinned = nil
	} else {
		unpinned = unpinned[opts.Offset:]
	}
	if len(unpinned) > limit {
		unpinned = unpinned[:limit]
	}

	out := make([]Entry, 0, len(pinned)+len(unpinned))
	for _, e := range pinned {
		out = append(out, *e)
	}
	for _, e := range unpinned {
		out = append(out, *e)
	}
	return out
}

func matches(e *Entry, opts QueryOptions) bool {
	if opts.Category != "" && !strings.EqualFold(opts.Category, "all") &&
		!strings.EqualFold(e.Category, opts.Category) {
		return false
	}
	if opts.ContentType != "" && string(e.ContentType) != opts.ContentType {
		return false
	}
	if opts.Search != "" {
		q := strings.ToLower(opts.Search)
		if !strings.Contains(strings.ToLower(e.Content), q) &&
			!strings.Contains(strings.ToLower(e.Preview), q) &&
			!strings.Contains(strings.ToLower(e.Category), q) &&
			!strings.Contains(strings.ToLower(e.Note), q) {
			return false
		}
	}
	return true
}

func sortNewestFirst(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

// Insert adds a new entry from draft, assigns the next id, and prepends it to
// the collection. If the draft is not pinned, eviction runs immediately with
// the supplied capacity.
func (s *Store) Insert(draft Draft, maxItems int) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e := &Entry{
		ID:          s.nextID,
		Content:     draft.Content,
		Format:      draft.Format,
		ContentType: draft.ContentType,
		Category:    draft.Category,
		Preview:     draft.Preview,
		AppName:     draft.AppName,
		IsPinned:    draft.IsPinned,
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextID++
	s.entries = append([]*Entry{e}, s.entries...)

	if !draft.IsPinned {
		s.evictLocked(maxItems)
	}
	s.scheduleFlushLocked()
	return *e
}

// Evict enforces the capacity limit on the non-pinned partition, removing the
// oldest entries first. Pinned entries are excluded from both the count and
// the removal candidates.
func (s *Store) Evict(maxItems int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evictLocked(maxItems) {
		s.scheduleFlushLocked()
	}
}

func (s *Store) evictLocked(maxItems int) bool {
	limit := clampCapacity(maxItems)

	var unpinned []*Entry
	for _, e := range s.entries {
		if !e.IsPinned {
			unpinned = append(unpinned, e)
		}
	}
	excess := len(unpinned) - limit
	if excess <= 0 {
		return false
	}

	// Oldest first among the non-pinned entries.
	sort.SliceStable(unpinned, func(i, j int) bool {
		return unpinned[i].CreatedAt.Before(unpinned[j].CreatedAt)
	})
	doomed := make(map[int64]struct{}, excess)
	for _, e := range unpinned[:excess] {
		doomed[e.ID] = struct{}{}
	}

	kept := s.entries[:0]
	for _, e := range s.entries {
		if _, gone := doomed[e.ID]; !gone {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	slog.Debug("history evicted", "removed", excess, "limit", limit)
	return true
}

func clampCapacity(n int) int {
	if n < MinCapacity {
		return MinCapacity
	}
	if n > MaxCapacity {
		return MaxCapacity
	}
	return n
}

// Get returns the entry with the given id.
func (s *Store) Get(id int64) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.findLocked(id); e != nil {
		return *e, nil
	}
	return Entry{}, ErrNotFound
}

// Update merges patch into the entry with the given id, preserving identity
// and creation time and stamping UpdatedAt.
func (s *Store) Update(id int64, patch Patch) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findLocked(id)
	if e == nil {
		return Entry{}, ErrNotFound
	}
	if patch.IsPinned != nil {
		e.IsPinned = *patch.IsPinned
	}
	if patch.IsFavorite != nil {
		e.IsFavorite = *patch.IsFavorite
	}
	if patch.Note != nil {
		e.Note = *patch.Note
	}
	if patch.Tags != nil {
		e.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	e.UpdatedAt = s.now()
	s.scheduleFlushLocked()
	return *e, nil
}

// TogglePin flips the pinned flag on an entry.
func (s *Store) TogglePin(id int64) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findLocked(id)
	if e == nil {
		return Entry{}, ErrNotFound
	}
	e.IsPinned = !e.IsPinned
	e.UpdatedAt = s.now()
	s.scheduleFlushLocked()
	return *e, nil
}

// Touch records one paste of the entry: usage count up, last-used stamped.
func (s *Store) Touch(id int64) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findLocked(id)
	if e == nil {
		return Entry{}, ErrNotFound
	}
	now := s.now()
	e.UsageCount++
	e.LastUsedAt = &now
	e.UpdatedAt = now
	s.scheduleFlushLocked()
	return *e, nil
}

// Delete removes the entry with the given id, reporting whether it existed.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.scheduleFlushLocked()
			return true
		}
	}
	return false
}

// Clear removes every non-pinned entry. Pinned entries survive.
func (s *Store) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.IsPinned {
			kept = append(kept, e)
		}
	}
	changed := len(kept) != len(s.entries)
	s.entries = kept
	if changed {
		s.scheduleFlushLocked()
	}
	return changed
}

// Len returns the total number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close cancels any pending debounced flush and performs one final
// synchronous write. Safe to call more than once.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.flushTimer != nil {
		s.flushTimer.Stop()
		s.flushTimer = nil
	}
	err := s.writeLocked()
	s.mu.Unlock()
	if err != nil {
		slog.Error("final history flush failed", "err", err)
	}
}

// scheduleFlushLocked arms the debounce timer unless one is already pending.
func (s *Store) scheduleFlushLocked() {
	if s.closed || s.flushTimer != nil {
		return
	}
	s.flushTimer = time.AfterFunc(s.flushDelay, s.flush)
}

func (s *Store) flush() {
	s.mu.Lock()
	s.flushTimer = nil
	if s.closed {
		s.mu.Unlock()
		return
	}
	err := s.writeLocked()
	s.mu.Unlock()
	if err != nil {
		// In-memory state stays authoritative; the next mutation schedules
		// another attempt.
		slog.Error("history flush failed", "err", err)
	}
}

func (s *Store) writeLocked() error {
	f := fileFormat{
		Entries:   make([]json.RawMessage, 0, len(s.entries)),
		Settings:  map[string]any{},
		Version:   fileVersion,
		LastSaved: s.now(),
	}
	for _, e := range s.entries {
		rec, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode entry %d: %w", e.ID, err)
		}
		f.Entries = append(f.Entries, rec)
	}
	raw, err := json.MarshalIndent(&f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

func (s *Store) findLocked(id int64) *Entry {
	for _, e := range s.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}
