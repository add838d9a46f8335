// Package settings wraps viper as the daemon's settings provider. The core
// consumes it read-mostly; every getter applies a documented default so that
// an absent config file or unset key never fails the operation that needed
// the value.
package settings

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Keys understood by the core.
const (
	KeyMaxHistoryItems  = "max_history_items"
	KeyMonitorClipboard = "monitor_clipboard"
	KeyAutoCategories   = "auto_categories"
	KeyPollInterval     = "poll_interval"
	KeyDataDir          = "data_dir"
)

// Defaults applied when a key is unset.
const (
	DefaultMaxHistoryItems = 40
	DefaultPollInterval    = 500 * time.Millisecond
)

// Settings is a thread-safe view over a viper instance.
type Settings struct {
	mu sync.RWMutex
	v  *viper.Viper

	listeners []func(key string)
}

// New wraps v, installing defaults for any core key it does not already set.
func New(v *viper.Viper) *Settings {
	v.SetDefault(KeyMaxHistoryItems, DefaultMaxHistoryItems)
	v.SetDefault(KeyMonitorClipboard, true)
	v.SetDefault(KeyAutoCategories, true)
	v.SetDefault(KeyPollInterval, DefaultPollInterval)
	v.SetDefault(KeyDataDir, defaultDataDir())
	return &Settings{v: v}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "clipstash")
	}
	return filepath.Join(os.TempDir(), "clipstash")
}

// MaxHistoryItems returns the configured history capacity.
func (s *Settings) MaxHistoryItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetInt(KeyMaxHistoryItems)
}

// MonitorClipboard reports whether the watcher should poll at all.
func (s *Settings) MonitorClipboard() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetBool(KeyMonitorClipboard)
}

// AutoCategories reports whether heuristic categorisation is enabled.
func (s *Settings) AutoCategories() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetBool(KeyAutoCategories)
}

// PollInterval returns the watcher tick interval.
func (s *Settings) PollInterval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d := s.v.GetDuration(KeyPollInterval); d > 0 {
		return d
	}
	return DefaultPollInterval
}

// DataDir returns the directory holding the history file and captured images.
func (s *Settings) DataDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString(KeyDataDir)
}

// Get returns the raw value for key, or nil when unset.
func (s *Settings) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.Get(key)
}

// Set stores a value and notifies change listeners.
func (s *Settings) Set(key string, value any) {
	s.mu.Lock()
	s.v.Set(key, value)
	listeners := append(([]func(string))(nil), s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(key)
	}
}

// All returns a snapshot of every setting viper knows about.
func (s *Settings) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.AllSettings()
}

// OnChange registers fn to run after any Set or config-file reload. The key
// argument is "" for whole-file reloads.
func (s *Settings) OnChange(fn func(key string)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// NotifyReload tells listeners the backing config changed out of band
// (viper's WatchConfig path).
func (s *Settings) NotifyReload() {
	s.mu.RLock()
	listeners := append(([]func(string))(nil), s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn("")
	}
}
