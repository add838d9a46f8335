//go:build !darwin && !linux && !windows

package clip

// New returns a no-op accessor on platforms without clipboard support.
func New() Accessor { return &headlessAccessor{} }
