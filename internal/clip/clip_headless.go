package clip

// headlessAccessor is a no-op accessor for environments without a display
// server (containers, CI, etc.). It is also the fallback when clipboard
// initialisation fails on a desktop platform.
type headlessAccessor struct{}

// NewHeadless returns a no-op accessor. Useful for running the daemon purely
// as an IPC-driven history service.
func NewHeadless() Accessor { return &headlessAccessor{} }

func (a *headlessAccessor) ReadSnapshot() (Snapshot, error) { return Snapshot{}, nil }
func (a *headlessAccessor) ReadImage() ([]byte, error)      { return nil, nil }
func (a *headlessAccessor) WriteText(string) error          { return nil }
func (a *headlessAccessor) WriteMarkup(_, _ string) error   { return nil }
func (a *headlessAccessor) WriteImage([]byte) error         { return nil }
func (a *headlessAccessor) Close()                          {}
