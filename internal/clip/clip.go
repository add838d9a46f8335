// Package clip provides a unified interface to the system clipboard.
//
// The watcher reads the clipboard through an Accessor so that tests can feed
// it scripted snapshots. Build constraints select the implementation:
//
//	clip_system.go   — desktop platforms via golang.design/x/clipboard
//	clip_headless.go — headless / container stub
package clip

// Snapshot is one simultaneous read of the clipboard's text-family channels.
// Channels that are empty or unsupported on the platform are "".
type Snapshot struct {
	Text string
	HTML string
	RTF  string
}

// Empty reports whether no text-family channel holds content.
func (s Snapshot) Empty() bool {
	return s.Text == "" && s.HTML == "" && s.RTF == ""
}

// Accessor is the OS clipboard boundary used by the watcher and the paste
// coordinator. Implementations must allow independent reads of the text-family
// channels and the image channel within the same polling tick.
type Accessor interface {
	// ReadSnapshot reads the plain-text, HTML and RTF channels together.
	ReadSnapshot() (Snapshot, error)

	// ReadImage returns the current clipboard image as PNG bytes, or nil if
	// no image is on the clipboard.
	ReadImage() ([]byte, error)

	// WriteText replaces the clipboard contents with plain text.
	WriteText(text string) error

	// WriteMarkup places rich markup on the clipboard with a plain-text
	// fallback for applications that only read the text channel. On platforms
	// without an HTML/RTF bridge the fallback alone is written.
	WriteMarkup(markup, fallback string) error

	// WriteImage replaces the clipboard contents with a PNG image.
	WriteImage(png []byte) error

	// Close releases any resources held by the accessor.
	Close()
}
