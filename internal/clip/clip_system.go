//go:build darwin || linux || windows

package clip

import (
	"log/slog"

	"golang.design/x/clipboard"
)

type systemAccessor struct{}

// New returns the system clipboard accessor, or a headless no-op accessor if
// the display environment is unavailable (e.g. a server without X11 or
// Wayland). clipboard.Init is called here rather than in init() so that CLI
// sub-commands that never touch the clipboard don't trigger the warning.
func New() Accessor {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return &headlessAccessor{}
	}
	return &systemAccessor{}
}

func (a *systemAccessor) ReadSnapshot() (Snapshot, error) {
	// golang.design/x/clipboard exposes the plain-text and image channels.
	// HTML and RTF reads are left empty here; the format decision degrades
	// to plain text, which is the correct capture for these platforms.
	return Snapshot{Text: string(clipboard.Read(clipboard.FmtText))}, nil
}

func (a *systemAccessor) ReadImage() ([]byte, error) {
	return clipboard.Read(clipboard.FmtImage), nil
}

func (a *systemAccessor) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (a *systemAccessor) WriteMarkup(_, fallback string) error {
	// No HTML/RTF write bridge; the plain-text fallback keeps manual paste
	// working in every target application.
	clipboard.Write(clipboard.FmtText, []byte(fallback))
	return nil
}

func (a *systemAccessor) WriteImage(png []byte) error {
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}

func (a *systemAccessor) Close() {}
