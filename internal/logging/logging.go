// Package logging configures the global slog logger for clipstash binaries.
// The daemon logs JSON when detached and human-readable tinted output when a
// terminal is attached; CLI sub-commands stay quiet unless asked otherwise.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pwntr/tinter"
)

// Options control logger construction. The zero value gives auto-detected
// format at info level on stderr.
type Options struct {
	// Format is one of "auto", "text" (tinted) or "json". Auto picks text
	// when the writer is a terminal.
	Format string

	// Level is a slog level name. Empty derives a default: debug when
	// Interactive, info otherwise.
	Level string

	// Interactive marks a foreground run; it affects the derived level only.
	Interactive bool

	// Writer overrides the destination. Nil means os.Stderr.
	Writer io.Writer
}

// Setup installs the global slog logger. Call once, after flag and config
// parsing.
func Setup(o Options) {
	w := o.Writer
	if w == nil {
		w = os.Stderr
	}

	level := parseLevel(o.Level, o.Interactive)

	var h slog.Handler
	if tinted(o.Format, w) {
		h = tinter.NewHandler(w, &tinter.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
		})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(h))
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

func tinted(format string, w io.Writer) bool {
	switch strings.ToLower(format) {
	case "text", "tint", "human":
		return true
	case "json":
		return false
	default:
		return IsTTY(w)
	}
}

func parseLevel(s string, interactive bool) slog.Level {
	if s == "" {
		if interactive {
			return slog.LevelDebug
		}
		return slog.LevelInfo
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
