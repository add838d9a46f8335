// clipstash: clipboard history daemon and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/clipstash/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipstash",
		Short: "Clipboard history manager",
		Long: `clipstash watches the system clipboard, keeps a bounded history of
everything you copy, classifies each capture (URLs, email addresses, phone
numbers, code, rich text, images), and lets you recall and re-paste any entry.

Run "clipstash daemon" once per session. The other sub-commands talk to the
daemon over a local socket:

  clipstash history --search invoice
  clipstash pin 42
  clipstash paste 42
  clipstash watch --json

Config file search order (first found wins):
  /etc/clipstash/clipstash.toml
  $HOME/.config/clipstash/clipstash.toml
  path supplied via --config

All flags can be set via CLIPSTASH_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newDaemonCmd(),
		newHistoryCmd(),
		newAddCmd(),
		newPinCmd(),
		newFavoriteCmd(),
		newNoteCmd(),
		newDeleteCmd(),
		newClearCmd(),
		newPasteCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipstash %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, format, level string) {
	logging.Setup(logging.Options{
		Format:      format,
		Level:       level,
		Interactive: interactive,
	})
}
