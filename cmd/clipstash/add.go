package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"go.klb.dev/clipstash/internal/protocol"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add an entry directly, without going through the clipboard",
		Long: `Adds a text entry to the history as if it had been copied. Text is taken
from the arguments, or from stdin when none are given:

  clipstash add "meeting room 4B"
  git log -1 --format=%H | clipstash add --pin`,
		RunE: runAdd,
	}
	cmd.Flags().Bool("pin", false, "pin the entry immediately")
	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	pin, _ := cmd.Flags().GetBool("pin")

	content := strings.Join(args, " ")
	if content == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		content = strings.TrimRight(string(raw), "\n")
	}
	if content == "" {
		return fmt.Errorf("nothing to add")
	}

	resp, err := roundtrip(&protocol.Request{Type: protocol.TypeAdd, Content: content, Pinned: pin})
	if err != nil {
		return err
	}
	return entryResult(resp, "added")
}
