package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.klb.dev/clipstash/internal/protocol"
)

func newPasteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paste <id>",
		Short: "Put a history entry back on the clipboard and paste it",
		Long: `Writes the chosen entry back to the OS clipboard in its native
representation and asks the daemon to deliver the paste keystroke to the last
focused application. If key simulation is unavailable the content stays on
the clipboard for a manual paste.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := idArg(args)
			if err != nil {
				return err
			}
			resp, err := roundtrip(&protocol.Request{Type: protocol.TypePaste, ID: id})
			if err != nil {
				return err
			}
			if !resp.Found || resp.Entry == nil {
				fmt.Println("no such entry")
				return nil
			}
			fmt.Printf("pasted #%d (%s, used %d times)\n",
				resp.Entry.ID, resp.Entry.Format, resp.Entry.UsageCount)
			return nil
		},
	}
}
