package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/clipstash/internal/ipc"
	"go.klb.dev/clipstash/internal/protocol"
	"go.klb.dev/clipstash/internal/wire"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream newly captured entries as they happen",
		Long: `Subscribes to the daemon's capture feed and prints one line per new
history entry until interrupted. With --json each entry is emitted as a JSON
object, which is the same hook a UI shell consumes.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
	cmd.Flags().Bool("json", false, "emit entries as JSON, one object per line")
	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	conn, err := ipc.Dial()
	if err != nil {
		return fmt.Errorf("no running clipstash daemon (start one with \"clipstash daemon\"): %w", err)
	}
	defer conn.Close()

	wc := wire.New(conn)
	if err := wc.WriteJSON(&protocol.Request{Type: protocol.TypeWatch}); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	var ack protocol.Response
	if err := wc.ReadJSON(&ack); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	if ack.Type == protocol.TypeError {
		return fmt.Errorf("daemon: %s", ack.Error)
	}

	enc := json.NewEncoder(os.Stdout)
	for {
		var resp protocol.Response
		if err := wc.ReadJSON(&resp); err != nil {
			// Daemon went away; a clean shutdown is not an error worth noise.
			return nil
		}
		if resp.Entry == nil {
			continue
		}
		if asJSON {
			_ = enc.Encode(resp.Entry)
			continue
		}
		e := resp.Entry
		fmt.Printf("%4d  %-16s %-10s %s\n", e.ID, e.Category, e.ContentType, e.Preview)
	}
}
