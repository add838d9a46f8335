package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"go.klb.dev/clipstash/internal/protocol"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List clipboard history (pinned entries first)",
		Long: `Lists history entries: all pinned entries first, then a page of
non-pinned entries, both newest-first. Filters combine:

  clipstash history --category URLs
  clipstash history --type code --search handler
  clipstash history --limit 10 --offset 20`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	f := cmd.Flags()
	f.Int("limit", 100, "page size for non-pinned entries")
	f.Int("offset", 0, "offset into the non-pinned entries")
	f.String("category", "", `category filter (case-insensitive; "all" or empty = no filter)`)
	f.String("type", "", "content type filter: text|url|email|phone|code|rich-text|image|file")
	f.String("search", "", "substring search over content, preview, category and note")
	f.Bool("json", false, "emit entries as JSON")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	limit, _ := f.GetInt("limit")
	offset, _ := f.GetInt("offset")
	category, _ := f.GetString("category")
	ctype, _ := f.GetString("type")
	search, _ := f.GetString("search")
	asJSON, _ := f.GetBool("json")

	resp, err := roundtrip(&protocol.Request{
		Type: protocol.TypeHistory,
		Query: &protocol.Query{
			Limit:       limit,
			Offset:      offset,
			Category:    category,
			ContentType: ctype,
			Search:      search,
		},
	})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp.Entries)
	}

	for _, e := range resp.Entries {
		marker := " "
		if e.IsPinned {
			marker = "*"
		}
		fmt.Printf("%s %4d  %-16s %s\n", marker, e.ID, e.Category, e.Preview)
	}
	return nil
}

// idArg parses the single <id> positional argument the mutation commands take.
func idArg(args []string) (int64, error) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q", args[0])
	}
	return id, nil
}

func newPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Toggle an entry's pin (pinned entries are never evicted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := idArg(args)
			if err != nil {
				return err
			}
			resp, err := roundtrip(&protocol.Request{Type: protocol.TypePin, ID: id})
			if err != nil {
				return err
			}
			return entryResult(resp, "pinned")
		},
	}
}

func newFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle an entry's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := idArg(args)
			if err != nil {
				return err
			}
			resp, err := roundtrip(&protocol.Request{Type: protocol.TypeFavorite, ID: id})
			if err != nil {
				return err
			}
			return entryResult(resp, "favorite")
		},
	}
}

func newNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <id> <text>",
		Short: "Attach a note to an entry (empty text clears it)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := idArg(args)
			if err != nil {
				return err
			}
			note := ""
			if len(args) > 1 {
				note = args[1]
			}
			resp, err := roundtrip(&protocol.Request{Type: protocol.TypeNote, ID: id, Note: &note})
			if err != nil {
				return err
			}
			return entryResult(resp, "noted")
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := idArg(args)
			if err != nil {
				return err
			}
			resp, err := roundtrip(&protocol.Request{Type: protocol.TypeDelete, ID: id})
			if err != nil {
				return err
			}
			if resp.Found {
				fmt.Printf("deleted #%d\n", id)
			} else {
				fmt.Println("no such entry")
			}
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all non-pinned entries (pinned entries survive)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			resp, err := roundtrip(&protocol.Request{Type: protocol.TypeClear})
			if err != nil {
				return err
			}
			if resp.Cleared {
				fmt.Println("history cleared (pinned entries kept)")
			} else {
				fmt.Println("nothing to clear")
			}
			return nil
		},
	}
}
