package main

import (
	"fmt"

	"go.klb.dev/clipstash/internal/ipc"
	"go.klb.dev/clipstash/internal/protocol"
	"go.klb.dev/clipstash/internal/wire"
)

// roundtrip sends one request to the running daemon and reads one response.
func roundtrip(req *protocol.Request) (*protocol.Response, error) {
	conn, err := ipc.Dial()
	if err != nil {
		return nil, fmt.Errorf("no running clipstash daemon (start one with \"clipstash daemon\"): %w", err)
	}
	defer conn.Close()

	wc := wire.New(conn)
	if err := wc.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	var resp protocol.Response
	if err := wc.ReadJSON(&resp); err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}
	if resp.Type == protocol.TypeError {
		return nil, fmt.Errorf("daemon: %s", resp.Error)
	}
	return &resp, nil
}

// entryResult prints the outcome of a single-entry operation, treating a
// missing id as a normal (non-error) outcome.
func entryResult(resp *protocol.Response, verb string) error {
	if !resp.Found || resp.Entry == nil {
		fmt.Println("no such entry")
		return nil
	}
	e := resp.Entry
	fmt.Printf("%s #%d  [%s]  %s\n", verb, e.ID, e.Category, e.Preview)
	return nil
}
