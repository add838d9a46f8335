// Package protocol defines the clipstash IPC protocol spoken between the CLI
// tools (and any UI shell) and a running daemon.
//
// All messages are newline-delimited JSON: exactly one line per message.
// Requests carry a type plus the fields that type needs; responses either
// answer the request or report an error. The WATCH request upgrades the
// connection to a stream of ENTRY messages, one per captured clipboard change.
package protocol

import (
	"encoding/json"
	"fmt"

	"go.klb.dev/clipstash/internal/history"
)

// Type identifies the kind of request or response.
type Type string

const (
	// Requests
	TypeHistory  Type = "HISTORY"
	TypeAdd      Type = "ADD"
	TypePin      Type = "PIN"
	TypeFavorite Type = "FAVORITE"
	TypeNote     Type = "NOTE"
	TypeDelete   Type = "DELETE"
	TypeClear    Type = "CLEAR"
	TypePaste    Type = "PASTE"
	TypeWatch    Type = "WATCH"

	// Responses
	TypeEntries Type = "ENTRIES"
	TypeEntry   Type = "ENTRY"
	TypeOK      Type = "OK"
	TypeError   Type = "ERROR"
)

// Query mirrors history.QueryOptions on the wire.
type Query struct {
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
	Category    string `json:"category,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Search      string `json:"search,omitempty"`
}

// Request is the client-to-daemon envelope.
type Request struct {
	Type Type `json:"type"`

	// HISTORY
	Query *Query `json:"query,omitempty"`

	// PIN / FAVORITE / NOTE / DELETE / PASTE
	ID int64 `json:"id,omitempty"`

	// NOTE
	Note *string `json:"note,omitempty"`

	// ADD
	Content string `json:"content,omitempty"`
	Pinned  bool   `json:"pinned,omitempty"`
}

// Response is the daemon-to-client envelope. For WATCH connections the
// daemon sends one TypeEntry response per captured change.
type Response struct {
	Type    Type            `json:"type"`
	Entries []history.Entry `json:"entries,omitempty"`
	Entry   *history.Entry  `json:"entry,omitempty"`
	Found   bool            `json:"found,omitempty"`
	Cleared bool            `json:"cleared,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Errorf builds an ERROR response.
func Errorf(format string, args ...any) *Response {
	return &Response{Type: TypeError, Error: fmt.Sprintf(format, args...)}
}

// Encode serialises a request to JSON without a trailing newline.
func (r *Request) Encode() ([]byte, error) { return json.Marshal(r) }

// DecodeRequest deserialises a request from raw JSON bytes.
func DecodeRequest(b []byte) (*Request, error) {
	var r Request
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("request decode: %w", err)
	}
	return &r, nil
}

// Encode serialises a response to JSON without a trailing newline.
func (r *Response) Encode() ([]byte, error) { return json.Marshal(r) }

// DecodeResponse deserialises a response from raw JSON bytes.
func DecodeResponse(b []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("response decode: %w", err)
	}
	return &r, nil
}

// Options converts the wire query to store options. A nil query yields the
// zero options (first page, default limit).
func (q *Query) Options() history.QueryOptions {
	if q == nil {
		return history.QueryOptions{}
	}
	return history.QueryOptions{
		Limit:       q.Limit,
		Offset:      q.Offset,
		Category:    q.Category,
		ContentType: q.ContentType,
		Search:      q.Search,
	}
}
