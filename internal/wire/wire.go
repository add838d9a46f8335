// Package wire handles reading and writing newline-delimited JSON messages
// over a net.Conn. Every message is exactly one line: <json>\n. The framing
// carries no encryption — the transport is a local, owner-restricted socket.
package wire

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

const (
	// MaxMessageSize is the largest message we will read (16 MiB). Image
	// entries travel as base64 data URIs, so lines can be large.
	MaxMessageSize = 16 * 1024 * 1024

	writeDeadline = 5 * time.Second
)

// Conn wraps a net.Conn with buffered newline-delimited JSON framing.
type Conn struct {
	conn net.Conn
	br   *bufio.Reader
}

// New wraps conn.
func New(conn net.Conn) *Conn {
	return &Conn{
		conn: conn,
		br:   bufio.NewReaderSize(conn, 64*1024),
	}
}

// SetReadDeadline sets or clears the read deadline.
func (c *Conn) SetReadDeadline(d time.Duration) {
	if d == 0 {
		_ = c.conn.SetReadDeadline(time.Time{})
	} else {
		_ = c.conn.SetReadDeadline(time.Now().Add(d))
	}
}

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.conn.Close() }

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// WriteJSON serialises v and writes it followed by a newline.
func (c *Conn) WriteJSON(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	line := append(raw, '\n')

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	_, err = c.conn.Write(line)
	_ = c.conn.SetWriteDeadline(time.Time{})
	return err
}

// ReadJSON reads one newline-terminated line and deserialises it into v.
func (c *Conn) ReadJSON(v any) error {
	line, err := c.br.ReadBytes('\n')
	if err != nil {
		return err
	}
	if len(line) > MaxMessageSize {
		return fmt.Errorf("message too large (%d bytes)", len(line))
	}
	return json.Unmarshal(line[:len(line)-1], v)
}
