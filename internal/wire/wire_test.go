package wire

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMsg struct {
	Kind string `json:"kind"`
	Body string `json:"body,omitempty"`
}

func pipePair(t *testing.T) (*Conn, *Conn) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() { a.Close(); b.Close() })
	return New(a), New(b)
}

func TestRoundTrip(t *testing.T) {
	client, server := pipePair(t)

	errc := make(chan error, 1)
	go func() {
		errc <- client.WriteJSON(&testMsg{Kind: "ping", Body: "hello"})
	}()

	var got testMsg
	require.NoError(t, server.ReadJSON(&got))
	require.NoError(t, <-errc)
	assert.Equal(t, "ping", got.Kind)
	assert.Equal(t, "hello", got.Body)
}

func TestMultipleMessagesKeepFraming(t *testing.T) {
	client, server := pipePair(t)

	go func() {
		for _, body := range []string{"one", "two", "three"} {
			_ = client.WriteJSON(&testMsg{Kind: "seq", Body: body})
		}
	}()

	for _, want := range []string{"one", "two", "three"} {
		var got testMsg
		require.NoError(t, server.ReadJSON(&got))
		assert.Equal(t, want, got.Body)
	}
}

func TestBodyMayContainEscapedNewlines(t *testing.T) {
	client, server := pipePair(t)

	go func() {
		_ = client.WriteJSON(&testMsg{Kind: "multi", Body: "line1\nline2\nline3"})
	}()

	var got testMsg
	require.NoError(t, server.ReadJSON(&got))
	assert.Equal(t, "line1\nline2\nline3", got.Body)
}

func TestReadGarbageFails(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	go func() {
		_, _ = a.Write([]byte("this is not json\n"))
	}()

	var got testMsg
	assert.Error(t, New(b).ReadJSON(&got))
}

func TestReadAfterPeerCloseFails(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()
	a.Close()

	var got testMsg
	assert.Error(t, New(b).ReadJSON(&got))
}

func TestReadDeadline(t *testing.T) {
	_, server := pipePair(t)

	server.SetReadDeadline(20 * time.Millisecond)
	var got testMsg
	err := server.ReadJSON(&got)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "deadline") ||
		strings.Contains(err.Error(), "timeout"))
}
