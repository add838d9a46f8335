//go:build !windows

package ipc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocketPathEnvOverride(t *testing.T) {
	t.Setenv("CLIPSTASH_SOCKET", "/tmp/custom.sock")
	assert.Equal(t, "/tmp/custom.sock", SocketPath())
}

func TestListenDialRoundTrip(t *testing.T) {
	t.Setenv("CLIPSTASH_SOCKET", filepath.Join(t.TempDir(), "c.sock"))

	assert.False(t, IsRunning())

	ln, err := Listen()
	require.NoError(t, err)
	defer ln.Close()

	assert.True(t, IsRunning())

	conn, err := Dial()
	require.NoError(t, err)
	conn.Close()
}

func TestSocketIsOwnerOnly(t *testing.T) {
	t.Setenv("CLIPSTASH_SOCKET", filepath.Join(t.TempDir(), "c.sock"))

	ln, err := Listen()
	require.NoError(t, err)
	defer ln.Close()

	info, err := os.Stat(SocketPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestListenRemovesStaleSocketFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.sock")
	t.Setenv("CLIPSTASH_SOCKET", path)

	// Leftover from a crashed run: a path nothing is listening on.
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	ln, err := Listen()
	require.NoError(t, err)
	ln.Close()
}

func TestListenRefusesLiveSocket(t *testing.T) {
	t.Setenv("CLIPSTASH_SOCKET", filepath.Join(t.TempDir(), "c.sock"))

	ln, err := Listen()
	require.NoError(t, err)
	defer ln.Close()

	_, err = Listen()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running daemon")
}
