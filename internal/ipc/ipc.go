// Package ipc owns the daemon's local control socket: where it lives, how the
// daemon claims it, and how sub-commands reach it. Claiming the socket doubles
// as the single-instance lock; a second daemon refuses to start rather than
// stealing the path from a live one.
package ipc

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
)

// SocketPath returns the platform-appropriate path for the IPC socket.
//
//   - Linux / macOS: $TMPDIR/clipstash.sock  (override with $CLIPSTASH_SOCKET)
//   - Windows:       \\.\pipe\clipstash      (named pipe, not yet implemented)
func SocketPath() string {
	if s := os.Getenv("CLIPSTASH_SOCKET"); s != "" {
		return s
	}
	if runtime.GOOS == "windows" {
		return `\\.\pipe\clipstash`
	}
	return filepath.Join(os.TempDir(), "clipstash.sock")
}

// IsRunning reports whether a clipstash daemon appears to be listening on the
// IPC socket. It does a cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := net.Dial("unix", SocketPath())
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen claims the IPC socket for this daemon. A path left behind by a
// crashed run is removed; a path with a live daemon behind it is an error.
// The socket is chmodded owner-only so the restriction does not depend on the
// process umask.
func Listen() (net.Listener, error) {
	path := SocketPath()
	if _, err := os.Stat(path); err == nil {
		if IsRunning() {
			return nil, fmt.Errorf("socket %s is held by a running daemon", path)
		}
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("remove stale socket: %w", err)
		}
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		return nil, fmt.Errorf("restrict socket: %w", err)
	}
	return ln, nil
}

// Dial connects to the IPC socket.
func Dial() (net.Conn, error) {
	return net.Dial("unix", SocketPath())
}
