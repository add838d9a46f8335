package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipstash/internal/clip"
	"go.klb.dev/clipstash/internal/feed"
	"go.klb.dev/clipstash/internal/history"
	"go.klb.dev/clipstash/internal/imagestore"
	"go.klb.dev/clipstash/internal/ipc"
	"go.klb.dev/clipstash/internal/paste"
	"go.klb.dev/clipstash/internal/service"
	"go.klb.dev/clipstash/internal/settings"
	"go.klb.dev/clipstash/internal/watcher"
)

func newDaemonCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the clipboard history daemon",
		Long: `Starts the clipstash daemon: polls the system clipboard, stores
classified history entries, and serves the IPC socket the other sub-commands
(and any UI shell) talk to.

Config file search order:
  /etc/clipstash/clipstash.toml
  $HOME/.config/clipstash/clipstash.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPSTASH_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runDaemon(v) },
	}

	f := cmd.Flags()
	f.Int(settings.KeyMaxHistoryItems, settings.DefaultMaxHistoryItems, "maximum non-pinned history entries (clamped to 20..100)")
	f.Bool(settings.KeyMonitorClipboard, true, "poll the clipboard for changes")
	f.Bool(settings.KeyAutoCategories, true, "categorise captures heuristically (URLs, code, …)")
	f.Duration(settings.KeyPollInterval, settings.DefaultPollInterval, "clipboard polling interval")
	f.String(settings.KeyDataDir, "", "directory for the history file and captured images")
	addDaemonFlags(cmd)

	return cmd
}

func runDaemon(v *viper.Viper) error {
	setupLogging(v)

	st := settings.New(v)
	dataDir := st.DataDir()

	slog.Info("clipstash daemon starting",
		"version", Version,
		"data_dir", dataDir,
		"max_items", st.MaxHistoryItems(),
		"poll_interval", st.PollInterval(),
	)

	store := history.Open(filepath.Join(dataDir, "history.json"))
	defer store.Close()

	accessor := clip.New()
	defer accessor.Close()

	f := feed.New()
	w := watcher.New(watcher.Config{
		Accessor: accessor,
		Store:    store,
		Settings: st,
		Images:   imagestore.New(filepath.Join(dataDir, "images")),
		Publish:  f,
	})
	paster := paste.New(store, accessor, w, nil)

	// A capacity change takes effect immediately, not just on future inserts.
	st.OnChange(func(key string) {
		if key == "" || key == settings.KeyMaxHistoryItems {
			store.Evict(st.MaxHistoryItems())
		}
	})
	if v.ConfigFileUsed() != "" {
		v.OnConfigChange(func(fsnotify.Event) {
			slog.Info("config reloaded", "file", v.ConfigFileUsed())
			st.NotifyReload()
		})
		v.WatchConfig()
	}

	w.Start()
	defer w.Stop()

	ln, err := ipc.Listen()
	if err != nil {
		return fmt.Errorf("ipc listen: %w", err)
	}
	defer ln.Close()
	slog.Info("IPC socket listening", "path", ipc.SocketPath())

	go service.New(store, paster, f, st).Serve(ln)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	slog.Info("shutting down", "signal", s)
	return nil
}
