// Package service implements the daemon side of the clipstash IPC protocol:
// one request per connection, except WATCH which upgrades the connection to a
// stream of captured entries.
package service

import (
	"errors"
	"log/slog"
	"net"

	"go.klb.dev/clipstash/internal/classify"
	"go.klb.dev/clipstash/internal/feed"
	"go.klb.dev/clipstash/internal/history"
	"go.klb.dev/clipstash/internal/paste"
	"go.klb.dev/clipstash/internal/protocol"
	"go.klb.dev/clipstash/internal/settings"
	"go.klb.dev/clipstash/internal/wire"
)

// Service answers IPC requests against the store, paste coordinator and feed.
type Service struct {
	store    *history.Store
	paster   *paste.Coordinator
	feed     *feed.Feed
	settings *settings.Settings
}

// New returns a Service.
func New(store *history.Store, paster *paste.Coordinator, f *feed.Feed, s *settings.Settings) *Service {
	return &Service{store: store, paster: paster, feed: f, settings: s}
}

// Serve accepts connections until the listener is closed.
func (s *Service) Serve(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *Service) handleConn(conn net.Conn) {
	defer conn.Close()
	wc := wire.New(conn)

	var req protocol.Request
	if err := wc.ReadJSON(&req); err != nil {
		slog.Debug("ipc: bad request", "err", err)
		return
	}

	if req.Type == protocol.TypeWatch {
		s.streamEntries(wc)
		return
	}

	resp := s.dispatch(&req)
	if err := wc.WriteJSON(resp); err != nil {
		slog.Debug("ipc: response write failed", "err", err)
	}
}

func (s *Service) dispatch(req *protocol.Request) *protocol.Response {
	switch req.Type {
	case protocol.TypeHistory:
		entries := s.store.Query(req.Query.Options())
		return &protocol.Response{Type: protocol.TypeEntries, Entries: entries}

	case protocol.TypeAdd:
		return s.add(req)

	case protocol.TypePin:
		entry, err := s.store.TogglePin(req.ID)
		return entryOrNotFound(entry, err)

	case protocol.TypeFavorite:
		entry, err := s.store.Get(req.ID)
		if err != nil {
			return entryOrNotFound(entry, err)
		}
		fav := !entry.IsFavorite
		entry, err = s.store.Update(req.ID, history.Patch{IsFavorite: &fav})
		return entryOrNotFound(entry, err)

	case protocol.TypeNote:
		note := ""
		if req.Note != nil {
			note = *req.Note
		}
		entry, err := s.store.Update(req.ID, history.Patch{Note: &note})
		return entryOrNotFound(entry, err)

	case protocol.TypeDelete:
		return &protocol.Response{Type: protocol.TypeOK, Found: s.store.Delete(req.ID)}

	case protocol.TypeClear:
		return &protocol.Response{Type: protocol.TypeOK, Cleared: s.store.Clear()}

	case protocol.TypePaste:
		entry, err := s.paster.Paste(req.ID)
		return entryOrNotFound(entry, err)

	default:
		return protocol.Errorf("unknown request type %q", req.Type)
	}
}

// add captures an explicitly submitted payload, classifying it the same way
// the watcher classifies a polled change.
func (s *Service) add(req *protocol.Request) *protocol.Response {
	if req.Content == "" {
		return protocol.Errorf("empty content")
	}
	auto := s.settings.AutoCategories()
	ct := classify.DetectContentType(req.Content, classify.FormatText)
	entry := s.store.Insert(history.Draft{
		Content:     req.Content,
		Format:      classify.FormatText,
		ContentType: ct,
		Category:    classify.Categorize(ct, auto),
		Preview:     classify.Preview(req.Content, classify.FormatText),
		AppName:     "clipstash",
		IsPinned:    req.Pinned,
	}, s.settings.MaxHistoryItems())
	s.feed.Publish(entry)
	return &protocol.Response{Type: protocol.TypeEntry, Entry: &entry, Found: true}
}

// streamEntries forwards captured entries until the client disconnects.
func (s *Service) streamEntries(wc *wire.Conn) {
	ch, cancel := s.feed.Subscribe()
	defer cancel()

	if err := wc.WriteJSON(&protocol.Response{Type: protocol.TypeOK}); err != nil {
		return
	}
	for entry := range ch {
		e := entry
		if err := wc.WriteJSON(&protocol.Response{Type: protocol.TypeEntry, Entry: &e}); err != nil {
			return
		}
	}
}

// entryOrNotFound maps store results onto the wire: a missing id is not an
// error, it is Found=false with no entry.
func entryOrNotFound(entry history.Entry, err error) *protocol.Response {
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return &protocol.Response{Type: protocol.TypeEntry, Found: false}
		}
		return protocol.Errorf("%v", err)
	}
	return &protocol.Response{Type: protocol.TypeEntry, Entry: &entry, Found: true}
}
