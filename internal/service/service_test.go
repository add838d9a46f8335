package service

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipstash/internal/classify"
	"go.klb.dev/clipstash/internal/clip"
	"go.klb.dev/clipstash/internal/feed"
	"go.klb.dev/clipstash/internal/history"
	"go.klb.dev/clipstash/internal/paste"
	"go.klb.dev/clipstash/internal/protocol"
	"go.klb.dev/clipstash/internal/settings"
	"go.klb.dev/clipstash/internal/wire"
)

type nopMonitor struct{}

func (nopMonitor) Start() {}
func (nopMonitor) Stop()  {}

type serviceFixture struct {
	svc   *Service
	store *history.Store
	feed  *feed.Feed
	clip  clip.Accessor
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	store := history.Open(filepath.Join(t.TempDir(), "history.json"),
		history.WithFlushDelay(time.Hour))
	t.Cleanup(store.Close)

	f := feed.New()
	accessor := clip.NewHeadless()
	coord := paste.New(store, accessor, nopMonitor{}, nil, paste.WithSettleDelay(0))
	st := settings.New(viper.New())
	return &serviceFixture{
		svc:   New(store, coord, f, st),
		store: store,
		feed:  f,
		clip:  accessor,
	}
}

// roundtrip drives one request through handleConn over an in-memory pipe.
func (f *serviceFixture) roundtrip(t *testing.T, req *protocol.Request) *protocol.Response {
	t.Helper()
	client, server := net.Pipe()
	defer client.Close()
	go f.svc.handleConn(server)

	wc := wire.New(client)
	require.NoError(t, wc.WriteJSON(req))
	var resp protocol.Response
	require.NoError(t, wc.ReadJSON(&resp))
	return &resp
}

func (f *serviceFixture) seed(content string) history.Entry {
	return f.store.Insert(history.Draft{
		Content: content, Format: classify.FormatText,
		ContentType: classify.TypeText, Category: classify.CategoryText,
		Preview: content,
	}, 40)
}

func TestAddAndHistory(t *testing.T) {
	f := newServiceFixture(t)

	resp := f.roundtrip(t, &protocol.Request{Type: protocol.TypeAdd, Content: "https://example.com"})
	require.Equal(t, protocol.TypeEntry, resp.Type)
	require.NotNil(t, resp.Entry)
	assert.Equal(t, classify.TypeURL, resp.Entry.ContentType)
	assert.Equal(t, classify.CategoryURLs, resp.Entry.Category)
	assert.Equal(t, "clipstash", resp.Entry.AppName)

	resp = f.roundtrip(t, &protocol.Request{Type: protocol.TypeHistory})
	require.Equal(t, protocol.TypeEntries, resp.Type)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "https://example.com", resp.Entries[0].Content)
}

func TestAddRejectsEmptyContent(t *testing.T) {
	f := newServiceFixture(t)
	resp := f.roundtrip(t, &protocol.Request{Type: protocol.TypeAdd})
	assert.Equal(t, protocol.TypeError, resp.Type)
	assert.NotEmpty(t, resp.Error)
}

func TestAddPinned(t *testing.T) {
	f := newServiceFixture(t)
	resp := f.roundtrip(t, &protocol.Request{Type: protocol.TypeAdd, Content: "keep", Pinned: true})
	require.NotNil(t, resp.Entry)
	assert.True(t, resp.Entry.IsPinned)
}

func TestHistoryWithQuery(t *testing.T) {
	f := newServiceFixture(t)
	f.seed("alpha")
	f.seed("beta")
	f.seed("gamma")

	resp := f.roundtrip(t, &protocol.Request{
		Type:  protocol.TypeHistory,
		Query: &protocol.Query{Search: "beta"},
	})
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "beta", resp.Entries[0].Content)
}

func TestPinToggle(t *testing.T) {
	f := newServiceFixture(t)
	e := f.seed("x")

	resp := f.roundtrip(t, &protocol.Request{Type: protocol.TypePin, ID: e.ID})
	require.True(t, resp.Found)
	assert.True(t, resp.Entry.IsPinned)

	resp = f.roundtrip(t, &protocol.Request{Type: protocol.TypePin, ID: e.ID})
	assert.False(t, resp.Entry.IsPinned)
}

func TestFavoriteToggle(t *testing.T) {
	f := newServiceFixture(t)
	e := f.seed("x")

	resp := f.roundtrip(t, &protocol.Request{Type: protocol.TypeFavorite, ID: e.ID})
	require.True(t, resp.Found)
	assert.True(t, resp.Entry.IsFavorite)

	resp = f.roundtrip(t, &protocol.Request{Type: protocol.TypeFavorite, ID: e.ID})
	assert.False(t, resp.Entry.IsFavorite)
}

func TestNoteSetAndClear(t *testing.T) {
	f := newServiceFixture(t)
	e := f.seed("x")

	note := "for the report"
	resp := f.roundtrip(t, &protocol.Request{Type: protocol.TypeNote, ID: e.ID, Note: &note})
	require.True(t, resp.Found)
	assert.Equal(t, "for the report", resp.Entry.Note)

	resp = f.roundtrip(t, &protocol.Request{Type: protocol.TypeNote, ID: e.ID})
	assert.Empty(t, resp.Entry.Note)
}

func TestMissingIDIsFoundFalseNotError(t *testing.T) {
	f := newServiceFixture(t)
	for _, typ := range []protocol.Type{
		protocol.TypePin, protocol.TypeFavorite, protocol.TypePaste,
	} {
		resp := f.roundtrip(t, &protocol.Request{Type: typ, ID: 9999})
		assert.Equal(t, protocol.TypeEntry, resp.Type, string(typ))
		assert.False(t, resp.Found, string(typ))
		assert.Empty(t, resp.Error, string(typ))
	}
}

func TestDelete(t *testing.T) {
	f := newServiceFixture(t)
	e := f.seed("x")

	resp := f.roundtrip(t, &protocol.Request{Type: protocol.TypeDelete, ID: e.ID})
	assert.Equal(t, protocol.TypeOK, resp.Type)
	assert.True(t, resp.Found)

	resp = f.roundtrip(t, &protocol.Request{Type: protocol.TypeDelete, ID: e.ID})
	assert.False(t, resp.Found)
}

func TestClear(t *testing.T) {
	f := newServiceFixture(t)
	f.seed("a")
	pinned := f.seed("b")
	f.roundtrip(t, &protocol.Request{Type: protocol.TypePin, ID: pinned.ID})

	resp := f.roundtrip(t, &protocol.Request{Type: protocol.TypeClear})
	assert.Equal(t, protocol.TypeOK, resp.Type)
	assert.True(t, resp.Cleared)
	assert.Equal(t, 1, f.store.Len())
}

func TestPasteRecordsUsage(t *testing.T) {
	f := newServiceFixture(t)
	e := f.seed("paste me")

	resp := f.roundtrip(t, &protocol.Request{Type: protocol.TypePaste, ID: e.ID})
	require.True(t, resp.Found)
	assert.Equal(t, 1, resp.Entry.UsageCount)
}

func TestUnknownTypeIsError(t *testing.T) {
	f := newServiceFixture(t)
	resp := f.roundtrip(t, &protocol.Request{Type: "BOGUS"})
	assert.Equal(t, protocol.TypeError, resp.Type)
}

func TestWatchStreamsCaptures(t *testing.T) {
	f := newServiceFixture(t)

	client, server := net.Pipe()
	defer client.Close()
	go f.svc.handleConn(server)

	wc := wire.New(client)
	require.NoError(t, wc.WriteJSON(&protocol.Request{Type: protocol.TypeWatch}))

	var ack protocol.Response
	require.NoError(t, wc.ReadJSON(&ack))
	require.Equal(t, protocol.TypeOK, ack.Type)

	// The subscription races the ack; wait for it to land before publishing.
	require.Eventually(t, func() bool { return f.feed.Subscribers() == 1 },
		time.Second, 5*time.Millisecond)

	f.feed.Publish(history.Entry{ID: 42, Content: "streamed"})

	var resp protocol.Response
	require.NoError(t, wc.ReadJSON(&resp))
	require.Equal(t, protocol.TypeEntry, resp.Type)
	require.NotNil(t, resp.Entry)
	assert.Equal(t, int64(42), resp.Entry.ID)

	// Disconnecting tears the subscription down on the next delivery attempt.
	client.Close()
	require.Eventually(t, func() bool {
		f.feed.Publish(history.Entry{ID: 43})
		return f.feed.Subscribers() == 0
	}, time.Second, 5*time.Millisecond)
}
