package paste

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipstash/internal/classify"
	"go.klb.dev/clipstash/internal/clip"
	"go.klb.dev/clipstash/internal/history"
	"go.klb.dev/clipstash/internal/imagestore"
)

// scriptClipboard records writes and the order they happened in relative to
// monitor transitions.
type scriptClipboard struct {
	log      *callLog
	writeErr error

	text     string
	markup   string
	fallback string
	image    []byte
}

func (s *scriptClipboard) ReadSnapshot() (clip.Snapshot, error) { return clip.Snapshot{}, nil }
func (s *scriptClipboard) ReadImage() ([]byte, error)           { return nil, nil }

func (s *scriptClipboard) WriteText(text string) error {
	s.log.add("write")
	s.text = text
	return s.writeErr
}

func (s *scriptClipboard) WriteMarkup(markup, fallback string) error {
	s.log.add("write")
	s.markup = markup
	s.fallback = fallback
	return s.writeErr
}

func (s *scriptClipboard) WriteImage(png []byte) error {
	s.log.add("write")
	s.image = png
	return s.writeErr
}

func (s *scriptClipboard) Close() {}

type scriptMonitor struct {
	log *callLog
}

func (m *scriptMonitor) Start() { m.log.add("start") }
func (m *scriptMonitor) Stop()  { m.log.add("stop") }

type scriptKeys struct {
	log *callLog
	err error
}

func (k *scriptKeys) SendPaste() error {
	k.log.add("keys")
	return k.err
}

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(s string) {
	l.mu.Lock()
	l.calls = append(l.calls, s)
	l.mu.Unlock()
}

type pasteFixture struct {
	log   *callLog
	clip  *scriptClipboard
	mon   *scriptMonitor
	keys  *scriptKeys
	store *history.Store
	coord *Coordinator
}

func newPasteFixture(t *testing.T) *pasteFixture {
	t.Helper()
	log := &callLog{}
	f := &pasteFixture{
		log:  log,
		clip: &scriptClipboard{log: log},
		mon:  &scriptMonitor{log: log},
		keys: &scriptKeys{log: log},
	}
	f.store = history.Open(filepath.Join(t.TempDir(), "history.json"),
		history.WithFlushDelay(time.Hour))
	t.Cleanup(f.store.Close)
	f.coord = New(f.store, f.clip, f.mon, f.keys, WithSettleDelay(0))
	return f
}

func (f *pasteFixture) insertText(content string) history.Entry {
	return f.store.Insert(history.Draft{
		Content: content, Format: classify.FormatText,
		ContentType: classify.TypeText, Category: classify.CategoryText,
		Preview: content,
	}, 40)
}

func TestPasteText(t *testing.T) {
	f := newPasteFixture(t)
	e := f.insertText("Hello World")

	got, err := f.coord.Paste(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", f.clip.text)
	assert.Equal(t, 1, got.UsageCount)
	require.NotNil(t, got.LastUsedAt)
}

func TestPasteOrderOfOperations(t *testing.T) {
	f := newPasteFixture(t)
	e := f.insertText("x")

	_, err := f.coord.Paste(e.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"stop", "write", "keys", "start"}, f.log.calls)
}

func TestPasteHTMLWritesMarkupWithFallback(t *testing.T) {
	f := newPasteFixture(t)
	e := f.store.Insert(history.Draft{
		Content: "<b>Hello</b> World", Format: classify.FormatHTML,
		ContentType: classify.TypeRichText, Category: classify.CategoryRichText,
		Preview: "Hello World",
	}, 40)

	_, err := f.coord.Paste(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "<b>Hello</b> World", f.clip.markup)
	assert.Equal(t, "Hello World", f.clip.fallback)
	assert.Empty(t, f.clip.text)
}

func TestPasteImageDecodesDataURI(t *testing.T) {
	f := newPasteFixture(t)
	raw := []byte{0x89, 'P', 'N', 'G', 7, 7, 7}
	e := f.store.Insert(history.Draft{
		Content: imagestore.DataURI(raw), Format: classify.FormatImage,
		ContentType: classify.TypeImage, Category: classify.CategoryImages,
		Preview: "[Image]",
	}, 40)

	_, err := f.coord.Paste(e.ID)
	require.NoError(t, err)
	assert.Equal(t, raw, f.clip.image)
}

func TestPasteFileWritesPath(t *testing.T) {
	f := newPasteFixture(t)
	e := f.store.Insert(history.Draft{
		Content: "/tmp/report.pdf", Format: classify.FormatFile,
		ContentType: classify.TypeFile, Category: classify.CategoryFiles,
		Preview: "[File]",
	}, 40)

	_, err := f.coord.Paste(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/report.pdf", f.clip.text)
}

func TestPasteUnknownID(t *testing.T) {
	f := newPasteFixture(t)
	_, err := f.coord.Paste(999)
	assert.ErrorIs(t, err, history.ErrNotFound)
	// Monitoring was never disturbed for a lookup miss.
	assert.Empty(t, f.log.calls)
}

func TestPasteWriteFailureStillResumesMonitoring(t *testing.T) {
	f := newPasteFixture(t)
	e := f.insertText("x")
	f.clip.writeErr = errors.New("clipboard locked")

	_, err := f.coord.Paste(e.ID)
	require.Error(t, err)
	assert.Equal(t, []string{"stop", "write", "start"}, f.log.calls)

	// Usage is not recorded for a failed write.
	got, gerr := f.store.Get(e.ID)
	require.NoError(t, gerr)
	assert.Zero(t, got.UsageCount)
}

func TestPasteKeystrokeFailureIsTolerated(t *testing.T) {
	f := newPasteFixture(t)
	e := f.insertText("x")
	f.keys.err = errors.New("automation denied")

	got, err := f.coord.Paste(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", f.clip.text)
	assert.Equal(t, 1, got.UsageCount)
}

func TestNilKeySenderDefaultsToNop(t *testing.T) {
	log := &callLog{}
	store := history.Open(filepath.Join(t.TempDir(), "history.json"),
		history.WithFlushDelay(time.Hour))
	defer store.Close()
	c := New(store, &scriptClipboard{log: log}, &scriptMonitor{log: log}, nil,
		WithSettleDelay(0))

	e := store.Insert(history.Draft{
		Content: "x", Format: classify.FormatText,
		ContentType: classify.TypeText, Category: classify.CategoryText,
		Preview: "x",
	}, 40)
	_, err := c.Paste(e.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"stop", "write", "start"}, log.calls)
}
