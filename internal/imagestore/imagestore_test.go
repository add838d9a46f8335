package imagestore

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveWritesImageAndThumbnail(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	s := New(dir)
	data := testPNG(t, 600, 400)

	saved, err := s.Save(data, "abc123")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "abc123.png"), saved.ImagePath)
	assert.Equal(t, filepath.Join(dir, "abc123_thumb.png"), saved.ThumbPath)
	assert.Equal(t, DataURI(data), saved.DataURI)

	onDisk, err := os.ReadFile(saved.ImagePath)
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)

	thumbRaw, err := os.ReadFile(saved.ThumbPath)
	require.NoError(t, err)
	thumb, err := png.Decode(bytes.NewReader(thumbRaw))
	require.NoError(t, err)
	b := thumb.Bounds()
	assert.LessOrEqual(t, b.Dx(), 256)
	assert.LessOrEqual(t, b.Dy(), 256)
	// Aspect ratio preserved within rounding.
	assert.Equal(t, 256, b.Dx())
}

func TestSaveSmallImageNotUpscaled(t *testing.T) {
	s := New(t.TempDir())
	data := testPNG(t, 40, 30)

	saved, err := s.Save(data, "small")
	require.NoError(t, err)

	thumbRaw, err := os.ReadFile(saved.ThumbPath)
	require.NoError(t, err)
	thumb, err := png.Decode(bytes.NewReader(thumbRaw))
	require.NoError(t, err)
	assert.Equal(t, 40, thumb.Bounds().Dx())
	assert.Equal(t, 30, thumb.Bounds().Dy())
}

func TestSaveSameHashOverwrites(t *testing.T) {
	s := New(t.TempDir())
	data := testPNG(t, 10, 10)

	first, err := s.Save(data, "dup")
	require.NoError(t, err)
	second, err := s.Save(data, "dup")
	require.NoError(t, err)
	assert.Equal(t, first.ImagePath, second.ImagePath)
}

func TestSaveUndecodableBytesKeepsOriginal(t *testing.T) {
	s := New(t.TempDir())
	data := []byte("not a png at all")

	saved, err := s.Save(data, "broken")
	require.Error(t, err)
	// The raw capture is still on disk and addressable.
	assert.NotEmpty(t, saved.ImagePath)
	onDisk, rerr := os.ReadFile(saved.ImagePath)
	require.NoError(t, rerr)
	assert.Equal(t, data, onDisk)
	assert.Empty(t, saved.ThumbPath)
}

func TestDataURIRoundTrip(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', 0, 1, 2}
	uri := DataURI(data)
	assert.True(t, len(uri) > len("data:image/png;base64,"))

	back, err := FromDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, data, back)
}

func TestFromDataURIRejectsOtherPayloads(t *testing.T) {
	_, err := FromDataURI("data:text/plain;base64,aGk=")
	assert.Error(t, err)
	_, err = FromDataURI("plain old text")
	assert.Error(t, err)
	_, err = FromDataURI("data:image/png;base64,!!!!")
	assert.Error(t, err)
}
