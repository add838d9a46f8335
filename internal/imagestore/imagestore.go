// Package imagestore persists captured clipboard images. Each capture keeps
// the full-resolution PNG plus a bounded thumbnail for list rendering, and
// yields a data-URI payload for the history entry itself.
package imagestore

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Thumbnails are bounded to this box, preserving aspect ratio.
const thumbSize = 256

// Saved describes one persisted capture.
type Saved struct {
	ImagePath string
	ThumbPath string
	DataURI   string
}

// Store writes images beneath a single directory, named by content hash so
// re-captures of identical bytes overwrite in place instead of accumulating.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory is created lazily on the
// first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Save persists pngData and its thumbnail under the given content hash and
// returns the paths plus a displayable data URI of the full image.
func (s *Store) Save(pngData []byte, hash string) (Saved, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Saved{}, fmt.Errorf("create image dir: %w", err)
	}

	imgPath := filepath.Join(s.dir, hash+".png")
	if err := os.WriteFile(imgPath, pngData, 0o600); err != nil {
		return Saved{}, fmt.Errorf("write image: %w", err)
	}

	saved := Saved{
		ImagePath: imgPath,
		DataURI:   DataURI(pngData),
	}

	thumbPath := filepath.Join(s.dir, hash+"_thumb.png")
	if err := s.writeThumb(pngData, thumbPath); err != nil {
		// A missing thumbnail only degrades the list view; the capture
		// itself is intact.
		return saved, fmt.Errorf("thumbnail: %w", err)
	}
	saved.ThumbPath = thumbPath
	return saved, nil
}

func (s *Store) writeThumb(pngData []byte, path string) error {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	thumb := imaging.Fit(img, thumbSize, thumbSize, imaging.Lanczos)
	if err := imaging.Save(thumb, path); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// DataURI encodes PNG bytes as a data URI suitable for direct display.
func DataURI(pngData []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}

// FromDataURI decodes a data-URI payload back to raw PNG bytes.
func FromDataURI(uri string) ([]byte, error) {
	const prefix = "data:image/png;base64,"
	if len(uri) < len(prefix) || uri[:len(prefix)] != prefix {
		return nil, fmt.Errorf("not a PNG data URI")
	}
	return base64.StdEncoding.DecodeString(uri[len(prefix):])
}
