// Package history implements the persistent, capacity-bounded clipboard
// history: insert, filtered queries with pinned-first ordering, pin/note
// mutations, and FIFO eviction that never touches pinned entries. The backing
// file is JSON, written through a debounced flush.
package history

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.klb.dev/clipstash/internal/classify"
)

// Entry is one captured clipboard payload.
type Entry struct {
	ID          int64                `json:"id"`
	Content     string               `json:"content"`
	Format      classify.Format      `json:"format"`
	ContentType classify.ContentType `json:"contentType"`
	Category    string               `json:"category"`
	Preview     string               `json:"preview"`
	AppName     string               `json:"appName"`
	IsPinned    bool                 `json:"isPinned"`
	IsFavorite  bool                 `json:"isFavorite"`
	Tags        []string             `json:"tags"`
	UsageCount  int                  `json:"usageCount"`
	LastUsedAt  *time.Time           `json:"lastUsedAt,omitempty"`
	Note        string               `json:"note,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// Draft is the caller-supplied part of a new entry; the store assigns
// identity and timestamps at insertion.
type Draft struct {
	Content     string
	Format      classify.Format
	ContentType classify.ContentType
	Category    string
	Preview     string
	AppName     string
	IsPinned    bool
}

// Patch carries optional field updates for Update. Nil fields are left alone.
type Patch struct {
	IsPinned   *bool
	IsFavorite *bool
	Note       *string
	Tags       *[]string
	Category   *string
}

// fileFormat is the durable on-disk representation.
type fileFormat struct {
	Entries   []json.RawMessage `json:"entries"`
	Settings  map[string]any    `json:"settings"`
	Version   int               `json:"version"`
	LastSaved time.Time         `json:"lastSaved"`
}

const fileVersion = 1

// looseEntry tolerates partial or mistyped persisted records so that one bad
// entry never prevents the store from starting. Booleans and numbers coerce
// from string encodings; timestamps are kept as raw strings and parsed with a
// fallback.
type looseEntry struct {
	ID          looseInt  `json:"id"`
	Content     string    `json:"content"`
	Format      string    `json:"format"`
	ContentType string    `json:"contentType"`
	Category    string    `json:"category"`
	Preview     string    `json:"preview"`
	AppName     string    `json:"appName"`
	IsPinned    looseBool `json:"isPinned"`
	IsFavorite  looseBool `json:"isFavorite"`
	Tags        []string  `json:"tags"`
	UsageCount  looseInt  `json:"usageCount"`
	LastUsedAt  string    `json:"lastUsedAt"`
	Note        string    `json:"note"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

// looseBool coerces the boolean encodings seen in damaged files: real
// booleans, "true"/"false" strings and 0/1 numbers. Never errors; anything
// unrecognised reads as false.
type looseBool bool

func (b *looseBool) UnmarshalJSON(raw []byte) error {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(string(raw)), `"`)) {
	case "true", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}

// looseInt coerces numbers that were persisted as strings or floats.
// Never errors; anything unparsable reads as zero.
type looseInt int64

func (n *looseInt) UnmarshalJSON(raw []byte) error {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = looseInt(v)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = looseInt(f)
	}
	return nil
}

// repair converts a loose record into a usable Entry, substituting safe
// defaults for anything missing or malformed.
func (le looseEntry) repair(now time.Time) Entry {
	e := Entry{
		ID:          int64(le.ID),
		Content:     le.Content,
		Format:      classify.Format(le.Format),
		ContentType: classify.ContentType(le.ContentType),
		Category:    le.Category,
		Preview:     le.Preview,
		AppName:     le.AppName,
		IsPinned:    bool(le.IsPinned),
		IsFavorite:  bool(le.IsFavorite),
		Tags:        le.Tags,
		UsageCount:  int(le.UsageCount),
		Note:        le.Note,
		CreatedAt:   parseTime(le.CreatedAt, now),
		UpdatedAt:   parseTime(le.UpdatedAt, now),
	}
	switch e.Format {
	case classify.FormatText, classify.FormatImage, classify.FormatFile,
		classify.FormatHTML, classify.FormatRTF:
	default:
		e.Format = classify.FormatText
	}
	if e.ContentType == "" {
		e.ContentType = classify.DetectContentType(e.Content, e.Format)
	}
	if e.Category == "" {
		e.Category = classify.Categorize(e.ContentType, true)
	}
	if e.Preview == "" {
		e.Preview = classify.Preview(e.Content, e.Format)
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if t := parseTimePtr(le.LastUsedAt); t != nil {
		e.LastUsedAt = t
	}
	return e
}

func parseTime(s string, fallback time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return fallback
}

func parseTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &t
	}
	return nil
}
