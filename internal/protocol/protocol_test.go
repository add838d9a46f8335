package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipstash/internal/history"
)

func TestQueryOptionsNilSafe(t *testing.T) {
	var q *Query
	assert.Equal(t, history.QueryOptions{}, q.Options())
}

func TestQueryOptionsMapping(t *testing.T) {
	q := &Query{Limit: 5, Offset: 10, Category: "Code", ContentType: "code", Search: "fmt"}
	got := q.Options()
	assert.Equal(t, history.QueryOptions{
		Limit: 5, Offset: 10, Category: "Code", ContentType: "code", Search: "fmt",
	}, got)
}

func TestRequestRoundTrip(t *testing.T) {
	note := "remember"
	req := &Request{Type: TypeNote, ID: 7, Note: &note}

	raw, err := req.Encode()
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "\n")

	back, err := DecodeRequest(raw)
	require.NoError(t, err)
	assert.Equal(t, TypeNote, back.Type)
	assert.Equal(t, int64(7), back.ID)
	require.NotNil(t, back.Note)
	assert.Equal(t, "remember", *back.Note)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := DecodeRequest([]byte("nope"))
	assert.Error(t, err)
	_, err = DecodeResponse([]byte("{bad"))
	assert.Error(t, err)
}

func TestErrorf(t *testing.T) {
	resp := Errorf("entry %d: %s", 3, "gone")
	assert.Equal(t, TypeError, resp.Type)
	assert.Equal(t, "entry 3: gone", resp.Error)
}
