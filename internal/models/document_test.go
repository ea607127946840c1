package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawDocument_UpdatedAt(t *testing.T) {
	tests := []struct {
		doc  RawDocument
		want time.Time
		name string
	}{
		{
			name: "valid RFC3339 timestamp",
			doc:  RawDocument{FieldUpdatedAt: "2024-03-01T10:00:00Z"},
			want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "missing timestamp is zero time",
			doc:  RawDocument{FieldID: "doc-1"},
			want: time.Time{},
		},
		{
			name: "unparseable timestamp is zero time",
			doc:  RawDocument{FieldUpdatedAt: "yesterday"},
			want: time.Time{},
		},
		{
			name: "non-string timestamp is zero time",
			doc:  RawDocument{FieldUpdatedAt: 1234567890},
			want: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.doc.UpdatedAt()))
		})
	}
}

func TestRawDocument_SetUpdatedAt_RoundTrip(t *testing.T) {
	doc := RawDocument{}
	now := time.Now()

	doc.SetUpdatedAt(now)

	assert.True(t, now.Equal(doc.UpdatedAt()))
}

func TestRawDocument_Version(t *testing.T) {
	assert.Equal(t, int64(0), RawDocument{}.Version())
	assert.Equal(t, int64(3), RawDocument{FieldVersion: int64(3)}.Version())
	assert.Equal(t, int64(4), RawDocument{FieldVersion: 4}.Version())
	// JSON decoding produces float64
	assert.Equal(t, int64(5), RawDocument{FieldVersion: float64(5)}.Version())
}

func TestRawDocument_IsDeleted(t *testing.T) {
	assert.False(t, RawDocument{}.IsDeleted())
	assert.False(t, RawDocument{FieldIsDeleted: false}.IsDeleted())
	assert.False(t, RawDocument{FieldIsDeleted: "true"}.IsDeleted())
	assert.True(t, RawDocument{FieldIsDeleted: true}.IsDeleted())

	doc := RawDocument{FieldID: "doc-1"}
	doc.MarkDeleted()
	assert.True(t, doc.IsDeleted())
}

func TestRawDocument_FieldTimestamps(t *testing.T) {
	doc := RawDocument{
		FieldFieldTimestamps: map[string]any{
			"title": "2024-03-01T10:00:00Z",
			"done":  "2024-03-02T10:00:00Z",
			"bad":   "not-a-timestamp",
		},
	}

	ts := doc.FieldTimestamps()
	require.Len(t, ts, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), ts["title"].UTC())
	assert.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), ts["done"].UTC())

	assert.Nil(t, RawDocument{}.FieldTimestamps())
	assert.Nil(t, RawDocument{FieldFieldTimestamps: "nope"}.FieldTimestamps())
}

func TestRawDocument_Clone(t *testing.T) {
	doc := RawDocument{
		FieldID: "doc-1",
		"tags":  []any{"a", "b"},
		"meta":  map[string]any{"color": "red"},
	}

	clone := doc.Clone()
	require.Equal(t, doc, clone)

	// Mutating the clone must not touch the original
	clone["tags"].([]any)[0] = "z"
	clone["meta"].(map[string]any)["color"] = "blue"
	clone[FieldID] = "doc-2"

	assert.Equal(t, "a", doc["tags"].([]any)[0])
	assert.Equal(t, "red", doc["meta"].(map[string]any)["color"])
	assert.Equal(t, "doc-1", doc.ID())
}

func TestRawDocument_Clone_Nil(t *testing.T) {
	var doc RawDocument
	assert.Nil(t, doc.Clone())
}
