package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localfirst/docsync/internal/models"
)

func docAt(title string, at string) models.RawDocument {
	doc := models.RawDocument{
		models.FieldID: "doc-1",
		"title":        title,
	}
	if at != "" {
		doc[models.FieldUpdatedAt] = at
	}
	return doc
}

func TestLastWriteWins(t *testing.T) {
	tests := []struct {
		local       models.RawDocument
		remote      models.RawDocument
		name        string
		wantTitle   string
		preferLocal bool
	}{
		{
			name:      "newer local wins",
			local:     docAt("Local title", "2024-03-02T10:00:00Z"),
			remote:    docAt("Server title", "2024-03-01T10:00:00Z"),
			wantTitle: "Local title",
		},
		{
			name:      "newer remote wins",
			local:     docAt("Local title", "2024-03-01T10:00:00Z"),
			remote:    docAt("Server title", "2024-03-02T10:00:00Z"),
			wantTitle: "Server title",
		},
		{
			name:      "missing local timestamp loses",
			local:     docAt("Local title", ""),
			remote:    docAt("Server title", "2024-03-01T10:00:00Z"),
			wantTitle: "Server title",
		},
		{
			name:      "missing remote timestamp loses",
			local:     docAt("Local title", "2024-03-01T10:00:00Z"),
			remote:    docAt("Server title", ""),
			wantTitle: "Local title",
		},
		{
			name:      "exact tie goes to remote",
			local:     docAt("Local title", "2024-03-01T10:00:00Z"),
			remote:    docAt("Server title", "2024-03-01T10:00:00Z"),
			wantTitle: "Server title",
		},
		{
			name:        "exact tie with preferLocal goes to local",
			local:       docAt("Local title", "2024-03-01T10:00:00Z"),
			remote:      docAt("Server title", "2024-03-01T10:00:00Z"),
			preferLocal: true,
			wantTitle:   "Local title",
		},
		{
			name:      "both timestamps missing is a tie",
			local:     docAt("Local title", ""),
			remote:    docAt("Server title", ""),
			wantTitle: "Server title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := LastWriteWins{PreferLocal: tt.preferLocal}

			resolved, err := r.Resolve(context.Background(), tt.local, tt.remote)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, resolved["title"])
		})
	}
}

// TestLastWriteWins_TimestampProperty checks that for arbitrary pairs
// the winner always carries max(local.updatedAt, remote.updatedAt),
// with ties going to the configured side.
func TestLastWriteWins_TimestampProperty(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	offsets := []time.Duration{-1, 0, time.Second, time.Hour, 48 * time.Hour}

	for _, preferLocal := range []bool{false, true} {
		r := LastWriteWins{PreferLocal: preferLocal}

		for _, lo := range offsets {
			for _, ro := range offsets {
				localAt := base.Add(lo)
				remoteAt := base.Add(ro)

				local := docAt("local", localAt.Format(time.RFC3339Nano))
				remote := docAt("remote", remoteAt.Format(time.RFC3339Nano))

				resolved, err := r.Resolve(context.Background(), local, remote)
				require.NoError(t, err)

				want := "remote"
				switch {
				case localAt.After(remoteAt):
					want = "local"
				case localAt.Equal(remoteAt) && preferLocal:
					want = "local"
				}

				assert.Equal(t, want, resolved["title"],
					"local=%v remote=%v preferLocal=%v", localAt, remoteAt, preferLocal)
				assert.True(t, resolved.UpdatedAt().Equal(maxTime(localAt, remoteAt)))
			}
		}
	}
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func TestLastWriteWins_LosingFieldsDropped(t *testing.T) {
	local := docAt("Local title", "2024-03-02T10:00:00Z")
	local["localOnly"] = true
	remote := docAt("Server title", "2024-03-01T10:00:00Z")
	remote["remoteOnly"] = true

	resolved, err := LastWriteWins{}.Resolve(context.Background(), local, remote)
	require.NoError(t, err)

	// A whole-document winner drops the losing side entirely
	assert.Equal(t, true, resolved["localOnly"])
	assert.NotContains(t, resolved, "remoteOnly")
}

func TestLastWriteWins_DoesNotMutateInputs(t *testing.T) {
	local := docAt("Local title", "2024-03-02T10:00:00Z")
	remote := docAt("Server title", "2024-03-01T10:00:00Z")

	resolved, err := LastWriteWins{}.Resolve(context.Background(), local, remote)
	require.NoError(t, err)

	resolved["title"] = "mutated"
	assert.Equal(t, "Local title", local["title"])
}

func TestServerWins(t *testing.T) {
	local := docAt("Local title", "2024-03-02T10:00:00Z")  // newer
	remote := docAt("Server title", "2024-03-01T10:00:00Z") // older, still wins

	resolved, err := ServerWins{}.Resolve(context.Background(), local, remote)
	require.NoError(t, err)
	assert.Equal(t, "Server title", resolved["title"])
}

func TestClientWins(t *testing.T) {
	local := docAt("Local title", "2024-03-01T10:00:00Z")   // older, still wins
	remote := docAt("Server title", "2024-03-02T10:00:00Z") // newer

	resolved, err := ClientWins{}.Resolve(context.Background(), local, remote)
	require.NoError(t, err)
	assert.Equal(t, "Local title", resolved["title"])
}

func TestManual(t *testing.T) {
	local := docAt("Local title", "")
	remote := docAt("Server title", "")

	r := Manual{
		Merge: func(ctx context.Context, l, r models.RawDocument) (models.RawDocument, error) {
			merged := l.Clone()
			merged["title"] = l["title"].(string) + " + " + r["title"].(string)
			return merged, nil
		},
	}

	resolved, err := r.Resolve(context.Background(), local, remote)
	require.NoError(t, err)
	assert.Equal(t, "Local title + Server title", resolved["title"])

	// Callback mutations must not leak back into the inputs
	assert.Equal(t, "Local title", local["title"])
}

func TestManual_CallbackError(t *testing.T) {
	wantErr := errors.New("user cancelled merge")
	r := Manual{
		Merge: func(ctx context.Context, l, rm models.RawDocument) (models.RawDocument, error) {
			return nil, wantErr
		},
	}

	_, err := r.Resolve(context.Background(), docAt("a", ""), docAt("b", ""))
	assert.ErrorIs(t, err, wantErr)
}

func TestManual_NoCallback(t *testing.T) {
	_, err := Manual{}.Resolve(context.Background(), docAt("a", ""), docAt("b", ""))
	assert.ErrorIs(t, err, ErrNoMergeFunc)
}

func TestFieldMerge(t *testing.T) {
	local := models.RawDocument{
		models.FieldID: "doc-1",
		"title":        "Local title",  // newer per-field timestamp
		"done":         false,          // older per-field timestamp
		"notes":        "local only",   // unique to local
		"color":        "red",          // untimestamped on both sides
		models.FieldFieldTimestamps: map[string]any{
			"title": "2024-03-02T10:00:00Z",
			"done":  "2024-03-01T10:00:00Z",
		},
	}
	remote := models.RawDocument{
		models.FieldID: "doc-1",
		"title":        "Server title",
		"done":         true,
		"priority":     3,      // unique to remote
		"color":        "blue", // untimestamped on both sides
		models.FieldFieldTimestamps: map[string]any{
			"title": "2024-03-01T10:00:00Z",
			"done":  "2024-03-02T10:00:00Z",
		},
	}

	resolved, err := FieldMerge{}.Resolve(context.Background(), local, remote)
	require.NoError(t, err)

	assert.Equal(t, "Local title", resolved["title"], "newer local field wins")
	assert.Equal(t, true, resolved["done"], "newer remote field wins")
	assert.Equal(t, "local only", resolved["notes"], "field unique to local kept")
	assert.Equal(t, 3, resolved["priority"], "field unique to remote kept")
	assert.Equal(t, "blue", resolved["color"], "untimestamped field defaults to remote")

	// The merged timestamp map keeps the winning timestamp per field
	ts := resolved.FieldTimestamps()
	require.NotNil(t, ts)
	assert.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), ts["title"].UTC())
	assert.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), ts["done"].UTC())
}

func TestFieldMerge_EqualTimestampsGoRemote(t *testing.T) {
	local := models.RawDocument{
		"title": "Local title",
		models.FieldFieldTimestamps: map[string]any{"title": "2024-03-01T10:00:00Z"},
	}
	remote := models.RawDocument{
		"title": "Server title",
		models.FieldFieldTimestamps: map[string]any{"title": "2024-03-01T10:00:00Z"},
	}

	resolved, err := FieldMerge{}.Resolve(context.Background(), local, remote)
	require.NoError(t, err)
	assert.Equal(t, "Server title", resolved["title"])
}

func TestFieldMerge_LosingTimestampNotTransferred(t *testing.T) {
	local := models.RawDocument{
		"title": "Local title",
		models.FieldFieldTimestamps: map[string]any{"title": "2024-03-02T10:00:00Z"},
	}
	remote := models.RawDocument{"title": "Server title"}

	resolved, err := FieldMerge{}.Resolve(context.Background(), local, remote)
	require.NoError(t, err)

	assert.Equal(t, "Server title", resolved["title"], "untimestamped remote still wins the field")
	assert.NotContains(t, resolved.FieldTimestamps(), "title",
		"the losing side's timestamp must not be attached to the winning value")
}

func TestFieldMerge_NoTimestampsAtAll(t *testing.T) {
	local := models.RawDocument{"title": "Local title", "notes": "keep me"}
	remote := models.RawDocument{"title": "Server title"}

	resolved, err := FieldMerge{}.Resolve(context.Background(), local, remote)
	require.NoError(t, err)

	assert.Equal(t, "Server title", resolved["title"])
	assert.Equal(t, "keep me", resolved["notes"])
	assert.NotContains(t, resolved, models.FieldFieldTimestamps)
}
