package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localfirst/docsync/internal/models"
	"github.com/localfirst/docsync/pkg/api"
)

func TestHTTPStore_FetchChanges(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/collections/todos/changes", r.URL.Path)
		assert.Equal(t, "user-1", r.URL.Query().Get("user_id"))
		assert.NotEmpty(t, r.URL.Query().Get("since"))

		resp := api.FetchResponse{
			Documents: []map[string]any{
				{"id": "todo-1", "title": "Server title"},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL)
	since := time.Now()

	docs, err := store.FetchChanges(context.Background(), "todos", &since, "user-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "todo-1", docs[0].ID())
	assert.Equal(t, "Server title", docs[0]["title"])
}

func TestHTTPStore_FetchChanges_NoSince(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("since"))
		require.NoError(t, json.NewEncoder(w).Encode(api.FetchResponse{}))
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL)

	docs, err := store.FetchChanges(context.Background(), "todos", nil, "")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestHTTPStore_PushBatch(t *testing.T) {
	var received api.PushRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/collections/todos/changes", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		require.NoError(t, json.NewEncoder(w).Encode(api.PushResponse{Accepted: len(received.Changes)}))
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL)

	entries := []models.ChangeLogEntry{
		models.NewChangeLogEntry("todo-1", models.OpCreate,
			models.RawDocument{models.FieldID: "todo-1", "title": "Buy milk"}, time.Now()),
		models.NewChangeLogEntry("todo-1", models.OpDelete,
			models.RawDocument{models.FieldID: "todo-1"}, time.Now()),
	}

	require.NoError(t, store.PushBatch(context.Background(), "todos", entries))

	require.Len(t, received.Changes, 2)
	assert.Equal(t, "create", received.Changes[0].Operation)
	assert.Equal(t, "Buy milk", received.Changes[0].Document["title"])
	assert.Equal(t, "delete", received.Changes[1].Operation)
}

func TestHTTPStore_PushChange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/collections/todos/change", r.URL.Path)

		var change api.Change
		require.NoError(t, json.NewDecoder(r.Body).Decode(&change))
		assert.Equal(t, "todo-1", change.ID)
		assert.Equal(t, "update", change.Operation)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL)

	err := store.PushChange(context.Background(), "todos",
		models.RawDocument{models.FieldID: "todo-1", "done": true}, models.OpUpdate)
	require.NoError(t, err)
}

func TestHTTPStore_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		require.NoError(t, json.NewEncoder(w).Encode(api.ErrorResponse{
			Error:   "internal",
			Message: "database is on fire",
		}))
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL)

	_, err := store.FetchChanges(context.Background(), "todos", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is on fire")
}

func TestHTTPStore_WatchCollection_Polls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := api.FetchResponse{
			Documents: []map[string]any{{"id": "todo-1", "title": "polled"}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL, WithPollInterval(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := store.WatchCollection(ctx, "todos", "user-1")
	require.NoError(t, err)

	select {
	case doc := <-ch:
		assert.Equal(t, "todo-1", doc.ID())
	case <-time.After(2 * time.Second):
		t.Fatal("expected a polled document")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, open := <-ch:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestHTTPStore_ProviderID(t *testing.T) {
	store := NewHTTPStore("http://localhost:8080")
	assert.Equal(t, "http:http://localhost:8080", store.ProviderID())
}
