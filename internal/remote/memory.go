package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/localfirst/docsync/internal/models"
)

// MemoryStore is an in-memory Store implementation. It applies pushed
// changes to a per-collection document set with last-write-wins by the
// documents' updatedAt (a push strictly older than the stored version
// is ignored) and answers incremental fetches by server-side
// modification time. Used in tests and as an offline backend for the
// demo CLI.
type MemoryStore struct {
	collections map[string]map[string]memoryDoc
	watchers    map[string][]chan models.RawDocument
	mu          sync.RWMutex
}

type memoryDoc struct {
	modifiedAt time.Time
	doc        models.RawDocument
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory remote store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]memoryDoc),
		watchers:    make(map[string][]chan models.RawDocument),
	}
}

// ProviderID identifies the backend implementation.
func (s *MemoryStore) ProviderID() string {
	return "memory"
}

// Seed places a document into the store directly, bypassing the push
// path. Intended for test setup.
func (s *MemoryStore) Seed(collection string, doc models.RawDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(collection, doc.Clone())
}

// FetchChanges returns documents changed after since, or the full set
// when since is nil.
func (s *MemoryStore) FetchChanges(ctx context.Context, collection string, since *time.Time, userID string) ([]models.RawDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.RawDocument
	for _, md := range s.collections[collection] {
		if since != nil && !md.modifiedAt.After(*since) {
			continue
		}
		out = append(out, md.doc.Clone())
	}
	return out, nil
}

// PushChange applies a single document mutation.
func (s *MemoryStore) PushChange(ctx context.Context, collection string, doc models.RawDocument, op models.ChangeOp) error {
	return s.PushBatch(ctx, collection, []models.ChangeLogEntry{
		models.NewChangeLogEntry(doc.ID(), op, doc, time.Now()),
	})
}

// PushBatch applies the entries in order.
func (s *MemoryStore) PushBatch(ctx context.Context, collection string, entries []models.ChangeLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range entries {
		if !entry.Op.Valid() {
			return fmt.Errorf("push batch: unknown operation %q", entry.Op)
		}

		switch entry.Op {
		case models.OpCreate, models.OpUpdate:
			doc := entry.Document.Clone()
			if s.isStale(collection, doc) {
				continue
			}
			s.put(collection, doc)
		case models.OpDelete:
			// Keep a tombstone so other clients learn of the deletion
			doc := entry.Document.Clone()
			if doc == nil {
				doc = models.RawDocument{models.FieldID: entry.ID}
			}
			if s.isStale(collection, doc) {
				continue
			}
			doc.MarkDeleted()
			s.put(collection, doc)
		}
	}

	return nil
}

// isStale reports whether the stored version of doc is strictly newer
// by updatedAt. Caller holds the write lock.
func (s *MemoryStore) isStale(collection string, doc models.RawDocument) bool {
	existing, ok := s.collections[collection][doc.ID()]
	return ok && existing.doc.UpdatedAt().After(doc.UpdatedAt())
}

// put stores doc and notifies watchers. Caller holds the write lock.
func (s *MemoryStore) put(collection string, doc models.RawDocument) {
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]memoryDoc)
		s.collections[collection] = docs
	}
	docs[doc.ID()] = memoryDoc{doc: doc, modifiedAt: time.Now()}

	for _, ch := range s.watchers[collection] {
		select {
		case ch <- doc.Clone():
		default:
		}
	}
}

// WatchCollection streams every document applied to the collection
// after the call. The channel closes when ctx is cancelled.
func (s *MemoryStore) WatchCollection(ctx context.Context, collection, userID string) (<-chan models.RawDocument, error) {
	ch := make(chan models.RawDocument, 16)

	s.mu.Lock()
	s.watchers[collection] = append(s.watchers[collection], ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()

		s.mu.Lock()
		watchers := s.watchers[collection]
		for i, w := range watchers {
			if w == ch {
				s.watchers[collection] = append(watchers[:i], watchers[i+1:]...)
				break
			}
		}
		s.mu.Unlock()

		close(ch)
	}()

	return ch, nil
}
