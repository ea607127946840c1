// Package pending implements the durable FIFO queue of change log
// entries awaiting acknowledgment by the remote backend. One store is
// created per collection, persisted through the key-value storage
// collaborator under a caller-supplied key.
package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/localfirst/docsync/internal/models"
	"github.com/localfirst/docsync/internal/storage"
)

// Store is a durable ordered queue of change log entries.
// Every enqueue is written through to storage immediately, so an
// uncontrolled process exit does not lose entries.
type Store struct {
	kv  storage.KeyValueStore
	key string
	mu  sync.Mutex
}

// New creates a pending change store persisting under key.
func New(kv storage.KeyValueStore, key string) *Store {
	return &Store{kv: kv, key: key}
}

// Enqueue appends the entry to the end of the durable queue.
func (s *Store) Enqueue(ctx context.Context, entry models.ChangeLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return err
	}

	entries = append(entries, entry)

	if err := s.save(ctx, entries); err != nil {
		return fmt.Errorf("failed to enqueue change: %w", err)
	}

	return nil
}

// PeekAll returns the queued entries in enqueue order without removing
// them. Removal is always a separate, explicit Remove call.
func (s *Store) PeekAll(ctx context.Context) ([]models.ChangeLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// Remove deletes exactly the given entries from the queue, matched by
// identity (id, operation, timestamp). All other entries keep their
// original relative order. Entries enqueued after the caller peeked are
// therefore untouched.
func (s *Store) Remove(ctx context.Context, entries []models.ChangeLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return err
	}

	remaining := make([]models.ChangeLogEntry, 0, len(current))
	for _, existing := range current {
		if !containsEntry(entries, existing) {
			remaining = append(remaining, existing)
		}
	}

	if err := s.save(ctx, remaining); err != nil {
		return fmt.Errorf("failed to remove changes: %w", err)
	}

	return nil
}

// Clear empties the queue.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}

	return nil
}

// Count returns the current queue depth, read from storage.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	return len(entries), nil
}

// load reads the queue from storage. A missing key is an empty queue.
func (s *Store) load(ctx context.Context) ([]models.ChangeLogEntry, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load queue: %w", err)
	}

	var entries []models.ChangeLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue: %w", err)
	}

	return entries, nil
}

func (s *Store) save(ctx context.Context, entries []models.ChangeLogEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal queue: %w", err)
	}

	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to persist queue: %w", err)
	}

	return nil
}

func containsEntry(entries []models.ChangeLogEntry, candidate models.ChangeLogEntry) bool {
	for _, e := range entries {
		if e.Matches(candidate) {
			return true
		}
	}
	return false
}
