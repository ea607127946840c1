// Package repository implements the sync repository: the sole
// read/write surface for one collection of documents. Reads and writes
// hit an in-memory cache immediately; every mutation is recorded in the
// durable pending change store and reconciled with the remote backend
// by push/pull cycles.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/localfirst/docsync/internal/models"
	"github.com/localfirst/docsync/internal/pending"
	"github.com/localfirst/docsync/internal/remote"
	"github.com/localfirst/docsync/internal/resolver"
	"github.com/localfirst/docsync/internal/syncstate"
)

// ErrDocumentNotFound indicates that no live document exists under the
// requested id.
var ErrDocumentNotFound = errors.New("document not found")

// FromRawFunc maps the engine's raw field-mapping to the caller's
// document type.
type FromRawFunc[T any] func(models.RawDocument) (T, error)

// Config assembles a Repository's collaborators. Everything is injected
// explicitly; there are no process-wide singletons.
type Config[T any] struct {
	// Remote is the backend connector (required)
	Remote remote.Store
	// Pending is the durable change queue for this collection (required)
	Pending *pending.Store
	// FromRaw converts raw documents to T (required)
	FromRaw FromRawFunc[T]
	// Resolver arbitrates pull collisions; defaults to LastWriteWins
	Resolver resolver.Resolver
	// Logger defaults to slog.Default()
	Logger *slog.Logger
	// Collection names the document set (required)
	Collection string
	// UserID scopes remote fetches; may be empty
	UserID string
	// AutoSyncInterval enables periodic SyncNow when > 0
	AutoSyncInterval time.Duration
}

// Repository is the read/write surface for a collection of documents of
// type T.
type Repository[T any] struct {
	remote       remote.Store
	pending      *pending.Store
	res          resolver.Resolver
	states       *syncstate.Manager
	logger       *slog.Logger
	fromRaw      FromRawFunc[T]
	cache        map[string]models.RawDocument
	watchers     map[int]chan []T
	cron         *cron.Cron
	lastSyncedAt *time.Time
	collection   string
	userID       string
	nextWatcher  int
	sf           singleflight.Group
	mu           sync.RWMutex
	syncMu       sync.Mutex
	watchMu      sync.Mutex
	closed       bool
}

// New creates a repository for one collection.
func New[T any](cfg Config[T]) (*Repository[T], error) {
	if cfg.Collection == "" {
		return nil, errors.New("repository: collection is required")
	}
	if cfg.Remote == nil {
		return nil, errors.New("repository: remote store is required")
	}
	if cfg.Pending == nil {
		return nil, errors.New("repository: pending change store is required")
	}
	if cfg.FromRaw == nil {
		return nil, errors.New("repository: FromRaw deserializer is required")
	}

	res := cfg.Resolver
	if res == nil {
		res = resolver.LastWriteWins{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("collection", cfg.Collection, "provider", cfg.Remote.ProviderID())

	r := &Repository[T]{
		collection: cfg.Collection,
		userID:     cfg.UserID,
		remote:     cfg.Remote,
		pending:    cfg.Pending,
		res:        res,
		fromRaw:    cfg.FromRaw,
		states:     syncstate.NewManager(logger),
		logger:     logger,
		cache:      make(map[string]models.RawDocument),
		watchers:   make(map[int]chan []T),
	}

	if cfg.AutoSyncInterval > 0 {
		r.cron = cron.New()
		r.cron.Schedule(cron.Every(cfg.AutoSyncInterval), cron.FuncJob(func() {
			r.SyncNow(context.Background())
		}))
		r.cron.Start()
	}

	return r, nil
}

// States returns the sync state manager for observation.
func (r *Repository[T]) States() *syncstate.Manager {
	return r.states
}

// Create writes a new document into the local cache and queues a create
// change. An absent id is assigned a generated one; version starts at 1
// and updatedAt is stamped if the caller did not provide it. The cache
// write is authoritative immediately; a queue persistence failure is
// returned alongside the created value.
func (r *Repository[T]) Create(ctx context.Context, fields models.RawDocument) (T, error) {
	doc := fields.Clone()
	if doc == nil {
		doc = models.RawDocument{}
	}

	if doc.ID() == "" {
		doc[models.FieldID] = uuid.New().String()
	}
	doc.SetVersion(1)
	now := time.Now()
	if _, ok := doc[models.FieldUpdatedAt]; !ok {
		doc.SetUpdatedAt(now)
	}

	r.mu.Lock()
	r.cache[doc.ID()] = doc
	r.mu.Unlock()

	value, err := r.fromRaw(doc.Clone())
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to deserialize created document: %w", err)
	}

	r.notifyWatchers()

	if err := r.pending.Enqueue(ctx, models.NewChangeLogEntry(doc.ID(), models.OpCreate, doc, now)); err != nil {
		return value, fmt.Errorf("failed to record create: %w", err)
	}

	r.logger.Debug("created document", "id", doc.ID())
	return value, nil
}

// Update merges partial fields into the cached document, bumps its
// version and queues an update change. Unknown ids fail with
// ErrDocumentNotFound.
func (r *Repository[T]) Update(ctx context.Context, id string, partial models.RawDocument) (T, error) {
	var zero T

	r.mu.Lock()
	existing, ok := r.cache[id]
	if !ok {
		r.mu.Unlock()
		return zero, fmt.Errorf("update %q: %w", id, ErrDocumentNotFound)
	}

	doc := existing.Clone()
	for k, v := range partial {
		if k == models.FieldID {
			continue // the id is immutable
		}
		doc[k] = models.CloneValue(v)
	}
	doc.SetVersion(existing.Version() + 1)
	now := time.Now()
	if _, ok := partial[models.FieldUpdatedAt]; !ok {
		doc.SetUpdatedAt(now)
	}
	r.cache[id] = doc
	r.mu.Unlock()

	value, err := r.fromRaw(doc.Clone())
	if err != nil {
		return zero, fmt.Errorf("failed to deserialize updated document: %w", err)
	}

	r.notifyWatchers()

	if err := r.pending.Enqueue(ctx, models.NewChangeLogEntry(id, models.OpUpdate, doc, now)); err != nil {
		return value, fmt.Errorf("failed to record update: %w", err)
	}

	r.logger.Debug("updated document", "id", id, "version", doc.Version())
	return value, nil
}

// Delete soft-deletes the document: the record stays cached as a
// tombstone for sync but disappears from all reads. Deleting an unknown
// id is a silent no-op.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	existing, ok := r.cache[id]
	if !ok {
		r.mu.Unlock()
		return nil
	}

	doc := existing.Clone()
	doc.MarkDeleted()
	doc.SetVersion(existing.Version() + 1)
	now := time.Now()
	doc.SetUpdatedAt(now)
	r.cache[id] = doc
	r.mu.Unlock()

	r.notifyWatchers()

	if err := r.pending.Enqueue(ctx, models.NewChangeLogEntry(id, models.OpDelete, doc, now)); err != nil {
		return fmt.Errorf("failed to record delete: %w", err)
	}

	r.logger.Debug("deleted document", "id", id)
	return nil
}

// GetAll returns every live document, sorted by id. Purely local; never
// contacts the remote backend.
func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	r.mu.RLock()
	docs := r.liveDocuments()
	r.mu.RUnlock()

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		value, err := r.fromRaw(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to deserialize document %q: %w", doc.ID(), err)
		}
		out = append(out, value)
	}
	return out, nil
}

// GetByID returns the live document with the given id. Tombstoned and
// unknown ids both report ErrDocumentNotFound.
func (r *Repository[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T

	r.mu.RLock()
	doc, ok := r.cache[id]
	if ok && !doc.IsDeleted() {
		doc = doc.Clone()
	} else {
		ok = false
	}
	r.mu.RUnlock()

	if !ok {
		return zero, fmt.Errorf("get %q: %w", id, ErrDocumentNotFound)
	}

	value, err := r.fromRaw(doc)
	if err != nil {
		return zero, fmt.Errorf("failed to deserialize document %q: %w", id, err)
	}
	return value, nil
}

// WatchAll returns a channel emitting a fresh snapshot of the live
// document set after every local mutation or pull merge, plus an
// unsubscribe function. No history is replayed to late subscribers.
func (r *Repository[T]) WatchAll() (<-chan []T, func()) {
	r.watchMu.Lock()
	defer r.watchMu.Unlock()

	ch := make(chan []T, 16)
	if r.closed {
		close(ch)
		return ch, func() {}
	}

	id := r.nextWatcher
	r.nextWatcher++
	r.watchers[id] = ch

	unsubscribe := func() {
		r.watchMu.Lock()
		defer r.watchMu.Unlock()
		if w, ok := r.watchers[id]; ok {
			delete(r.watchers, id)
			close(w)
		}
	}

	return ch, unsubscribe
}

// Close stops the auto-sync timer and closes all watch and state
// subscriptions.
func (r *Repository[T]) Close() {
	r.watchMu.Lock()
	if r.closed {
		r.watchMu.Unlock()
		return
	}
	r.closed = true
	for id, ch := range r.watchers {
		delete(r.watchers, id)
		close(ch)
	}
	r.watchMu.Unlock()

	if r.cron != nil {
		r.cron.Stop()
	}
	r.states.Close()
}

// liveDocuments returns clones of all non-deleted documents sorted by
// id. Caller holds at least a read lock.
func (r *Repository[T]) liveDocuments() []models.RawDocument {
	docs := make([]models.RawDocument, 0, len(r.cache))
	for _, doc := range r.cache {
		if doc.IsDeleted() {
			continue
		}
		docs = append(docs, doc.Clone())
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID() < docs[j].ID() })
	return docs
}

// notifyWatchers pushes a fresh snapshot to every watcher. Slow
// watchers have notifications dropped rather than blocking mutations.
func (r *Repository[T]) notifyWatchers() {
	r.watchMu.Lock()
	defer r.watchMu.Unlock()

	if len(r.watchers) == 0 {
		return
	}

	r.mu.RLock()
	docs := r.liveDocuments()
	r.mu.RUnlock()

	snapshot := make([]T, 0, len(docs))
	for _, doc := range docs {
		value, err := r.fromRaw(doc)
		if err != nil {
			r.logger.Warn("skipping document in watch snapshot", "id", doc.ID(), "error", err)
			continue
		}
		snapshot = append(snapshot, value)
	}

	for _, ch := range r.watchers {
		select {
		case ch <- snapshot:
		default:
			r.logger.Warn("dropping watch snapshot for slow subscriber")
		}
	}
}
