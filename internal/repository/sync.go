package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/localfirst/docsync/internal/models"
	"github.com/localfirst/docsync/internal/syncstate"
)

// syncKey is the singleflight key shared by all SyncNow callers of one
// repository instance.
const syncKey = "sync"

// SyncNow performs one push/pull cycle and returns the terminal state.
// Remote failures are never returned as an error: they surface through
// the state manager (and the returned state's Err field), leaving the
// pending queue untouched for retry.
//
// SyncNow is single-flight: concurrent callers collapse onto the cycle
// already in flight and share its outcome, so two overlapping calls
// trigger exactly one remote fetch.
func (r *Repository[T]) SyncNow(ctx context.Context) syncstate.State {
	result, _, _ := r.sf.Do(syncKey, func() (any, error) {
		return r.syncCycle(ctx), nil
	})
	return result.(syncstate.State)
}

func (r *Repository[T]) syncCycle(ctx context.Context) syncstate.State {
	// syncMu serializes cycles with FullSync: a cycle must not peek
	// entries that a concurrent wipe is about to discard
	r.syncMu.Lock()
	defer r.syncMu.Unlock()

	r.logger.Info("starting sync cycle")

	r.states.Transition(syncstate.New(
		syncstate.StatusSyncing, r.pendingCount(ctx), r.lastSynced(), nil, 0))

	// Push: send the currently queued batch. Changes enqueued during
	// the push keep their place in the queue; Remove matches only the
	// entries peeked here.
	entries, err := r.pending.PeekAll(ctx)
	if err != nil {
		return r.failCycle(fmt.Errorf("failed to read pending changes: %w", err))
	}

	if len(entries) > 0 {
		if err := r.remote.PushBatch(ctx, r.collection, entries); err != nil {
			return r.failCycle(fmt.Errorf("push failed: %w", err))
		}
		if err := r.pending.Remove(ctx, entries); err != nil {
			return r.failCycle(fmt.Errorf("failed to sweep pushed changes: %w", err))
		}
		r.logger.Info("pushed local changes", "count", len(entries))
	}

	r.states.Transition(syncstate.New(
		syncstate.StatusSyncing, r.pendingCount(ctx), r.lastSynced(), nil, 0.5))

	// Pull: fetch remote changes since the last successful cycle and
	// merge them into the cache.
	docs, err := r.remote.FetchChanges(ctx, r.collection, r.lastSynced(), r.userID)
	if err != nil {
		return r.failCycle(fmt.Errorf("pull failed: %w", err))
	}

	merged, err := r.applyPulled(ctx, docs)
	if err != nil {
		return r.failCycle(fmt.Errorf("merge failed: %w", err))
	}
	if merged > 0 {
		r.notifyWatchers()
	}
	r.logger.Info("pulled remote changes", "received", len(docs), "merged", merged)

	now := time.Now()
	r.mu.Lock()
	r.lastSyncedAt = &now
	r.mu.Unlock()

	r.states.MarkSyncComplete(r.pendingCount(ctx))
	return r.states.Current()
}

// failCycle records the failure in the state machine. The cache and the
// pending queue stay exactly as they were, so the next cycle retries
// the same entries.
func (r *Repository[T]) failCycle(err error) syncstate.State {
	r.logger.Warn("sync cycle failed", "error", err)
	r.states.MarkSyncError(err)
	return r.states.Current()
}

// applyPulled merges pulled documents into the cache and reports how
// many cache entries changed. Documents with a locally cached
// counterpart go through the conflict resolver; newcomers are inserted
// directly. A resolver error fails the whole batch and leaves the cache
// untouched, so the caller keeps the old watermark and the next cycle
// re-fetches the unmerged change.
func (r *Repository[T]) applyPulled(ctx context.Context, docs []models.RawDocument) (int, error) {
	staged := make(map[string]models.RawDocument, len(docs))

	for _, doc := range docs {
		id := doc.ID()
		if id == "" {
			r.logger.Warn("skipping pulled document without id")
			continue
		}

		r.mu.RLock()
		local, exists := r.cache[id]
		if exists {
			local = local.Clone()
		}
		r.mu.RUnlock()

		stored := doc.Clone()
		if exists {
			resolved, err := r.res.Resolve(ctx, local, doc)
			if err != nil {
				return 0, fmt.Errorf("failed to resolve conflict for %q: %w", id, err)
			}
			stored = resolved
		}

		staged[id] = stored
	}

	r.mu.Lock()
	for id, doc := range staged {
		r.cache[id] = doc
	}
	r.mu.Unlock()

	return len(staged), nil
}

// FullSync destructively resynchronizes the collection: the entire
// local cache AND the pending change queue are wiped and the cache is
// repopulated from the remote backend's current full document set.
//
// Unsynced local edits, including documents that exist nowhere but on
// this device, are discarded without being pushed. Callers who need to
// preserve them must run SyncNow first.
//
// FullSync is mutually exclusive with SyncNow: a cycle already in
// flight completes before the wipe, and a cycle started during the wipe
// sees the cleared queue.
func (r *Repository[T]) FullSync(ctx context.Context) error {
	r.syncMu.Lock()
	defer r.syncMu.Unlock()

	r.logger.Info("starting full sync")

	// Fetch before wiping so a remote failure leaves the cache intact
	docs, err := r.remote.FetchChanges(ctx, r.collection, nil, r.userID)
	if err != nil {
		return fmt.Errorf("full sync fetch failed: %w", err)
	}

	if err := r.pending.Clear(ctx); err != nil {
		return fmt.Errorf("full sync failed to clear pending changes: %w", err)
	}

	r.mu.Lock()
	r.cache = make(map[string]models.RawDocument, len(docs))
	for _, doc := range docs {
		if doc.ID() == "" {
			continue
		}
		r.cache[doc.ID()] = doc.Clone()
	}
	now := time.Now()
	r.lastSyncedAt = &now
	r.mu.Unlock()

	r.notifyWatchers()
	r.states.MarkSyncComplete(0)

	r.logger.Info("full sync completed", "documents", len(docs))
	return nil
}

// PendingCount returns the number of queued changes awaiting push.
func (r *Repository[T]) PendingCount(ctx context.Context) (int, error) {
	return r.pending.Count(ctx)
}

// pendingCount reads the live queue depth, falling back to the last
// observed value when storage misbehaves.
func (r *Repository[T]) pendingCount(ctx context.Context) int {
	count, err := r.pending.Count(ctx)
	if err != nil {
		r.logger.Warn("failed to count pending changes", "error", err)
		return r.states.Current().PendingChanges
	}
	return count
}

// lastSynced returns a copy of the last successful sync watermark, or
// nil before the first cycle.
func (r *Repository[T]) lastSynced() *time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.lastSyncedAt == nil {
		return nil
	}
	t := *r.lastSyncedAt
	return &t
}
