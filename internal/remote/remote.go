// Package remote defines the contract of the remote backend the engine
// synchronizes with. The engine consumes this interface only; transport
// and encoding belong to the implementation.
package remote

import (
	"context"
	"time"

	"github.com/localfirst/docsync/internal/models"
)

//go:generate go tool moq -out remote_mock.go . Store

// Store is the remote backend connector.
type Store interface {
	// FetchChanges returns raw documents in collection changed after
	// since, or the full current set when since is nil
	FetchChanges(ctx context.Context, collection string, since *time.Time, userID string) ([]models.RawDocument, error)

	// PushChange sends a single document mutation
	PushChange(ctx context.Context, collection string, doc models.RawDocument, op models.ChangeOp) error

	// PushBatch sends a batch of change log entries in order
	PushBatch(ctx context.Context, collection string, entries []models.ChangeLogEntry) error

	// WatchCollection returns a live stream of remote updates.
	// The channel is closed when ctx is cancelled.
	WatchCollection(ctx context.Context, collection, userID string) (<-chan models.RawDocument, error)

	// ProviderID identifies the backend implementation, for diagnostics
	ProviderID() string
}
