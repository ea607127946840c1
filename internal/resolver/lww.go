package resolver

import (
	"context"

	"github.com/localfirst/docsync/internal/models"
)

// LastWriteWins picks the whole document with the more recent updatedAt.
// A missing or unparseable timestamp counts as the earliest possible
// instant, so that side always loses. On an exact tie the remote wins
// unless PreferLocal is set.
type LastWriteWins struct {
	// PreferLocal flips the tiebreak so local wins exact timestamp ties
	PreferLocal bool
}

var _ Resolver = LastWriteWins{}

// Resolve returns a copy of the winning side.
func (r LastWriteWins) Resolve(ctx context.Context, local, remote models.RawDocument) (models.RawDocument, error) {
	localAt := local.UpdatedAt()
	remoteAt := remote.UpdatedAt()

	if localAt.After(remoteAt) {
		return local.Clone(), nil
	}
	if remoteAt.After(localAt) {
		return remote.Clone(), nil
	}

	// Exact tie
	if r.PreferLocal {
		return local.Clone(), nil
	}
	return remote.Clone(), nil
}

// ServerWins always returns the remote document, ignoring timestamps.
type ServerWins struct{}

var _ Resolver = ServerWins{}

func (ServerWins) Resolve(ctx context.Context, local, remote models.RawDocument) (models.RawDocument, error) {
	return remote.Clone(), nil
}

// ClientWins always returns the local document, ignoring timestamps.
type ClientWins struct{}

var _ Resolver = ClientWins{}

func (ClientWins) Resolve(ctx context.Context, local, remote models.RawDocument) (models.RawDocument, error) {
	return local.Clone(), nil
}
