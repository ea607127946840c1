package resolver

import (
	"context"
	"errors"

	"github.com/localfirst/docsync/internal/models"
)

// ErrNoMergeFunc is returned when a Manual resolver has no callback set.
var ErrNoMergeFunc = errors.New("manual resolver: no merge callback configured")

// MergeFunc receives both full documents and returns the resolved one.
type MergeFunc func(ctx context.Context, local, remote models.RawDocument) (models.RawDocument, error)

// Manual delegates resolution to an injected callback, e.g. a UI that
// asks the user to pick or merge by hand.
type Manual struct {
	Merge MergeFunc
}

var _ Resolver = Manual{}

// Resolve hands deep copies of both documents to the callback, so the
// callback can mutate freely without touching the cache.
func (r Manual) Resolve(ctx context.Context, local, remote models.RawDocument) (models.RawDocument, error) {
	if r.Merge == nil {
		return nil, ErrNoMergeFunc
	}
	return r.Merge(ctx, local.Clone(), remote.Clone())
}
