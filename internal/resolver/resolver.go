// Package resolver implements the conflict resolution strategies applied
// when a pulled remote document collides with a locally cached one.
// Resolvers are pure: they never mutate their inputs and always return a
// fresh document.
package resolver

import (
	"context"

	"github.com/localfirst/docsync/internal/models"
)

// Resolver produces exactly one resolved document from a local and a
// remote version of the same logical document. Implementations must be
// deterministic and side-effect free; the context allows resolvers that
// call out (e.g. a manual-merge UI).
type Resolver interface {
	Resolve(ctx context.Context, local, remote models.RawDocument) (models.RawDocument, error)
}
