package resolver

import (
	"context"
	"time"

	"github.com/localfirst/docsync/internal/models"
)

// FieldMerge resolves field by field using the documents' optional
// _fieldTimestamps mapping. For a field present on both sides the local
// value wins only when both sides carry a timestamp and local's is
// strictly newer; in every other case (remote newer, tied, either side
// untimestamped) the remote value wins. A field unique to one side is
// always kept, so the result is a non-destructive union. The merged
// timestamp map records only the winning side's own timestamp; a field
// won by an untimestamped side carries no entry.
type FieldMerge struct{}

var _ Resolver = FieldMerge{}

func (FieldMerge) Resolve(ctx context.Context, local, remote models.RawDocument) (models.RawDocument, error) {
	localTS := local.FieldTimestamps()
	remoteTS := remote.FieldTimestamps()

	resolved := make(models.RawDocument)
	mergedTS := make(map[string]any)

	for _, field := range unionFields(local, remote) {
		if field == models.FieldFieldTimestamps {
			continue
		}

		localVal, inLocal := local[field]
		remoteVal, inRemote := remote[field]

		switch {
		case inLocal && !inRemote:
			resolved[field] = models.CloneValue(localVal)
			recordTimestamp(mergedTS, field, localTS)
		case inRemote && !inLocal:
			resolved[field] = models.CloneValue(remoteVal)
			recordTimestamp(mergedTS, field, remoteTS)
		default:
			lt, hasLT := localTS[field]
			rt, hasRT := remoteTS[field]

			if hasLT && hasRT && lt.After(rt) {
				resolved[field] = models.CloneValue(localVal)
				recordTimestamp(mergedTS, field, localTS)
			} else {
				// Remote wins: strictly newer, tied, or untimestamped.
				// An untimestamped winner stays untimestamped; the
				// merged map never claims a time the value was not
				// written at.
				resolved[field] = models.CloneValue(remoteVal)
				recordTimestamp(mergedTS, field, remoteTS)
			}
		}
	}

	if len(mergedTS) > 0 {
		resolved[models.FieldFieldTimestamps] = mergedTS
	}

	return resolved, nil
}

// unionFields returns every field present on either side, local fields
// first in map iteration-independent gathering order.
func unionFields(local, remote models.RawDocument) []string {
	fields := make([]string, 0, len(local)+len(remote))
	seen := make(map[string]struct{}, len(local)+len(remote))

	for field := range local {
		fields = append(fields, field)
		seen[field] = struct{}{}
	}
	for field := range remote {
		if _, ok := seen[field]; !ok {
			fields = append(fields, field)
		}
	}

	return fields
}

func recordTimestamp(out map[string]any, field string, ts map[string]time.Time) {
	if t, ok := ts[field]; ok {
		out[field] = t.UTC().Format(time.RFC3339Nano)
	}
}
