package models

import "time"

// Reserved document field names the engine relies on.
const (
	FieldID              = "id"
	FieldUpdatedAt       = "updatedAt"
	FieldVersion         = "version"
	FieldIsDeleted       = "isDeleted"
	FieldFieldTimestamps = "_fieldTimestamps"
)

// RawDocument is the engine-internal representation of one document:
// a flexible string-keyed field mapping. The calling application maps
// it to and from its own concrete type.
type RawDocument map[string]any

// ID returns the document id, or "" if unset.
func (d RawDocument) ID() string {
	if v, ok := d[FieldID].(string); ok {
		return v
	}
	return ""
}

// UpdatedAt returns the parsed RFC 3339 updatedAt timestamp.
// A missing or unparseable value yields the zero time, so that side
// always loses a recency comparison.
func (d RawDocument) UpdatedAt() time.Time {
	s, ok := d[FieldUpdatedAt].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SetUpdatedAt stamps updatedAt with t in RFC 3339 form.
func (d RawDocument) SetUpdatedAt(t time.Time) {
	d[FieldUpdatedAt] = t.UTC().Format(time.RFC3339Nano)
}

// Version returns the document version counter, or 0 if unset.
// JSON round-trips turn ints into float64, so both are accepted.
func (d RawDocument) Version() int64 {
	switch v := d[FieldVersion].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// SetVersion sets the version counter.
func (d RawDocument) SetVersion(v int64) {
	d[FieldVersion] = v
}

// IsDeleted reports whether the document carries a tombstone flag.
func (d RawDocument) IsDeleted() bool {
	v, ok := d[FieldIsDeleted].(bool)
	return ok && v
}

// MarkDeleted sets the tombstone flag. The record stays in the cache
// for sync purposes but is hidden from all read APIs.
func (d RawDocument) MarkDeleted() {
	d[FieldIsDeleted] = true
}

// FieldTimestamps returns the optional per-field timestamp map used by
// the field-merge resolver. Fields with unparseable timestamps are
// omitted. Returns nil when the document carries none.
func (d RawDocument) FieldTimestamps() map[string]time.Time {
	raw, ok := d[FieldFieldTimestamps]
	if !ok {
		return nil
	}

	out := make(map[string]time.Time)
	switch m := raw.(type) {
	case map[string]any:
		for field, v := range m {
			s, ok := v.(string)
			if !ok {
				continue
			}
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				continue
			}
			out[field] = t
		}
	case map[string]string:
		for field, s := range m {
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				continue
			}
			out[field] = t
		}
	default:
		return nil
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// Clone creates a deep copy of the document. Nested maps and slices
// are copied; scalar values are shared.
func (d RawDocument) Clone() RawDocument {
	if d == nil {
		return nil
	}
	out := make(RawDocument, len(d))
	for k, v := range d {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies one document field value. Nested maps and
// slices are copied; scalars are returned as-is.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[k] = CloneValue(inner)
		}
		return m
	case RawDocument:
		return map[string]any(val.Clone())
	case []any:
		s := make([]any, len(val))
		for i, inner := range val {
			s[i] = CloneValue(inner)
		}
		return s
	case []byte:
		b := make([]byte, len(val))
		copy(b, val)
		return b
	default:
		return v
	}
}
