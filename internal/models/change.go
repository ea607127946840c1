package models

import "time"

// ChangeOp is the kind of local mutation recorded in the change log.
// Closed enumeration: every switch over it must handle all three values.
type ChangeOp string

const (
	OpCreate ChangeOp = "create"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// Valid reports whether op is one of the known operations.
func (op ChangeOp) Valid() bool {
	switch op {
	case OpCreate, OpUpdate, OpDelete:
		return true
	}
	return false
}

// ChangeLogEntry records one local mutation not yet acknowledged by the
// remote backend. Immutable once enqueued.
type ChangeLogEntry struct {
	Timestamp time.Time   `json:"timestamp"` // Timestamp when the mutation was applied locally
	ID        string      `json:"id"`        // ID of the mutated document
	Op        ChangeOp    `json:"operation"` // Op is the mutation kind
	Document  RawDocument `json:"document"`  // Document snapshot at mutation time
}

// NewChangeLogEntry builds an entry with a deep copy of the document
// snapshot, so later cache mutations cannot leak into the log.
func NewChangeLogEntry(id string, op ChangeOp, doc RawDocument, at time.Time) ChangeLogEntry {
	return ChangeLogEntry{
		ID:        id,
		Op:        op,
		Document:  doc.Clone(),
		Timestamp: at,
	}
}

// Matches reports whether two entries denote the same logged mutation.
// Identity is (id, operation, timestamp); the snapshot is not compared.
func (e ChangeLogEntry) Matches(other ChangeLogEntry) bool {
	return e.ID == other.ID && e.Op == other.Op && e.Timestamp.Equal(other.Timestamp)
}
