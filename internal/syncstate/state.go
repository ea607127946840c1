// Package syncstate tracks the progress and outcome of sync cycles and
// broadcasts transitions to subscribers.
package syncstate

import (
	"fmt"
	"time"
)

// Status is the sync machine state. Closed enumeration.
type Status string

const (
	// StatusIdle means no sync is in progress (initial and terminal)
	StatusIdle Status = "idle"
	// StatusSyncing means a push/pull cycle is active
	StatusSyncing Status = "syncing"
	// StatusError means the last cycle failed; Err holds the cause
	StatusError Status = "error"
)

// State is one immutable observation of sync progress.
type State struct {
	LastSyncedAt   *time.Time
	Err            error
	Status         Status
	PendingChanges int
	Progress       float64
}

// New builds a State, failing fast on invalid progress: a value outside
// [0,1] is a programming error, not an input condition.
func New(status Status, pendingChanges int, lastSyncedAt *time.Time, err error, progress float64) State {
	if progress < 0 || progress > 1 {
		panic(fmt.Sprintf("syncstate: progress %v outside [0,1]", progress))
	}
	if pendingChanges < 0 {
		panic(fmt.Sprintf("syncstate: negative pending count %d", pendingChanges))
	}
	return State{
		Status:         status,
		PendingChanges: pendingChanges,
		LastSyncedAt:   lastSyncedAt,
		Err:            err,
		Progress:       progress,
	}
}

// Idle returns the initial state.
func Idle() State {
	return New(StatusIdle, 0, nil, nil, 0)
}

// Equal reports whether two states are observably identical. Errors
// compare by message; timestamps by instant.
func (s State) Equal(other State) bool {
	if s.Status != other.Status ||
		s.PendingChanges != other.PendingChanges ||
		s.Progress != other.Progress {
		return false
	}
	if !timePtrEqual(s.LastSyncedAt, other.LastSyncedAt) {
		return false
	}
	return errText(s.Err) == errText(other.Err)
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
