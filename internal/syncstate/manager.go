package syncstate

import (
	"log/slog"
	"sync"
	"time"
)

// subscriberBuffer bounds how many undelivered transitions a slow
// subscriber may accumulate before further ones are dropped.
const subscriberBuffer = 16

// Manager owns the current sync state and fans out every transition to
// subscribers. Late subscribers receive only future transitions.
type Manager struct {
	logger      *slog.Logger
	subscribers map[int]chan State
	current     State
	nextID      int
	mu          sync.Mutex
	closed      bool
}

// NewManager creates a manager starting in the idle state.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger:      logger,
		subscribers: make(map[int]chan State),
		current:     Idle(),
	}
}

// Current returns the current state synchronously.
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Transition publishes newState to all subscribers, unless it equals
// the current state: identical consecutive states are coalesced and
// produce no notification.
func (m *Manager) Transition(newState State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.current.Equal(newState) {
		return
	}

	m.current = newState

	for id, ch := range m.subscribers {
		select {
		case ch <- newState:
		default:
			// Subscriber is not draining; dropping beats blocking the
			// sync cycle
			m.logger.Warn("dropping sync state notification", "subscriber", id)
		}
	}
}

// MarkSyncComplete transitions to idle with lastSyncedAt = now and the
// given live pending count.
func (m *Manager) MarkSyncComplete(pendingChanges int) {
	now := time.Now()
	m.Transition(New(StatusIdle, pendingChanges, &now, nil, 1))
}

// MarkSyncError transitions to error carrying the cause. The pending
// count and last-synced timestamp of the previous state are kept.
func (m *Manager) MarkSyncError(cause error) {
	m.mu.Lock()
	prev := m.current
	m.mu.Unlock()

	m.Transition(New(StatusError, prev.PendingChanges, prev.LastSyncedAt, cause, prev.Progress))
}

// Subscribe attaches a new subscriber and returns its channel together
// with an unsubscribe function. The channel carries only transitions
// occurring after the call; it is closed on unsubscribe or Close.
func (m *Manager) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan State, subscriberBuffer)
	if m.closed {
		close(ch)
		return ch, func() {}
	}

	id := m.nextID
	m.nextID++
	m.subscribers[id] = ch

	unsubscribe := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subscribers[id]; ok {
			delete(m.subscribers, id)
			close(sub)
		}
	}

	return ch, unsubscribe
}

// Close shuts the manager down and closes all subscriber channels.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	for id, ch := range m.subscribers {
		delete(m.subscribers, id)
		close(ch)
	}
}
