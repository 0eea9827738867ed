// Package state provides the in-memory conversation state store.
//
// It holds short-lived, per-user, per-flow mutable state across a sequence of
// externally triggered steps. Abandoned flows expire after a fixed timeout and
// are evicted lazily on the next read; losing this state on timeout or process
// restart is acceptable — it is never committed data. The store is passed by
// reference to every flow controller; there is no package-level singleton.
package state

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fitcoach-bot/fitcoach/internal/models"
)

// DefaultTimeout is how long a flow may stay idle before its state expires.
const DefaultTimeout = 30 * time.Minute

type key struct {
	userID string
	flow   models.FlowType
}

// Store keeps flow state in memory. One mutex guards both the state map and
// the write timestamps so that expiry checks, writes and read-modify-write
// updates are atomic with respect to other callers. The store never blocks
// on I/O and is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	states  map[key]models.FlowData
	written map[key]time.Time
	timeout time.Duration
	now     func() time.Time
}

// NewStore creates a state store with the default 30-minute timeout.
func NewStore() *Store {
	return NewStoreWithTimeout(DefaultTimeout)
}

// NewStoreWithTimeout creates a state store with a custom expiry timeout.
func NewStoreWithTimeout(timeout time.Duration) *Store {
	return &Store{
		states:  make(map[key]models.FlowData),
		written: make(map[key]time.Time),
		timeout: timeout,
		now:     time.Now,
	}
}

// Set replaces the state for (userID, flow) wholesale and resets the expiry
// clock.
func (s *Store) Set(userID string, flow models.FlowType, data models.FlowData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{userID, flow}
	s.states[k] = data
	s.written[k] = s.now()
	slog.Debug("state.Store: state set", "userID", userID, "flow", flow)
}

// Get returns the state for (userID, flow), or ok=false if it was never set,
// was cleared, or has expired. Reading an expired entry evicts it, so a
// subsequent Get stays absent — eviction is permanent, not re-armed.
func (s *Store) Get(userID string, flow models.FlowType) (models.FlowData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(key{userID, flow})
}

func (s *Store) getLocked(k key) (models.FlowData, bool) {
	written, ok := s.written[k]
	if ok && s.now().Sub(written) > s.timeout {
		delete(s.states, k)
		delete(s.written, k)
		slog.Debug("state.Store: state expired", "userID", k.userID, "flow", k.flow)
		return nil, false
	}
	data, ok := s.states[k]
	return data, ok
}

// Update merges partial over the current state (shallow, key by key) and
// writes the result back, refreshing the expiry clock. An absent or expired
// entry starts from an empty state. The read and write happen under one lock
// so concurrent updates to the same key serialize.
func (s *Store) Update(userID string, flow models.FlowType, partial models.FlowData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{userID, flow}
	current, ok := s.getLocked(k)
	if !ok {
		current = make(models.FlowData, len(partial))
	}
	for field, value := range partial {
		current[field] = value
	}
	s.states[k] = current
	s.written[k] = s.now()
	slog.Debug("state.Store: state updated", "userID", userID, "flow", flow, "fields", len(partial))
}

// Clear removes the entry for (userID, flow). Clearing an absent entry is a
// no-op.
func (s *Store) Clear(userID string, flow models.FlowType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{userID, flow}
	delete(s.states, k)
	delete(s.written, k)
	slog.Debug("state.Store: state cleared", "userID", userID, "flow", flow)
}

// ClearAll removes every flow's state for the user. Used on hard resets.
func (s *Store) ClearAll(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.states {
		if k.userID == userID {
			delete(s.states, k)
			delete(s.written, k)
		}
	}
	slog.Debug("state.Store: all states cleared", "userID", userID)
}
