package core

import (
	"sort"
	"sync"
	"time"
)

// SessionContext is the per-session storage capability the conversation store
// consumes. Implementations must be safe for concurrent access since several
// requests of one client may be served in parallel.
type SessionContext interface {
	// ID returns the stable session identifier.
	ID() string
	// Get returns the value and existence flag for a key.
	Get(key string) (any, bool)
	// Set stores a value under key.
	Set(key string, value any)
	// GetOrCreate returns the value under key, storing the result of create
	// first if the key is absent. The check and the store are atomic.
	GetOrCreate(key string, create func() any) any
}

// IsNil reports whether sess is nil, including a nil pointer stored in the
// interface. Implementations other than *Session opt in by providing an
// IsNil() bool method.
func IsNil(sess SessionContext) bool {
	if sess == nil {
		return true
	}
	if n, ok := sess.(interface{ IsNil() bool }); ok {
		return n.IsNil()
	}
	return false
}

// Session is a process-local SessionContext holding arbitrary key/value state.
// It is safe for concurrent access.
//
// Contract:
//   - State mutations update the Updated timestamp
type Session struct {
	id      string
	state   map[string]any
	created time.Time
	updated time.Time
	mu      sync.RWMutex
}

// NewSession creates a new empty session with the given ID.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{id: id, state: map[string]any{}, created: now, updated: now}
}

// IsNil reports whether s is a nil pointer. It is safe to call on nil.
func (s *Session) IsNil() bool { return s == nil }

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Get returns the value and existence flag for a state key.
func (s *Session) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state[key]
	return v, ok
}

// Set sets a key/value pair in session state updating the Updated timestamp.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[key] = value
	s.updated = time.Now()
}

// GetOrCreate implements SessionContext.
func (s *Session) GetOrCreate(key string, create func() any) any {
	s.mu.RLock()
	v, ok := s.state[key]
	s.mu.RUnlock()
	if ok {
		return v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have won the race between the two locks.
	if v, ok := s.state[key]; ok {
		return v
	}
	v = create()
	s.state[key] = v
	s.updated = time.Now()
	return v
}

// Delete removes a key from session state. Deleting a missing key is a no-op.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state[key]; !ok {
		return
	}
	delete(s.state, key)
	s.updated = time.Now()
}

// Keys returns the sorted state keys.
func (s *Session) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.state))
	for k := range s.state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Created returns the creation timestamp.
func (s *Session) Created() time.Time { return s.created }

// Updated returns the timestamp of the last state mutation.
func (s *Session) Updated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}
