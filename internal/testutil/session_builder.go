package testutil

import (
	"github.com/hupe1980/convstore/core"
)

// SessionBuilder helps construct sessions with fluent chaining for tests.
// Example:
//
//	sess := NewSessionBuilder("sess-1").State("k", "v").Build()
type SessionBuilder struct {
	id    string
	state map[string]any
}

// NewSessionBuilder creates a new builder for a session with the given id.
// An empty id is replaced by a fresh random one.
func NewSessionBuilder(id string) *SessionBuilder {
	if id == "" {
		id = core.NewID()
	}
	return &SessionBuilder{id: id, state: map[string]any{}}
}

// State sets or overwrites a state key/value pair on the resulting session (chainable).
func (b *SessionBuilder) State(key string, val any) *SessionBuilder {
	b.state[key] = val
	return b
}

// Build returns a *core.Session with pre-populated state.
func (b *SessionBuilder) Build() *core.Session {
	s := core.NewSession(b.id)
	for k, v := range b.state {
		s.Set(k, v)
	}
	return s
}
