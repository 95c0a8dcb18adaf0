package web

import (
	"fmt"
	"net/http"

	"github.com/hupe1980/convstore/core"
)

// Attributes binds a core.AttributeStore to the session and conversation of
// an HTTP request.
type Attributes struct {
	store core.AttributeStore
}

// NewAttributes creates request-bound access to store.
func NewAttributes(store core.AttributeStore) *Attributes {
	return &Attributes{store: store}
}

// Store saves value under name in the request's conversation, starting a new
// conversation when the request carries no id.
func (a *Attributes) Store(r *http.Request, name string, value any) error {
	sess, err := requestSession(r)
	if err != nil {
		return err
	}
	return a.store.Store(sess, EnsureConversationID(r), name, value)
}

// Retrieve returns the named attribute of the request's conversation.
func (a *Attributes) Retrieve(r *http.Request, name string) (any, bool, error) {
	sess, err := requestSession(r)
	if err != nil {
		return nil, false, err
	}
	return a.store.Retrieve(sess, ConversationID(r), name)
}

// Cleanup removes the named attribute from the request's conversation.
func (a *Attributes) Cleanup(r *http.Request, name string) error {
	sess, err := requestSession(r)
	if err != nil {
		return err
	}
	return a.store.Cleanup(sess, ConversationID(r), name)
}

func requestSession(r *http.Request) (core.SessionContext, error) {
	sess, ok := SessionFrom(r.Context())
	if !ok {
		return nil, fmt.Errorf("%w: request carries no session", core.ErrInvalidArgument)
	}
	return sess, nil
}
