package conversation

import (
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/convstore/core"
	"github.com/hupe1980/convstore/logging"
	"github.com/hupe1980/convstore/metrics"
)

const (
	// SessionKey is the session state key holding the *ConversationMap.
	SessionKey = "sessionConversationMap"
	// DefaultKeepAliveConversations is the per-session conversation limit
	// used when none is configured.
	DefaultKeepAliveConversations = 10
)

// Options configures a Store.
type Options struct {
	// KeepAliveConversations bounds the live conversations per session.
	// 0 disables eviction entirely; negative values are treated as 0.
	KeepAliveConversations int
	// Logger defaults to a NoOp logger if nil.
	Logger logging.Logger
	// Metrics defaults to a NoOp recorder if nil.
	Metrics metrics.Recorder
}

// Store is the conversation attribute store. The zero value is not usable;
// construct with New.
type Store struct {
	keepAlive atomic.Int64
	logger    logging.Logger
	metrics   metrics.Recorder
}

// New creates a Store with optional overrides.
func New(optFns ...func(o *Options)) *Store {
	opts := Options{
		KeepAliveConversations: DefaultKeepAliveConversations,
		Logger:                 logging.NoOpLogger{},
		Metrics:                metrics.NoOpRecorder{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Metrics == nil {
		opts.Metrics = metrics.NoOpRecorder{}
	}

	s := &Store{
		logger:  logging.With(opts.Logger, "component", "conversation"),
		metrics: opts.Metrics,
	}
	s.keepAlive.Store(int64(max(opts.KeepAliveConversations, 0)))

	return s
}

// KeepAliveConversations returns the current per-session conversation limit.
func (s *Store) KeepAliveConversations() int {
	return int(s.keepAlive.Load())
}

// SetKeepAliveConversations changes the per-session conversation limit. The
// new value applies from the next Store that creates a conversation; sessions
// already above the limit are not trimmed until then. After lowering the
// limit, that next insert may evict more than one conversation.
func (s *Store) SetKeepAliveConversations(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: keep-alive conversations must not be negative, got %d", core.ErrInvalidArgument, n)
	}
	s.keepAlive.Store(int64(n))
	return nil
}

// Store sets name to value in the given conversation, creating the session's
// ConversationMap and the conversation itself as needed. Creating a
// conversation may evict the session's oldest one. An empty conversationID is
// stored like any other id; generating ids is the caller's job.
func (s *Store) Store(sess core.SessionContext, conversationID, name string, value any) error {
	if err := validate(sess, name); err != nil {
		return err
	}
	if value == nil {
		return fmt.Errorf("%w: attribute value must not be nil", core.ErrInvalidArgument)
	}

	cm, err := s.conversationMap(sess)
	if err != nil {
		return err
	}

	limit := s.KeepAliveConversations()

	var (
		created bool
		evicted []string
	)

	cm.mu.Lock()
	attrs := cm.attributesLocked(conversationID)
	if attrs == nil {
		for limit > 0 && cm.entries.Len() >= limit {
			id, ok := cm.evictOldestLocked()
			if !ok {
				break
			}
			evicted = append(evicted, id)
		}
		attrs = AttributeMap{}
		cm.entries.Set(conversationID, attrs)
		created = true
	}
	attrs[name] = value
	size := cm.entries.Len()
	cm.mu.Unlock()

	for _, id := range evicted {
		s.metrics.ConversationEvicted()
		s.logger.Debug("conversation evicted", "session_id", sess.ID(), "conversation_id", id, "keep_alive", limit)
	}
	if created {
		s.metrics.ConversationCreated()
	}
	s.metrics.AttributeStored()
	s.logger.Debug("attribute stored", "session_id", sess.ID(), "conversation_id", conversationID, "attribute", name, "conversations", size)

	return nil
}

// Retrieve returns the value stored under name in the given conversation.
// The boolean is false when the conversation id is empty or when the
// conversation or attribute does not exist. Retrieve never creates state.
func (s *Store) Retrieve(sess core.SessionContext, conversationID, name string) (any, bool, error) {
	if err := validate(sess, name); err != nil {
		return nil, false, err
	}
	if conversationID == "" {
		return nil, false, nil
	}

	cm, ok := lookup(sess)
	if !ok {
		return nil, false, nil
	}

	cm.mu.RLock()
	defer cm.mu.RUnlock()

	value, ok := cm.attributesLocked(conversationID)[name]

	return value, ok, nil
}

// Cleanup removes name from the given conversation. When that leaves the
// conversation without attributes the conversation itself is removed.
// Missing conversations or attributes are ignored.
func (s *Store) Cleanup(sess core.SessionContext, conversationID, name string) error {
	if err := validate(sess, name); err != nil {
		return err
	}

	cm, ok := lookup(sess)
	if !ok {
		return nil
	}

	var cleaned, removed bool

	cm.mu.Lock()
	if attrs := cm.attributesLocked(conversationID); attrs != nil {
		if _, cleaned = attrs[name]; cleaned {
			delete(attrs, name)
		}
		if len(attrs) == 0 {
			cm.entries.Delete(conversationID)
			removed = true
		}
	}
	cm.mu.Unlock()

	if cleaned {
		s.metrics.AttributeCleaned()
		s.logger.Debug("attribute cleaned up", "session_id", sess.ID(), "conversation_id", conversationID, "attribute", name)
	}
	if removed {
		s.metrics.ConversationRemoved()
		s.logger.Debug("conversation removed", "session_id", sess.ID(), "conversation_id", conversationID)
	}

	return nil
}

// Remove drops a whole conversation and reports whether it existed.
func (s *Store) Remove(sess core.SessionContext, conversationID string) bool {
	if core.IsNil(sess) {
		return false
	}

	cm, ok := lookup(sess)
	if !ok {
		return false
	}

	cm.mu.Lock()
	_, existed := cm.entries.Delete(conversationID)
	cm.mu.Unlock()

	if existed {
		s.metrics.ConversationRemoved()
		s.logger.Debug("conversation removed", "session_id", sess.ID(), "conversation_id", conversationID)
	}

	return existed
}

// Conversations returns the session's live conversation ids, oldest first.
func (s *Store) Conversations(sess core.SessionContext) []string {
	if core.IsNil(sess) {
		return nil
	}
	cm, ok := lookup(sess)
	if !ok {
		return nil
	}
	return cm.IDs()
}

// Len returns the number of live conversations in the session.
func (s *Store) Len(sess core.SessionContext) int {
	return Live(sess)
}

// Live returns the number of live conversations held by sess without
// needing a Store. The session registry uses it to account for the
// conversations released together with an ended session.
func Live(sess core.SessionContext) int {
	if core.IsNil(sess) {
		return 0
	}
	cm, ok := lookup(sess)
	if !ok {
		return 0
	}
	return cm.Len()
}

// Attributes returns a shallow copy of a conversation's attributes, or nil
// if the conversation does not exist.
func (s *Store) Attributes(sess core.SessionContext, conversationID string) AttributeMap {
	if core.IsNil(sess) {
		return nil
	}
	cm, ok := lookup(sess)
	if !ok {
		return nil
	}

	cm.mu.RLock()
	defer cm.mu.RUnlock()

	attrs := cm.attributesLocked(conversationID)
	if attrs == nil {
		return nil
	}
	out := make(AttributeMap, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

// conversationMap returns the session's ConversationMap, creating it on
// first use. Only Store may create state.
func (s *Store) conversationMap(sess core.SessionContext) (*ConversationMap, error) {
	v := sess.GetOrCreate(SessionKey, func() any { return newConversationMap() })
	cm, ok := v.(*ConversationMap)
	if !ok {
		return nil, fmt.Errorf("%w: session key %q holds %T", core.ErrInvalidArgument, SessionKey, v)
	}
	return cm, nil
}

// lookup returns the session's ConversationMap if one exists.
func lookup(sess core.SessionContext) (*ConversationMap, bool) {
	v, ok := sess.Get(SessionKey)
	if !ok {
		return nil, false
	}
	cm, ok := v.(*ConversationMap)
	return cm, ok
}

func validate(sess core.SessionContext, name string) error {
	if core.IsNil(sess) {
		return fmt.Errorf("%w: session must not be nil", core.ErrInvalidArgument)
	}
	if name == "" {
		return fmt.Errorf("%w: attribute name must not be empty", core.ErrInvalidArgument)
	}
	return nil
}
