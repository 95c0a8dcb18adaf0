package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/hupe1980/convstore/conversation"
	"github.com/hupe1980/convstore/core"
	"github.com/hupe1980/convstore/logging"
	"github.com/hupe1980/convstore/metrics"
)

// DefaultIdleTimeout is how long an untouched session is kept.
const DefaultIdleTimeout = 30 * time.Minute

// Options configures an InMemoryStore.
type Options struct {
	// IdleTimeout expires sessions not accessed for this long. 0 keeps
	// sessions until they are deleted.
	IdleTimeout time.Duration
	// CleanupInterval is how often expired sessions are purged. 0 disables
	// the background janitor; expired sessions are then only dropped when
	// their id is requested again.
	CleanupInterval time.Duration
	// Logger defaults to a NoOp logger if nil.
	Logger logging.Logger
	// Metrics defaults to a NoOp recorder if nil.
	Metrics metrics.Recorder
}

// InMemoryStore is a volatile session registry keeping sessions in a process
// local cache with sliding idle expiry. It is safe for concurrent access.
type InMemoryStore struct {
	mu       sync.Mutex // serializes get-or-create
	sessions *cache.Cache
	logger   logging.Logger
	metrics  metrics.Recorder

	hooksMu sync.RWMutex
	hooks   []func(id string)
}

// NewInMemoryStore constructs an empty session registry.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{
		IdleTimeout:     DefaultIdleTimeout,
		CleanupInterval: 5 * time.Minute,
		Logger:          logging.NoOpLogger{},
		Metrics:         metrics.NoOpRecorder{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Metrics == nil {
		opts.Metrics = metrics.NoOpRecorder{}
	}

	expiration := opts.IdleTimeout
	if expiration <= 0 {
		expiration = cache.NoExpiration
	}

	s := &InMemoryStore{
		sessions: cache.New(expiration, opts.CleanupInterval),
		logger:   logging.With(opts.Logger, "component", "session"),
		metrics:  opts.Metrics,
	}
	s.sessions.OnEvicted(s.closed)

	return s
}

// Get returns the session with the given id, creating it lazily. Every call
// restarts the session's idle timer.
func (s *InMemoryStore) Get(id string) (*core.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: session id must not be empty", core.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.touchLocked(id); ok {
		return sess, nil
	}
	return s.createLocked(id), nil
}

// Lookup returns an existing session without creating one. It restarts the
// session's idle timer.
func (s *InMemoryStore) Lookup(id string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.touchLocked(id); ok {
		return sess, nil
	}
	return nil, fmt.Errorf("%w: %q", core.ErrSessionNotFound, id)
}

// Create forces the creation (or replacement) of a session. An empty id is
// replaced with a fresh random one.
func (s *InMemoryStore) Create(id string) (*core.Session, error) {
	if id == "" {
		id = core.NewID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createLocked(id), nil
}

// Delete ends a session, releasing everything stored in it.
func (s *InMemoryStore) Delete(id string) {
	s.sessions.Delete(id)
}

// Len returns the number of sessions held, including expired sessions not
// yet purged.
func (s *InMemoryStore) Len() int {
	return s.sessions.ItemCount()
}

// OnExpired registers fn to run whenever a session ends, either by idle
// expiry or by Delete.
func (s *InMemoryStore) OnExpired(fn func(id string)) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// touchLocked returns a live session and re-arms its expiry. Caller must
// hold mu.
func (s *InMemoryStore) touchLocked(id string) (*core.Session, bool) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, false
	}
	sess := v.(*core.Session)
	s.sessions.Set(id, sess, cache.DefaultExpiration)
	return sess, true
}

// createLocked allocates and stores a new session; caller must already
// hold mu. An expired entry still waiting for the janitor is closed first.
func (s *InMemoryStore) createLocked(id string) *core.Session {
	s.sessions.Delete(id)
	sess := core.NewSession(id)
	s.sessions.Set(id, sess, cache.DefaultExpiration)
	s.metrics.SessionOpened()
	s.logger.Debug("session created", "session_id", id)
	return sess
}

func (s *InMemoryStore) closed(id string, v any) {
	released := 0
	if sess, ok := v.(*core.Session); ok {
		released = conversation.Live(sess)
	}
	if released > 0 {
		s.metrics.ConversationsReleased(released)
	}
	s.metrics.SessionClosed()
	s.logger.Debug("session closed", "session_id", id, "conversations", released)

	s.hooksMu.RLock()
	hooks := append([]func(string){}, s.hooks...)
	s.hooksMu.RUnlock()

	for _, fn := range hooks {
		fn(id)
	}
}
