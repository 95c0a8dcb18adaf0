// Package convstore provides a high-level façade over the conversation store
// and its collaborators (session registry, HTTP boundary, logging & metrics)
// enabling multi-tab form conversations on top of a single user session.
// Most applications interact with this package by:
//  1. Creating a ConvStore via New() (optionally overriding defaults)
//  2. Wrapping their handlers with Middleware
//  3. Storing and retrieving per-conversation attributes via Attributes()
//
// All defaults are safe for local development and testing; sessions and
// conversations live in process memory only.
package convstore

import (
	"net/http"
	"time"

	"github.com/hupe1980/convstore/config"
	"github.com/hupe1980/convstore/conversation"
	"github.com/hupe1980/convstore/logging"
	"github.com/hupe1980/convstore/metrics"
	"github.com/hupe1980/convstore/session"
	"github.com/hupe1980/convstore/web"
)

// Options configures the ConvStore instance.
type Options struct {
	// KeepAliveConversations bounds the live conversations per session. When
	// a new conversation would exceed it the oldest one is evicted. Set to 0
	// for unbounded growth.
	KeepAliveConversations int

	// SessionIdleTimeout expires sessions (and all their conversations)
	// after this long without a request. 0 keeps sessions forever.
	SessionIdleTimeout time.Duration

	// SessionCleanupInterval controls how often expired sessions are purged.
	SessionCleanupInterval time.Duration

	// CookieName names the session cookie.
	CookieName string

	// SecureCookie marks the session cookie HTTPS-only.
	SecureCookie bool

	// SessionStore defaults to an in-memory registry built from the session
	// settings above if not provided.
	SessionStore *session.InMemoryStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Metrics (defaults to NoOp recorder if nil)
	Metrics metrics.Recorder
}

// FromConfig returns an option applying a loaded configuration document.
func FromConfig(cfg *config.Config) func(o *Options) {
	return func(o *Options) {
		o.KeepAliveConversations = cfg.KeepAliveConversations
		o.SessionIdleTimeout = cfg.Session.IdleTimeout
		o.SessionCleanupInterval = cfg.Session.CleanupInterval
		o.CookieName = cfg.Session.CookieName
		o.Logger = cfg.NewLogger()
	}
}

// ConvStore is the high-level façade aggregating the store and its services.
type ConvStore struct {
	opts       Options
	store      *conversation.Store
	sessions   *session.InMemoryStore
	manager    *web.SessionManager
	attributes *web.Attributes
}

// New creates a new ConvStore instance with optional overrides.
func New(optFns ...func(o *Options)) *ConvStore {
	opts := Options{
		KeepAliveConversations: conversation.DefaultKeepAliveConversations,
		SessionIdleTimeout:     session.DefaultIdleTimeout,
		SessionCleanupInterval: 5 * time.Minute,
		CookieName:             web.DefaultCookieName,
		Logger:                 logging.NoOpLogger{},
		Metrics:                metrics.NoOpRecorder{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoOpRecorder{}
	}

	if opts.SessionStore == nil {
		opts.SessionStore = session.NewInMemoryStore(func(o *session.Options) {
			o.IdleTimeout = opts.SessionIdleTimeout
			o.CleanupInterval = opts.SessionCleanupInterval
			o.Logger = opts.Logger
			o.Metrics = opts.Metrics
		})
	}

	store := conversation.New(func(o *conversation.Options) {
		o.KeepAliveConversations = opts.KeepAliveConversations
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	})

	manager := web.NewSessionManager(opts.SessionStore, func(o *web.SessionManagerOptions) {
		o.CookieName = opts.CookieName
		o.Secure = opts.SecureCookie
		o.Logger = opts.Logger
	})

	return &ConvStore{
		opts:       opts,
		store:      store,
		sessions:   opts.SessionStore,
		manager:    manager,
		attributes: web.NewAttributes(store),
	}
}

// Store returns the underlying conversation store.
func (c *ConvStore) Store() *conversation.Store { return c.store }

// Sessions returns the session registry.
func (c *ConvStore) Sessions() *session.InMemoryStore { return c.sessions }

// Attributes returns request-bound access to conversation attributes.
func (c *ConvStore) Attributes() *web.Attributes { return c.attributes }

// Middleware attaches sessions to requests; wrap every handler that uses
// Attributes with it.
func (c *ConvStore) Middleware(next http.Handler) http.Handler {
	return c.manager.Middleware(next)
}
