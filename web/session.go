package web

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/hupe1980/convstore/core"
	"github.com/hupe1980/convstore/logging"
)

// DefaultCookieName is the session cookie used when none is configured.
const DefaultCookieName = "CONVSTORE_SESSION"

// SessionProvider is the session registry consumed by SessionManager.
// session.InMemoryStore implements it.
type SessionProvider interface {
	Lookup(id string) (*core.Session, error)
	Create(id string) (*core.Session, error)
}

// SessionManagerOptions configures a SessionManager.
type SessionManagerOptions struct {
	CookieName string
	// Secure marks the session cookie HTTPS-only.
	Secure bool
	// Logger defaults to a NoOp logger if nil.
	Logger logging.Logger
}

// SessionManager maps requests to sessions via a cookie.
type SessionManager struct {
	provider SessionProvider
	opts     SessionManagerOptions
	logger   logging.Logger
}

// NewSessionManager creates a SessionManager backed by provider.
func NewSessionManager(provider SessionProvider, optFns ...func(o *SessionManagerOptions)) *SessionManager {
	opts := SessionManagerOptions{
		CookieName: DefaultCookieName,
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}

	return &SessionManager{
		provider: provider,
		opts:     opts,
		logger:   logging.With(opts.Logger, "component", "web"),
	}
}

// Resolve returns the request's session, creating one and setting the
// cookie on w when the request carries no live session.
func (m *SessionManager) Resolve(w http.ResponseWriter, r *http.Request) (core.SessionContext, error) {
	if c, err := r.Cookie(m.opts.CookieName); err == nil && c.Value != "" {
		sess, err := m.provider.Lookup(c.Value)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, core.ErrSessionNotFound) {
			return nil, err
		}
		m.logger.Debug("session cookie refers to unknown session", "session_id", c.Value)
	}

	sess, err := m.provider.Create("")
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    sess.ID(),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return sess, nil
}

// Middleware attaches the session and a request scope to every request.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Resolve(w, r)
		if err != nil {
			m.logger.Error("failed to resolve session", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

type sessionKey struct{}

type scopeKey struct{}

// requestScope holds values that live for a single request.
type requestScope struct {
	mu  sync.Mutex
	cid string
}

func (s *requestScope) conversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cid
}

func (s *requestScope) setConversationID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cid = id
}

// WithSession returns a context carrying sess and a fresh request scope.
func WithSession(ctx context.Context, sess core.SessionContext) context.Context {
	ctx = context.WithValue(ctx, sessionKey{}, sess)
	return context.WithValue(ctx, scopeKey{}, &requestScope{})
}

// SessionFrom returns the session attached by Middleware or WithSession.
func SessionFrom(ctx context.Context) (core.SessionContext, bool) {
	sess, ok := ctx.Value(sessionKey{}).(core.SessionContext)
	return sess, ok && !core.IsNil(sess)
}

func scopeFrom(ctx context.Context) *requestScope {
	scope, _ := ctx.Value(scopeKey{}).(*requestScope)
	return scope
}
