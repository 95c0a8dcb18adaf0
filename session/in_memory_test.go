package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/convstore/conversation"
	"github.com/hupe1980/convstore/core"
	"github.com/hupe1980/convstore/internal/testutil"
)

func TestInMemoryStore_GetCreatesLazily(t *testing.T) {
	rec := testutil.NewRecorder()
	s := NewInMemoryStore(func(o *Options) { o.Metrics = rec })

	_, err := s.Lookup("s1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)

	a, err := s.Get("s1")
	require.NoError(t, err)
	b, err := s.Get("s1")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, "s1", a.ID())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, rec.Count("session_opened"))

	c, err := s.Lookup("s1")
	require.NoError(t, err)
	assert.Same(t, a, c)

	_, err = s.Get("")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestInMemoryStore_CreateReplaces(t *testing.T) {
	rec := testutil.NewRecorder()
	s := NewInMemoryStore(func(o *Options) { o.Metrics = rec })

	first, _ := s.Get("s1")
	first.Set("k", "v")

	second, err := s.Create("s1")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	_, ok := second.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 1, rec.Count("session_closed"))

	generated, err := s.Create("")
	require.NoError(t, err)
	assert.NotEmpty(t, generated.ID())
}

func TestInMemoryStore_DeleteReleasesConversations(t *testing.T) {
	s := NewInMemoryStore()
	store := conversation.New()

	var (
		mu    sync.Mutex
		ended []string
	)
	s.OnExpired(func(id string) {
		mu.Lock()
		defer mu.Unlock()
		ended = append(ended, id)
	})

	sess, _ := s.Get("s1")
	require.NoError(t, store.Store(sess, "c1", "x", 1))

	s.Delete("s1")
	assert.Equal(t, []string{"s1"}, ended)

	fresh, _ := s.Get("s1")
	_, ok, err := store.Retrieve(fresh, "c1", "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryStore_DeleteReportsReleasedConversations(t *testing.T) {
	rec := testutil.NewRecorder()
	s := NewInMemoryStore(func(o *Options) { o.Metrics = rec })
	store := conversation.New(func(o *conversation.Options) { o.Metrics = rec })

	sess, _ := s.Get("s1")
	require.NoError(t, store.Store(sess, "c1", "x", 1))
	require.NoError(t, store.Store(sess, "c2", "x", 2))
	empty, _ := s.Get("s2")
	require.NotNil(t, empty)

	s.Delete("s1")
	s.Delete("s2")

	assert.Equal(t, 2, rec.Count("created"))
	assert.Equal(t, 2, rec.Count("released"))
	assert.Equal(t, 2, rec.Count("session_closed"))
}

func TestInMemoryStore_IdleExpiry(t *testing.T) {
	rec := testutil.NewRecorder()
	s := NewInMemoryStore(func(o *Options) {
		o.IdleTimeout = 30 * time.Millisecond
		o.CleanupInterval = 10 * time.Millisecond
		o.Metrics = rec
	})

	expired := make(chan string, 1)
	s.OnExpired(func(id string) { expired <- id })

	_, err := s.Get("s1")
	require.NoError(t, err)

	select {
	case id := <-expired:
		assert.Equal(t, "s1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not expire")
	}

	_, err = s.Lookup("s1")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 1, rec.Count("session_closed"))
}

func TestInMemoryStore_NoExpiry(t *testing.T) {
	s := NewInMemoryStore(func(o *Options) {
		o.IdleTimeout = 0
		o.CleanupInterval = 0
	})

	sess, _ := s.Get("s1")
	again, err := s.Lookup("s1")
	require.NoError(t, err)
	assert.Same(t, sess, again)
}

func TestInMemoryStore_ConcurrentGet(t *testing.T) {
	s := NewInMemoryStore()

	var wg sync.WaitGroup
	got := make([]*core.Session, 30)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := s.Get("shared")
			assert.NoError(t, err)
			got[i] = sess
		}(i)
	}
	wg.Wait()

	for _, sess := range got {
		assert.Same(t, got[0], sess)
	}
}
