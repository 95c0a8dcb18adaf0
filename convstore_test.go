package convstore

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/convstore/config"
	"github.com/hupe1980/convstore/internal/testutil"
	"github.com/hupe1980/convstore/metrics"
	"github.com/hupe1980/convstore/web"
)

func TestNew_Defaults(t *testing.T) {
	c := New()
	assert.Equal(t, 10, c.Store().KeepAliveConversations())
	assert.NotNil(t, c.Sessions())
	assert.NotNil(t, c.Attributes())
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.Parse([]byte("keep_alive_conversations: 0\nsession:\n  cookie_name: sid\n"))
	require.NoError(t, err)

	c := New(FromConfig(cfg))
	assert.Equal(t, 0, c.Store().KeepAliveConversations())

	rec := httptest.NewRecorder()
	c.Middleware(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
}

func TestConvStore_EndToEnd(t *testing.T) {
	rec := testutil.NewRecorder()
	c := New(func(o *Options) {
		o.KeepAliveConversations = 2
		o.Metrics = rec
	})

	var lastCID string
	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, c.Attributes().Store(r, "step", r.FormValue("step")))
		lastCID = web.ConversationID(r)
	}))

	var cookies []*http.Cookie
	post := func(form url.Values) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if set := w.Result().Cookies(); len(set) > 0 {
			cookies = set
		}
	}

	var cids []string
	for i := 0; i < 3; i++ {
		post(url.Values{"step": {"1"}})
		cids = append(cids, lastCID)
	}
	post(url.Values{"step": {"2"}, web.CIDField: {cids[2]}})

	require.Len(t, cookies, 1)
	sess, err := c.Sessions().Lookup(cookies[0].Value)
	require.NoError(t, err)

	assert.Equal(t, cids[1:], c.Store().Conversations(sess))
	v, ok, err := c.Store().Retrieve(sess, cids[2], "step")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	assert.Equal(t, 3, rec.Count("created"))
	assert.Equal(t, 1, rec.Count("evicted"))
	assert.Equal(t, 1, rec.Count("session_opened"))
}

func TestConvStore_SessionDeleteDrainsLiveGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(func(o *Options) {
		o.Metrics = metrics.NewPrometheus(func(po *metrics.PrometheusOptions) { po.Registerer = reg })
	})

	sess, err := c.Sessions().Get("s1")
	require.NoError(t, err)
	require.NoError(t, c.Store().Store(sess, "c1", "x", 1))
	require.NoError(t, c.Store().Store(sess, "c2", "x", 2))

	const live = `
# HELP convstore_live_conversations Conversations currently held across all sessions.
# TYPE convstore_live_conversations gauge
convstore_live_conversations %d
`
	require.NoError(t, promtestutil.GatherAndCompare(reg, strings.NewReader(fmt.Sprintf(live, 2)), "convstore_live_conversations"))

	c.Sessions().Delete("s1")

	assert.NoError(t, promtestutil.GatherAndCompare(reg, strings.NewReader(fmt.Sprintf(live, 0)), "convstore_live_conversations"))
}
