package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// Interface compliance (compile-time assertions)
var (
	_ Recorder = (*Prometheus)(nil)
	_ Recorder = NoOpRecorder{}
)

func TestPrometheus_CountsLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(func(o *PrometheusOptions) {
		o.Registerer = reg
		o.Namespace = "test"
	})

	p.ConversationCreated()
	p.ConversationCreated()
	p.ConversationCreated()
	p.ConversationEvicted()
	p.ConversationRemoved()
	p.ConversationCreated()
	p.ConversationCreated()
	p.ConversationsReleased(2)
	p.AttributeStored()
	p.AttributeStored()
	p.AttributeCleaned()
	p.SessionOpened()

	assert.Equal(t, 5.0, testutil.ToFloat64(p.conversations.WithLabelValues("created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.conversations.WithLabelValues("released")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.conversations.WithLabelValues("evicted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.conversations.WithLabelValues("removed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.live))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.attributes.WithLabelValues("store")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.attributes.WithLabelValues("cleanup")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.sessions))

	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
}
