package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives conversation and session lifecycle events.
// Implementations must be safe for concurrent use and must not block.
type Recorder interface {
	ConversationCreated()
	// ConversationEvicted is reported when the keep-alive bound pushes out
	// the oldest conversation of a session.
	ConversationEvicted()
	// ConversationRemoved is reported when a conversation ends because its
	// last attribute was cleaned up or it was removed explicitly.
	ConversationRemoved()
	// ConversationsReleased is reported with the number of conversations
	// that ended together with their session (expiry or deletion).
	ConversationsReleased(n int)
	AttributeStored()
	AttributeCleaned()
	SessionOpened()
	SessionClosed()
}

// NoOpRecorder discards all events.
type NoOpRecorder struct{}

// ConversationCreated discards the event.
func (NoOpRecorder) ConversationCreated() {}

// ConversationEvicted discards the event.
func (NoOpRecorder) ConversationEvicted() {}

// ConversationRemoved discards the event.
func (NoOpRecorder) ConversationRemoved() {}

// ConversationsReleased discards the event.
func (NoOpRecorder) ConversationsReleased(int) {}

// AttributeStored discards the event.
func (NoOpRecorder) AttributeStored() {}

// AttributeCleaned discards the event.
func (NoOpRecorder) AttributeCleaned() {}

// SessionOpened discards the event.
func (NoOpRecorder) SessionOpened() {}

// SessionClosed discards the event.
func (NoOpRecorder) SessionClosed() {}

// Prometheus exports events as counters plus live gauges.
type Prometheus struct {
	conversations *prometheus.CounterVec
	attributes    *prometheus.CounterVec
	live          prometheus.Gauge
	sessions      prometheus.Gauge
}

// PrometheusOptions configures NewPrometheus.
type PrometheusOptions struct {
	// Namespace prefixes every metric name. Defaults to "convstore".
	Namespace string
	// Registerer receives the collectors. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// NewPrometheus creates and registers the collectors.
func NewPrometheus(optFns ...func(o *PrometheusOptions)) *Prometheus {
	opts := PrometheusOptions{
		Namespace:  "convstore",
		Registerer: prometheus.DefaultRegisterer,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	factory := promauto.With(opts.Registerer)

	return &Prometheus{
		conversations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "conversation_events_total",
			Help:      "Conversation lifecycle events by kind (created, evicted, removed, released).",
		}, []string{"event"}),
		attributes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "attribute_operations_total",
			Help:      "Attribute store and cleanup operations.",
		}, []string{"op"}),
		live: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: opts.Namespace,
			Name:      "live_conversations",
			Help:      "Conversations currently held across all sessions.",
		}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: opts.Namespace,
			Name:      "live_sessions",
			Help:      "Sessions currently held by the session registry.",
		}),
	}
}

// ConversationCreated counts a new conversation and raises the live gauge.
func (p *Prometheus) ConversationCreated() {
	p.conversations.WithLabelValues("created").Inc()
	p.live.Inc()
}

// ConversationEvicted counts an eviction and lowers the live gauge.
func (p *Prometheus) ConversationEvicted() {
	p.conversations.WithLabelValues("evicted").Inc()
	p.live.Dec()
}

// ConversationRemoved counts an ended conversation and lowers the live gauge.
func (p *Prometheus) ConversationRemoved() {
	p.conversations.WithLabelValues("removed").Inc()
	p.live.Dec()
}

// ConversationsReleased counts conversations dropped with their session and
// lowers the live gauge by n.
func (p *Prometheus) ConversationsReleased(n int) {
	p.conversations.WithLabelValues("released").Add(float64(n))
	p.live.Sub(float64(n))
}

// AttributeStored counts a store operation.
func (p *Prometheus) AttributeStored() { p.attributes.WithLabelValues("store").Inc() }

// AttributeCleaned counts a cleanup that removed an attribute.
func (p *Prometheus) AttributeCleaned() { p.attributes.WithLabelValues("cleanup").Inc() }

// SessionOpened raises the live session gauge.
func (p *Prometheus) SessionOpened() { p.sessions.Inc() }

// SessionClosed lowers the live session gauge.
func (p *Prometheus) SessionClosed() { p.sessions.Dec() }
