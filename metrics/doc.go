// Package metrics defines the Recorder hook the conversation store and
// session registry report lifecycle events to, with a Prometheus backed
// implementation and a no-op default.
package metrics
