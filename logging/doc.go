// Package logging provides a minimal logging interface and adapters for convstore.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the conversation store, session registry and web layer use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ZerologAdapter wrapping github.com/rs/zerolog
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	store := conversation.New(func(o *conversation.Options) { o.Logger = logger })
//
// Arguments after the message are alternating key/value pairs in every adapter.
package logging
