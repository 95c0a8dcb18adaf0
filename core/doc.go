// Package core provides the foundational domain types and interfaces used by
// convstore. It defines the abstractions shared by every other package:
//
//   - SessionContext (opaque per-client storage handed in by the transport)
//   - Session (the process-local SessionContext implementation)
//   - AttributeStore (store / retrieve / cleanup of conversation attributes)
//   - Sentinel errors and identifier generation
//
// The package keeps implementation concerns (the ordered conversation map,
// session expiry, HTTP plumbing) out of scope so backends and transports can
// be swapped at wiring time without touching callers.
package core
