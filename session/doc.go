// Package session houses the process-local session registry. The
// SessionContext interface and Session type live in the core package; this
// package only decides how long sessions live.
//
// A session owns everything stored in it, including its conversation map, so
// expiring or deleting a session releases all of its conversations without
// any explicit teardown from the conversation store.
//
// Add additional backends in sub-packages without changing any calling code;
// only the wiring layer needs to decide which implementation to instantiate.
package session
