package core

import "errors"

var (
	// ErrInvalidArgument reports a missing required parameter. Operations
	// returning it never mutate state.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSessionNotFound reports a lookup of an unknown or expired session.
	ErrSessionNotFound = errors.New("session not found")
)
