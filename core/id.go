package core

import "github.com/google/uuid"

// NewID returns a new random (v4) UUID string used for conversation and
// session identifiers.
func NewID() string { return uuid.NewString() }
