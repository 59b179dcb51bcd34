package engine

import (
	"errors"
	"fmt"
)

// ErrNotBound is returned by mutations issued while no identity is
// signed in.
var ErrNotBound = errors.New("no identity bound")

// MutationError reports an add or remove the backend rejected. By the
// time it surfaces, the optimistic local change has already been
// rolled back.
type MutationError struct {
	Op  string // "add" or "remove"
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("bookmark %s rejected by backend: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }
