package collection

import (
	"errors"
	"fmt"
)

// ErrItemNotFound is returned by the child helpers for unknown nested ids.
var ErrItemNotFound = errors.New("item not found")

type Kind int

const (
	NotFound Kind = iota + 1
	LoadFailure
	MutationFailure
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not-found"
	case LoadFailure:
		return "load-failure"
	case MutationFailure:
		return "mutation-failure"
	}
	return "unknown"
}

// Error is the last failure observed by the store, kept for display.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
