package palette

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound indicates a name that is not registered.
var ErrKeyNotFound = errors.New("key not found")

// ErrIndexOutOfRange indicates a positional selector outside [0, size).
var ErrIndexOutOfRange = errors.New("index out of range")

// LookupError records which registry rejected which selector.
type LookupError struct {
	Registry string // "color" or "marker"
	Selector Selector
	Size     int
	Err      error
}

func (e *LookupError) Error() string {
	if errors.Is(e.Err, ErrIndexOutOfRange) {
		return fmt.Sprintf("%s %s: %v (size %d)", e.Registry, e.Selector, e.Err, e.Size)
	}
	return fmt.Sprintf("%s %s: %v", e.Registry, e.Selector, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
