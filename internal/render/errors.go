package render

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch indicates x and y sequences of different length.
var ErrLengthMismatch = errors.New("length mismatch")

// ErrUnknownLocation indicates a legend location outside the supported set.
var ErrUnknownLocation = errors.New("unknown legend location")

// ErrIO marks failures to create the output directory or write the file.
var ErrIO = errors.New("io failure")

// IOError wraps a filesystem failure while saving a figure.
type IOError struct {
	Op   string // "mkdir" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
