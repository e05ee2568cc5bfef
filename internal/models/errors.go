package models

import (
	"errors"
	"fmt"
)

// InputError is a fatal problem with a run's inputs or outputs: a missing scan
// root, an unreadable manifest, an unwritable output file, or invalid options.
type InputError struct {
	Op   string // Operation that failed (scan, generate, extract, organize, write)
	Path string // Path involved (optional)
	Err  error  // Underlying error
}

// NewInputError creates a new InputError.
func NewInputError(op, path string, err error) *InputError {
	return &InputError{Op: op, Path: path, Err: err}
}

// Error implements the error interface for InputError.
func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *InputError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err is or wraps an InputError.
func IsInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}
