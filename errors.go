package contentkit

import (
	"errors"
	"fmt"
)

// Common content errors
var (
	ErrClosed          = errors.New("content stream already closed")
	ErrUnencodable     = errors.New("character not representable in encoding")
	ErrNotSupported    = errors.New("operation not supported")
	ErrNotExist        = errors.New("content does not exist")
	ErrNotAllowed      = errors.New("operation not allowed")
	ErrInvalidSize     = errors.New("invalid content size")
	ErrUnknownFilter   = errors.New("unknown filter")
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// ContentError records an error and the operation and content name that caused it.
// Name is empty when the stream was handed over without one.
type ContentError struct {
	Op   string
	Name string
	Err  error
}

// Error implements the error interface
func (e *ContentError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

// Unwrap returns the underlying error
func (e *ContentError) Unwrap() error {
	return e.Err
}

// IsClosed reports whether an error was caused by using a source or sink
// whose stream has already been released
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

// IsNotExist reports whether an error indicates that named content does not exist
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}
