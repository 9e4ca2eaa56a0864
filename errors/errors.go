// Package errors defines the internal error taxonomy used throughout BWFS
// (spec.md §7: OK, IO, NOMEM, FULL, NOT_FOUND, INVAL) and the machinery for
// attaching context to a sentinel without losing its identity.
package errors

import "fmt"

// DriverError is any BWFS error. It's always possible to recover the
// original sentinel with errors.Is/errors.As, even after WithMessage or Wrap
// have decorated it with extra context.
type DriverError interface {
	error
	WithMessage(message string) DriverError
	Wrap(err error) DriverError
}

// -----------------------------------------------------------------------------

type wrappedError struct {
	message       string
	originalError error
}

func (e wrappedError) Error() string {
	return e.message
}

func (e wrappedError) WithMessage(message string) DriverError {
	return wrappedError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e wrappedError) Wrap(err error) DriverError {
	return wrappedError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: fmt.Errorf("%w: %w", e, err),
	}
}

func (e wrappedError) Unwrap() error {
	return e.originalError
}
