package errors

import stderrors "errors"

// Is is a re-export of the standard library's errors.Is, so callers that
// already import this package for the BWFS taxonomy don't need a second
// "errors" import under an alias.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is a re-export of the standard library's errors.As, for the same
// reason as Is.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
