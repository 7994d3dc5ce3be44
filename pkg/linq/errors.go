package linq

import (
	"errors"
	"fmt"
)

var (
	// ErrNoElements is reported when an element is requested from an empty sequence or at an
	// out-of-range position.
	ErrNoElements = errors.New("sequence contains no elements")
	// ErrNullArgument is reported when a required selector or predicate is missing.
	ErrNullArgument = errors.New("null argument")
	// ErrType is reported for arguments or elements of the wrong shape.
	ErrType = errors.New("type error")
	// ErrInvalidArgument is reported for invalid argument values.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoMatchingElement is reported by Single when no element matches.
	ErrNoMatchingElement = errors.New("no matching element")
	// ErrMoreThanOneMatchingElement is reported by Single and SingleOrDefault when several
	// elements match.
	ErrMoreThanOneMatchingElement = errors.New("more than one matching element")
)

// QueryError is the error returned by sequence operators. Kind is one of the Err* sentinels.
type QueryError struct {
	Op      string
	Kind    error
	Message string
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Message)
}

// Unwrap returns the error kind so that errors.Is matches the sentinels.
func (e *QueryError) Unwrap() error { return e.Kind }

func newQueryError(op string, kind error, format string, args ...any) error {
	return &QueryError{Op: op, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// isNoElement reports whether err is one of the failures the OrDefault variants recover from.
func isNoElement(err error) bool {
	return errors.Is(err, ErrNoElements) || errors.Is(err, ErrNoMatchingElement)
}
