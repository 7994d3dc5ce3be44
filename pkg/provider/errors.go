package provider

import (
	"errors"
	"fmt"

	"github.com/l7mp/linq/pkg/linq"
)

var (
	// ErrUnsupportedProvider is returned for a connection string whose scheme has no driver.
	ErrUnsupportedProvider = fmt.Errorf("%w: unsupported connection provider", linq.ErrInvalidArgument)
	// ErrUnknownCollection is returned for a collection that a connection does not hold.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrClosed is returned by a closed connection.
	ErrClosed = errors.New("connection closed")
)

type ErrInvalidURI = error

func NewInvalidURIError(uri string) ErrInvalidURI {
	return fmt.Errorf("%w: %q is not a valid connection uri", linq.ErrInvalidArgument, uri)
}

type ErrLoad = error

func NewLoadError(uri string, err error) ErrLoad {
	return fmt.Errorf("failed to load %q: %w", uri, err)
}
