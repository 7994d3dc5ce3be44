package provider

import (
	"fmt"
	"strings"

	"github.com/l7mp/linq/pkg/linq"
)

// Document is a single record of a collection.
type Document = map[string]any

// Driver opens connections for a connection string scheme.
type Driver interface {
	// Name returns the scheme served by the driver.
	Name() string
	// Open connects to the data source named by uri.
	Open(uri string) (Connection, error)
}

// Connection gives access to the collections of a data source.
type Connection interface {
	// Collections returns the names of the collections in sorted order.
	Collections() []string
	// Collection returns a fresh sequence over the documents of a collection.
	Collection(name string) (*linq.Sequence[Document], error)
	// Close releases the connection.
	Close() error
}

// ProviderName returns the scheme of a connection string. The connection string must contain
// exactly one colon.
func ProviderName(uri string) (string, error) {
	if uri == "" {
		return "", fmt.Errorf("%w: no connection uri", linq.ErrNullArgument)
	}
	scheme, _, found := strings.Cut(uri, ":")
	if !found || strings.Count(uri, ":") != 1 {
		return "", NewInvalidURIError(uri)
	}
	return scheme, nil
}

// target returns the part of the connection string after the scheme.
func target(uri string) string {
	_, rest, _ := strings.Cut(uri, ":")
	return rest
}
