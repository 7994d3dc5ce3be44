package provider

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/l7mp/linq/pkg/linq"
)

var _ Driver = &MemoryDriver{}

// MemoryDriver serves datasets held in memory. A dataset is a set of named collections.
type MemoryDriver struct {
	mu       sync.RWMutex
	datasets map[string]map[string][]Document
}

// NewMemoryDriver creates a memory driver without datasets.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{datasets: map[string]map[string][]Document{}}
}

func (d *MemoryDriver) Name() string { return "memory" }

// AddDataset adds or replaces a dataset.
func (d *MemoryDriver) AddDataset(name string, collections map[string][]Document) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.datasets[name] = maps.Clone(collections)
}

// Open connects to the dataset named by the connection string.
func (d *MemoryDriver) Open(uri string) (Connection, error) {
	name := target(uri)
	d.mu.RLock()
	defer d.mu.RUnlock()
	colls, ok := d.datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: no dataset %q", linq.ErrInvalidArgument, name)
	}
	return newConnection(uri, colls), nil
}

// connection serves a fixed set of collections.
type connection struct {
	uri         string
	collections map[string][]Document
	closed      bool
}

func newConnection(uri string, collections map[string][]Document) *connection {
	return &connection{uri: uri, collections: collections}
}

func (c *connection) Collections() []string {
	return slices.Sorted(maps.Keys(c.collections))
}

func (c *connection) Collection(name string) (*linq.Sequence[Document], error) {
	if c.closed {
		return nil, ErrClosed
	}
	docs, ok := c.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w %q in %q", ErrUnknownCollection, name, c.uri)
	}
	return linq.FromNamed(name, docs), nil
}

func (c *connection) Close() error {
	c.closed = true
	return nil
}
