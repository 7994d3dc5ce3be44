package provider

import (
	"fmt"
	"slices"
	"sync"

	"github.com/go-logr/logr"

	"github.com/l7mp/linq/pkg/linq"
)

// Registry maps connection string schemes to drivers. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]Driver
	log     logr.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{drivers: map[string]Driver{}, log: logr.Discard()}
}

// WithLogger sets the logger of the registry.
func (r *Registry) WithLogger(log logr.Logger) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = log
	return r
}

// Register adds a driver. A scheme can be registered only once.
func (r *Registry) Register(d Driver) error {
	if d == nil {
		return fmt.Errorf("%w: no driver", linq.ErrNullArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drivers[d.Name()]; ok {
		return fmt.Errorf("%w: driver %q already registered", linq.ErrInvalidArgument, d.Name())
	}
	r.drivers[d.Name()] = d
	r.log.V(4).Info("driver registered", "provider", d.Name())
	return nil
}

// Resolve returns the driver for the scheme of uri.
func (r *Registry) Resolve(uri string) (Driver, error) {
	name, err := ProviderName(uri)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, name)
	}
	return d, nil
}

// Connect resolves the driver for uri and opens a connection.
func (r *Registry) Connect(uri string) (Connection, error) {
	d, err := r.Resolve(uri)
	if err != nil {
		return nil, err
	}
	conn, err := d.Open(uri)
	if err != nil {
		return nil, err
	}
	r.log.V(2).Info("connected", "provider", d.Name(), "uri", uri,
		"collections", conn.Collections())
	return conn, nil
}

// Drivers returns the registered schemes in sorted order.
func (r *Registry) Drivers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		ret = append(ret, name)
	}
	slices.Sort(ret)
	return ret
}

var (
	// Memory is the in-process driver of the default registry.
	Memory = NewMemoryDriver()
	// DefaultRegistry is the registry holding the built-in drivers.
	DefaultRegistry = NewRegistry()
)

func init() {
	for _, d := range []Driver{Memory, NewJSONDriver(), NewYAMLDriver()} {
		if err := DefaultRegistry.Register(d); err != nil {
			panic(err)
		}
	}
}

// Register adds a driver to the default registry.
func Register(d Driver) error { return DefaultRegistry.Register(d) }

// Resolve returns the driver of the default registry for the scheme of uri.
func Resolve(uri string) (Driver, error) { return DefaultRegistry.Resolve(uri) }

// Connect opens a connection through the default registry.
func Connect(uri string) (Connection, error) { return DefaultRegistry.Connect(uri) }

// RegisterDataset makes a dataset available as memory:<name> in the default registry.
func RegisterDataset(name string, collections map[string][]Document) {
	Memory.AddDataset(name, collections)
}
