package linq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/go-logr/logr"
)

// Tuple is a composite key. Key selectors return a Tuple (or a []any) to group or join on
// several values at once.
type Tuple []any

// Pair is the default result of Join and GroupJoin.
type Pair[A, B any] struct {
	First  A
	Second B
}

// String implements fmt.Stringer.
func (p Pair[A, B]) String() string { return fmt.Sprintf("(%v, %v)", p.First, p.Second) }

// Key is the immutable, ordered mapping of key names to key values of a Grouping.
type Key struct {
	fields *linkedhashmap.Map
}

// newKey binds names to the components of a key value. A composite key (a non-empty Tuple,
// slice or array) is bound positionally and components without a name are dropped; a scalar
// key is bound to every name. A name without a matching component is an error.
func newKey(names []string, value any) (*Key, error) {
	fields := linkedhashmap.New()
	parts, composite := components(value)
	for i, name := range names {
		if _, found := fields.Get(name); found {
			continue
		}
		if !composite {
			fields.Put(name, value)
			continue
		}
		if i >= len(parts) {
			return nil, newQueryError("groupBy", ErrInvalidArgument,
				"key name %q has no matching key component: the key has %d components",
				name, len(parts))
		}
		fields.Put(name, parts[i])
	}
	return &Key{fields: fields}, nil
}

func components(value any) ([]any, bool) {
	switch v := value.(type) {
	case Tuple:
		return v, len(v) > 0
	case []any:
		return v, len(v) > 0
	case nil, []byte, string:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Len() == 0 {
		return nil, false
	}
	parts := make([]any, rv.Len())
	for i := range parts {
		parts[i] = rv.Index(i).Interface()
	}
	return parts, true
}

// Get returns the key value bound to name.
func (k *Key) Get(name string) (any, bool) { return k.fields.Get(name) }

// Names returns the key names in order.
func (k *Key) Names() []string {
	names := make([]string, 0, k.fields.Size())
	for _, n := range k.fields.Keys() {
		names = append(names, n.(string))
	}
	return names
}

// Values returns the key values in order.
func (k *Key) Values() []any { return k.fields.Values() }

// Len returns the number of key fields.
func (k *Key) Len() int { return k.fields.Size() }

// ToMap returns the key fields as a map.
func (k *Key) ToMap() map[string]any {
	ret := make(map[string]any, k.fields.Size())
	it := k.fields.Iterator()
	for it.Next() {
		ret[it.Key().(string)] = it.Value()
	}
	return ret
}

// String implements fmt.Stringer.
func (k *Key) String() string {
	parts := make([]string, 0, k.fields.Size())
	it := k.fields.Iterator()
	for it.Next() {
		parts = append(parts, fmt.Sprintf("%s: %v", it.Key(), it.Value()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// MarshalJSON encodes the key as a JSON object with the fields in key order.
func (k *Key) MarshalJSON() ([]byte, error) {
	b := &bytes.Buffer{}
	b.WriteByte('{')
	it := k.fields.Iterator()
	for i := 0; it.Next(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		name, err := json.Marshal(it.Key())
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(it.Value())
		if err != nil {
			return nil, err
		}
		b.Write(name)
		b.WriteByte(':')
		b.Write(value)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Grouping is a group of elements sharing a key. The elements are materialized when the
// group is created.
type Grouping[T any] struct {
	*Sequence[T]
	key *Key
	raw any
}

func newGrouping[T any](key *Key, raw any, elems []T, log logr.Logger, parent *Lineage) *Grouping[T] {
	return &Grouping[T]{
		Sequence: materialized(elems, log, newLineage("grouping", canonical(raw), parent)),
		key:      key,
		raw:      raw,
	}
}

// Key returns the key of the group.
func (g *Grouping[T]) Key() *Key { return g.key }

// KeyValue returns the key value the key selector produced for the group.
func (g *Grouping[T]) KeyValue() any { return g.raw }

// String implements fmt.Stringer.
func (g *Grouping[T]) String() string {
	return fmt.Sprintf("Grouping(key: %s, elements: %v)", g.key, g.buf)
}
