package linq

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// canonical returns the canonical encoding of a key value. Two key values are equal iff their
// canonical encodings are equal. Nil, booleans, numbers, strings, slices, arrays and maps are
// encoded as JSON with map keys sorted and numbers normalized by value, so that int 1 and
// float64 1.0 are the same key. Pointers, channels and funcs are keyed by identity, other
// values fall back to their Go syntax representation.
func canonical(v any) string {
	b := &strings.Builder{}
	writeCanonical(b, v)
	return b.String()
}

func writeCanonical(b *strings.Builder, v any) {
	switch k := v.(type) {
	case nil:
		b.WriteString("null")
		return
	case string:
		b.WriteString(strconv.Quote(k))
		return
	case bool:
		b.WriteString(strconv.FormatBool(k))
		return
	case *Key:
		writeCanonical(b, k.Values())
		return
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		writeFloat(b, rv.Float())
	case reflect.String:
		b.WriteString(strconv.Quote(rv.String()))
	case reflect.Bool:
		b.WriteString(strconv.FormatBool(rv.Bool()))
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			b.WriteString("null")
			return
		}
		b.WriteString("[")
		for i := range rv.Len() {
			if i > 0 {
				b.WriteString(",")
			}
			writeCanonical(b, rv.Index(i).Interface())
		}
		b.WriteString("]")
	case reflect.Map:
		if rv.IsNil() {
			b.WriteString("null")
			return
		}
		type entry struct{ key, value string }
		entries := make([]entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries = append(entries, entry{
				key:   canonical(iter.Key().Interface()),
				value: canonical(iter.Value().Interface()),
			})
		}
		slices.SortFunc(entries, func(a, b entry) int { return strings.Compare(a.key, b.key) })
		b.WriteString("{")
		for i, e := range entries {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(e.key)
			b.WriteString(":")
			b.WriteString(e.value)
		}
		b.WriteString("}")
	case reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		// reference values are keyed by identity
		fmt.Fprintf(b, "%T@%#x", v, rv.Pointer())
	default:
		fmt.Fprintf(b, "%T:%#v", v, v)
	}
}

// writeFloat writes integral floats like integers so that they match integer keys.
func writeFloat(b *strings.Builder, f float64) {
	if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
		b.WriteString(strconv.FormatInt(int64(f), 10))
		return
	}
	b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
}

// keyIndex is a hash index over canonical keys that remembers the order in which keys were
// first added.
type keyIndex[V any] struct {
	buckets map[uint64][]*keyEntry[V]
	order   []*keyEntry[V]
}

type keyEntry[V any] struct {
	canon  string
	key    any
	values []V
}

func newKeyIndex[V any]() *keyIndex[V] {
	return &keyIndex[V]{buckets: map[uint64][]*keyEntry[V]{}}
}

// entry returns the entry of key. If there is none and create is set a new entry is added;
// the second return value reports whether this happened.
func (ix *keyIndex[V]) entry(key any, create bool) (*keyEntry[V], bool) {
	canon := canonical(key)
	h := xxhash.Sum64String(canon)
	for _, e := range ix.buckets[h] {
		if e.canon == canon {
			return e, false
		}
	}
	if !create {
		return nil, false
	}
	e := &keyEntry[V]{canon: canon, key: key}
	ix.buckets[h] = append(ix.buckets[h], e)
	ix.order = append(ix.order, e)
	return e, true
}

func (ix *keyIndex[V]) lookup(key any) *keyEntry[V] {
	e, _ := ix.entry(key, false)
	return e
}

func (ix *keyIndex[V]) add(key any, v V) *keyEntry[V] {
	e, _ := ix.entry(key, true)
	e.values = append(e.values, v)
	return e
}

// entries returns the entries in the order their keys were first added.
func (ix *keyIndex[V]) entries() []*keyEntry[V] { return ix.order }
