package linq

import (
	"fmt"
	"iter"
	"reflect"
	"runtime"
	"slices"

	"github.com/go-logr/logr"
)

// Enumerable is anything that can produce its elements as an iterator. The iterator is not
// required to be restartable.
type Enumerable[T any] interface {
	All() iter.Seq[T]
}

// From creates a sequence from data. Accepted inputs are nil (an empty sequence), a
// *Sequence[T] (returned as is), []T, iter.Seq[T], func(func(T) bool), <-chan T, chan T and
// any Enumerable[T]. Other inputs fail with ErrInvalidArgument.
func From[T any](data any) (*Sequence[T], error) {
	if data == nil {
		return Empty[T](), nil
	}
	s, ok := adapt[T](data)
	if !ok {
		return nil, newQueryError("from", ErrInvalidArgument, "%T is not iterable as %s",
			data, typeName[T]())
	}
	return s, nil
}

// New is like From but keeps a failure as the sticky error of the returned sequence.
func New[T any](data any) *Sequence[T] {
	s, err := From[T](data)
	if err != nil {
		return failed[T]("from", err)
	}
	return s
}

// Of creates a sequence over the given elements.
func Of[T any](elems ...T) *Sequence[T] {
	s := FromSlice(elems)
	s.lineage = newLineage("from", fmt.Sprintf("values:%d", len(elems)))
	return s
}

// List is a short alias of Of.
func List[T any](elems ...T) *Sequence[T] { return Of(elems...) }

// FromSlice creates a sequence over a copy of elems.
func FromSlice[T any](elems []T) *Sequence[T] {
	return materialized(slices.Clone(elems), logr.Discard(),
		newLineage("from", fmt.Sprintf("slice:%d", len(elems))))
}

// FromNamed is like FromSlice but records name as the source in the lineage.
func FromNamed[T any](name string, elems []T) *Sequence[T] {
	s := FromSlice(elems)
	s.lineage = newLineage("from", name)
	return s
}

// FromSeq creates a sequence over an iterator. The iterator is consumed at most once: its
// elements are buffered as they are pulled and replayed to later traversals.
func FromSeq[T any](seq iter.Seq[T]) *Sequence[T] {
	if seq == nil {
		return Empty[T]()
	}
	r := &replay[T]{seq: seq}
	return &Sequence[T]{src: r.produce, log: logr.Discard(), lineage: newLineage("from", "iterator")}
}

// FromChan creates a sequence over the elements received from ch until it is closed.
func FromChan[T any](ch <-chan T) *Sequence[T] {
	if ch == nil {
		return Empty[T]()
	}
	s := FromSeq(func(yield func(T) bool) {
		for v := range ch {
			if !yield(v) {
				return
			}
		}
	})
	s.lineage = newLineage("from", "channel")
	return s
}

// Empty returns an empty sequence.
func Empty[T any]() *Sequence[T] {
	return materialized[T](nil, logr.Discard(), newLineage("empty", ""))
}

func failed[T any](op string, err error) *Sequence[T] {
	return &Sequence[T]{err: err, log: logr.Discard(), lineage: newLineage(op, "error")}
}

func adapt[T any](data any) (*Sequence[T], bool) {
	switch v := data.(type) {
	case *Sequence[T]:
		if v == nil {
			return Empty[T](), true
		}
		return v, true
	case []T:
		return FromSlice(v), true
	case iter.Seq[T]:
		return FromSeq(v), true
	case func(func(T) bool):
		return FromSeq(v), true
	case <-chan T:
		return FromChan(v), true
	case chan T:
		return FromChan(v), true
	case Enumerable[T]:
		s := FromSeq(v.All())
		s.lineage = newLineage("from", fmt.Sprintf("%T", v))
		return s, true
	}
	return nil, false
}

// coerce turns a sequence-like operator argument into a sequence. A value that cannot be
// coerced yields a sequence failing with ErrType.
func coerce[T any](v any, arg string) *Sequence[T] {
	if v != nil {
		if s, ok := adapt[T](v); ok {
			return s
		}
	}
	return failed[T]("coerce", newQueryError("coerce", ErrType,
		"argument %q must be a sequence of %s, got %T", arg, typeName[T](), v))
}

// replay owns a one-shot iterator. Elements are pulled from the source once, appended to the
// buffer and served from there to every traversal.
type replay[T any] struct {
	seq     iter.Seq[T]
	buf     []T
	next    func() (T, bool)
	stop    func()
	cleanup runtime.Cleanup
	done    bool
}

func (r *replay[T]) produce(yield func(T) bool) error {
	for i := 0; ; i++ {
		if i == len(r.buf) && !r.fill() {
			return nil
		}
		if !yield(r.buf[i]) {
			return nil
		}
	}
}

// fill pulls the next element of the source into the buffer.
func (r *replay[T]) fill() bool {
	if r.done {
		return false
	}
	if r.next == nil {
		r.next, r.stop = iter.Pull(r.seq)
		r.seq = nil
		// an abandoned buffer must not pin the pull coroutine forever
		r.cleanup = runtime.AddCleanup(r, func(stop func()) { stop() }, r.stop)
	}
	v, ok := r.next()
	if !ok {
		r.release()
		return false
	}
	r.buf = append(r.buf, v)
	return true
}

func (r *replay[T]) release() {
	r.done = true
	r.cleanup.Stop()
	r.stop()
	r.next, r.stop = nil, nil
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

// as converts v to U by type assertion. A nil v converts to the zero value of a nilable U.
func as[U any](v any) (U, bool) {
	if u, ok := v.(U); ok {
		return u, true
	}
	var zero U
	if v == nil && nilable(reflect.TypeFor[U]()) {
		return zero, true
	}
	return zero, false
}

func convert[U any](op string, v any) (U, error) {
	u, ok := as[U](v)
	if !ok {
		return u, newQueryError(op, ErrType, "element of type %T is not assignable to %s",
			v, typeName[U]())
	}
	return u, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func,
		reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

// isNil reports whether v is absent: a nil interface or a nil pointer, map, slice, func or
// channel.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return nilable(rv.Type()) && rv.Kind() != reflect.Interface && rv.IsNil()
}
