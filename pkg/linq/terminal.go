package linq

import (
	"reflect"
	"slices"
)

// ToList evaluates the sequence and returns its elements in a new slice.
func (s *Sequence[T]) ToList() ([]T, error) {
	elems, err := s.collect()
	if err != nil {
		return nil, err
	}
	ret := make([]T, len(elems))
	copy(ret, elems)
	s.log.V(5).Info("materialized", "op", s.lineage.Label(), "size", len(ret))
	return ret, nil
}

// Count returns the number of elements.
func (s *Sequence[T]) Count() (int, error) {
	if s.err == nil && s.cached {
		return len(s.buf), nil
	}
	n := 0
	if err := s.each(func(T) bool { n++; return true }); err != nil {
		return 0, err
	}
	return n, nil
}

// ElementAt returns the element at the 0-based position n. A negative or out-of-range
// position fails with ErrNoElements.
func (s *Sequence[T]) ElementAt(n int) (T, error) {
	var ret T
	if s.err != nil {
		return ret, s.err
	}
	if n < 0 {
		return ret, newQueryError("elementAt", ErrNoElements, "negative position %d", n)
	}
	found, i := false, 0
	if err := s.each(func(v T) bool {
		if i == n {
			ret, found = v, true
			return false
		}
		i++
		return true
	}); err != nil {
		return ret, err
	}
	if !found {
		return ret, newQueryError("elementAt", ErrNoElements, "position %d is out of range", n)
	}
	return ret, nil
}

// ElementAtOrDefault is like ElementAt but returns the zero value for a position out of range.
func (s *Sequence[T]) ElementAtOrDefault(n int) (T, error) {
	return orDefault(s.ElementAt(n))
}

// First returns the first element satisfying pred, or the first element if pred is nil.
func (s *Sequence[T]) First(pred func(T) bool) (T, error) {
	var ret T
	found := false
	if err := s.each(func(v T) bool {
		if pred == nil || pred(v) {
			ret, found = v, true
			return false
		}
		return true
	}); err != nil {
		return ret, err
	}
	if !found {
		return ret, newQueryError("first", ErrNoElements, "no element satisfies the condition")
	}
	return ret, nil
}

// FirstOrDefault is like First but returns the zero value if there is no such element.
func (s *Sequence[T]) FirstOrDefault(pred func(T) bool) (T, error) {
	return orDefault(s.First(pred))
}

// Last returns the last element satisfying pred, or the last element if pred is nil.
func (s *Sequence[T]) Last(pred func(T) bool) (T, error) {
	var ret T
	elems, err := s.collect()
	if err != nil {
		return ret, err
	}
	for _, v := range slices.Backward(elems) {
		if pred == nil || pred(v) {
			return v, nil
		}
	}
	return ret, newQueryError("last", ErrNoElements, "no element satisfies the condition")
}

// LastOrDefault is like Last but returns the zero value if there is no such element.
func (s *Sequence[T]) LastOrDefault(pred func(T) bool) (T, error) {
	return orDefault(s.Last(pred))
}

// Single returns the only element satisfying pred. It fails with ErrNoMatchingElement if
// there is none and with ErrMoreThanOneMatchingElement if there are several.
func (s *Sequence[T]) Single(pred func(T) bool) (T, error) {
	var ret T
	if pred == nil {
		return ret, newQueryError("single", ErrNullArgument, "predicate must be given")
	}
	matches := 0
	if err := s.each(func(v T) bool {
		if !pred(v) {
			return true
		}
		ret = v
		matches++
		return matches < 2
	}); err != nil {
		var zero T
		return zero, err
	}
	switch matches {
	case 0:
		return ret, newQueryError("single", ErrNoMatchingElement, "no element satisfies the condition")
	case 1:
		return ret, nil
	}
	var zero T
	return zero, newQueryError("single", ErrMoreThanOneMatchingElement,
		"more than one element satisfies the condition")
}

// SingleOrDefault is like Single but returns the zero value if no element matches. Several
// matches still fail.
func (s *Sequence[T]) SingleOrDefault(pred func(T) bool) (T, error) {
	return orDefault(s.Single(pred))
}

// Any reports whether an element satisfies pred. A nil pred tests the truthiness of the
// elements: an element is truthy unless it is nil, false, a zero number or empty. Structs are
// always truthy.
func (s *Sequence[T]) Any(pred func(T) bool) (bool, error) {
	if pred == nil {
		pred = func(v T) bool { return truthy(v) }
	}
	found := false
	if err := s.each(func(v T) bool {
		found = pred(v)
		return !found
	}); err != nil {
		return false, err
	}
	return found, nil
}

// Contains reports whether the sequence holds an element with the key of elem. A nil key
// compares the elements themselves.
func (s *Sequence[T]) Contains(elem T, key func(T) any) (bool, error) {
	if key == nil {
		key = identityKey[T]
	}
	want := canonical(key(elem))
	return s.Any(func(v T) bool { return canonical(key(v)) == want })
}

func orDefault[T any](v T, err error) (T, error) {
	if err != nil && isNoElement(err) {
		var zero T
		return zero, nil
	}
	return v, err
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.UnsafePointer:
		return !rv.IsNil()
	case reflect.Struct:
		return true
	}
	return !rv.IsZero()
}
