package linq

import (
	"reflect"
	"strconv"
)

// Select projects each element of s with f. A nil f is the identity projection: every element
// must then be assignable to U, otherwise the evaluation fails with ErrType.
func Select[T, U any](s *Sequence[T], f func(T) U) *Sequence[U] {
	if f != nil {
		return derive("select", "", func(yield func(U) bool) error {
			return s.each(func(v T) bool { return yield(f(v)) })
		}, s)
	}

	return derive("select", "identity", func(yield func(U) bool) error {
		var cerr error
		if err := s.each(func(v T) bool {
			u, err := convert[U]("select", v)
			if err != nil {
				cerr = err
				return false
			}
			return yield(u)
		}); err != nil {
			return err
		}
		return cerr
	}, s)
}

// Select projects each element with f, keeping the element type. A nil f is the identity.
func (s *Sequence[T]) Select(f func(T) T) *Sequence[T] {
	if f == nil {
		f = func(v T) T { return v }
	}
	return Select(s, f)
}

// Where filters the sequence by pred, keeping the order of the elements.
func (s *Sequence[T]) Where(pred func(T) bool) *Sequence[T] {
	if pred == nil {
		return derive[T]("where", "", nil, s).
			withErr(newQueryError("where", ErrNullArgument, "predicate must be given"))
	}
	return derive("where", "", func(yield func(T) bool) error {
		return s.each(func(v T) bool { return !pred(v) || yield(v) })
	}, s)
}

// WhereErr is like Where for a predicate that may fail. The first failure stops the
// evaluation and is reported by the terminal operator.
func (s *Sequence[T]) WhereErr(pred func(T) (bool, error)) *Sequence[T] {
	if pred == nil {
		return derive[T]("where", "", nil, s).
			withErr(newQueryError("where", ErrNullArgument, "predicate must be given"))
	}
	return derive("where", "", func(yield func(T) bool) error {
		var perr error
		if err := s.each(func(v T) bool {
			ok, err := pred(v)
			if err != nil {
				perr = err
				return false
			}
			return !ok || yield(v)
		}); err != nil {
			return err
		}
		return perr
	}, s)
}

// Skip bypasses the first n elements.
func (s *Sequence[T]) Skip(n int) *Sequence[T] {
	if n < 0 {
		return derive[T]("skip", strconv.Itoa(n), nil, s).
			withErr(newQueryError("skip", ErrInvalidArgument, "count must not be negative: %d", n))
	}
	return derive("skip", strconv.Itoa(n), func(yield func(T) bool) error {
		i := 0
		return s.each(func(v T) bool {
			if i < n {
				i++
				return true
			}
			return yield(v)
		})
	}, s)
}

// Take returns the first n elements. The upstream is not pulled beyond the n-th element.
func (s *Sequence[T]) Take(n int) *Sequence[T] {
	if n < 0 {
		return derive[T]("take", strconv.Itoa(n), nil, s).
			withErr(newQueryError("take", ErrInvalidArgument, "count must not be negative: %d", n))
	}
	return derive("take", strconv.Itoa(n), func(yield func(T) bool) error {
		if n == 0 {
			return nil
		}
		i := 0
		return s.each(func(v T) bool {
			if !yield(v) {
				return false
			}
			i++
			return i < n
		})
	}, s)
}

// SelectMany projects each element to a sequence and flattens the results. The projected
// values must be coercible to a sequence of U, see From. A nil f projects the element itself.
func SelectMany[T, U any](s *Sequence[T], f func(T) any) *Sequence[U] {
	if f == nil {
		f = func(v T) any { return v }
	}
	return derive("selectMany", "", func(yield func(U) bool) error {
		var ierr error
		if err := s.each(func(v T) bool {
			cont := true
			if err := coerce[U](f(v), "selector result").each(func(u U) bool {
				cont = yield(u)
				return cont
			}); err != nil {
				ierr = err
				return false
			}
			return cont
		}); err != nil {
			return err
		}
		return ierr
	}, s)
}

// Concat appends the elements of other after the elements of s. The evaluation fails with
// ErrType if an element of other differs in dynamic type from any element of s. The check
// compares every element of other against every element of s before the first element is
// yielded.
func (s *Sequence[T]) Concat(other any) *Sequence[T] {
	o := coerce[T](other, "other")
	return derive("concat", "", func(yield func(T) bool) error {
		if err := sameTypes(s, o); err != nil {
			return err
		}
		cont := true
		if err := s.each(func(v T) bool {
			cont = yield(v)
			return cont
		}); err != nil || !cont {
			return err
		}
		return o.each(yield)
	}, s, o)
}

// sameTypes checks that each element of o has the dynamic type of every element of s.
func sameTypes[T any](s, o *Sequence[T]) error {
	if reflect.TypeFor[T]().Kind() != reflect.Interface {
		// all elements share the static type
		return nil
	}
	var terr error
	if err := o.each(func(w T) bool {
		want := reflect.TypeOf(any(w))
		if err := s.each(func(v T) bool {
			if got := reflect.TypeOf(any(v)); got != want {
				terr = newQueryError("concat", ErrType,
					"cannot concatenate element of type %v to a sequence holding %v", want, got)
				return false
			}
			return true
		}); err != nil {
			terr = err
		}
		return terr == nil
	}); err != nil {
		return err
	}
	return terr
}

// Add appends a single element. An absent element (nil) leaves the sequence unchanged.
func (s *Sequence[T]) Add(elem T) *Sequence[T] {
	if isNil(elem) {
		return s
	}
	ret := s.Concat(Of(elem))
	ret.lineage.Op = "add"
	return ret
}

// Reverse yields the elements in reverse order.
func (s *Sequence[T]) Reverse() *Sequence[T] {
	return derive("reverse", "", func(yield func(T) bool) error {
		elems, err := s.collect()
		if err != nil {
			return err
		}
		for i := len(elems) - 1; i >= 0; i-- {
			if !yield(elems[i]) {
				return nil
			}
		}
		return nil
	}, s)
}

// DefaultIfEmpty yields value (the zero value if omitted) if the sequence is empty, and the
// elements of the sequence otherwise.
func (s *Sequence[T]) DefaultIfEmpty(value ...T) *Sequence[T] {
	var def T
	if len(value) > 0 {
		def = value[0]
	}
	return derive("defaultIfEmpty", "", func(yield func(T) bool) error {
		empty := true
		if err := s.each(func(v T) bool {
			empty = false
			return yield(v)
		}); err != nil || !empty {
			return err
		}
		yield(def)
		return nil
	}, s)
}

// ForEach evaluates the sequence and calls action on each element in order. It returns the
// receiver; an evaluation failure is reported by Err.
func (s *Sequence[T]) ForEach(action func(T)) *Sequence[T] {
	if action == nil {
		return s
	}
	_ = s.each(func(v T) bool {
		action(v)
		return true
	})
	return s
}
