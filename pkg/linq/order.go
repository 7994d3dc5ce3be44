package linq

import (
	"slices"
)

// OrderBy sorts the sequence by the keys key derives from the elements. The sort is stable:
// elements with equal keys keep their order. Keys that cannot be compared fail the evaluation
// with ErrType.
func (s *Sequence[T]) OrderBy(key func(T) any) *Sequence[T] {
	return s.orderBy("orderBy", key, false)
}

// OrderByDescending is like OrderBy but sorts in descending key order. Elements with equal
// keys still keep their order.
func (s *Sequence[T]) OrderByDescending(key func(T) any) *Sequence[T] {
	return s.orderBy("orderByDescending", key, true)
}

func (s *Sequence[T]) orderBy(op string, key func(T) any, desc bool) *Sequence[T] {
	if key == nil {
		return derive[T](op, "", nil, s).
			withErr(newQueryError(op, ErrNullArgument, "key selector must be given"))
	}
	return derive(op, "", func(yield func(T) bool) error {
		elems, err := s.collect()
		if err != nil {
			return err
		}
		keys := make([]any, len(elems))
		for i, v := range elems {
			keys[i] = key(v)
		}
		perm, err := stableOrder(keys, desc)
		if err != nil {
			return &QueryError{Op: op, Kind: ErrType, Message: err.Error()}
		}
		for _, i := range perm {
			if !yield(elems[i]) {
				return nil
			}
		}
		return nil
	}, s)
}

// stableOrder returns the permutation that stably sorts keys.
func stableOrder(keys []any, desc bool) ([]int, error) {
	perm := make([]int, len(keys))
	for i := range perm {
		perm[i] = i
	}
	var cerr error
	slices.SortStableFunc(perm, func(i, j int) int {
		if cerr != nil {
			return 0
		}
		c, err := compareKeys(keys[i], keys[j])
		if err != nil {
			cerr = err
			return 0
		}
		if desc {
			return -c
		}
		return c
	})
	if cerr != nil {
		return nil, cerr
	}
	return perm, nil
}
