package linq

// Union concatenates other to s, see Concat, and keeps the first element of each key.
func (s *Sequence[T]) Union(other any, key func(T) any) *Sequence[T] {
	return s.Concat(other).Distinct(key)
}

// Intersect keeps the elements of s whose key occurs in other, deduplicated by key in order
// of first occurrence in s.
func (s *Sequence[T]) Intersect(other any, key func(T) any) *Sequence[T] {
	o := coerce[T](other, "other")
	if key == nil {
		key = identityKey[T]
	}
	return derive("intersect", "", func(yield func(T) bool) error {
		keys := newKeyIndex[struct{}]()
		if err := o.each(func(v T) bool {
			keys.entry(key(v), true)
			return true
		}); err != nil {
			return err
		}
		seen := newKeyIndex[struct{}]()
		return s.each(func(v T) bool {
			k := key(v)
			if keys.lookup(k) == nil {
				return true
			}
			if _, created := seen.entry(k, true); !created {
				return true
			}
			return yield(v)
		})
	}, s, o)
}

// Except removes the elements of s whose key belongs to the members of other that also occur
// in s. Membership in both sequences is decided by element identity, and only the key of the
// common elements is matched against the keys of s: an element of other that equals no
// element of s removes nothing, even if its key matches.
func (s *Sequence[T]) Except(other any, key func(T) any) *Sequence[T] {
	o := coerce[T](other, "other")
	if key == nil {
		key = identityKey[T]
	}
	return derive("except", "", func(yield func(T) bool) error {
		members := newKeyIndex[struct{}]()
		if err := o.Intersect(s, nil).each(func(v T) bool {
			members.entry(key(v), true)
			return true
		}); err != nil {
			return err
		}

		elems, err := s.collect()
		if err != nil {
			return err
		}
		keep := make([]bool, len(elems))
		for i, v := range elems {
			keep[i] = members.lookup(key(v)) == nil
		}
		for i, v := range elems {
			if keep[i] && !yield(v) {
				return nil
			}
		}
		return nil
	}, s, o)
}
