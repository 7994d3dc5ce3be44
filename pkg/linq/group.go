package linq

import (
	"strings"
)

func identityKey[T any](v T) any { return v }

// GroupBy groups the elements of s by the key computed by key (the element itself if nil).
// The groups are emitted in ascending key order if the keys can be ordered, and in order of
// first appearance otherwise. The key value is bound to keyNames to form the group's Key: a
// composite key (Tuple or slice) is bound positionally, a scalar key is bound to every name.
func GroupBy[T any](s *Sequence[T], keyNames []string, key func(T) any) *Sequence[*Grouping[T]] {
	if key == nil {
		key = identityKey[T]
	}
	names := append([]string(nil), keyNames...)
	var ret *Sequence[*Grouping[T]]
	ret = derive("groupBy", strings.Join(names, ","), func(yield func(*Grouping[T]) bool) error {
		groups, err := groupElements(s, names, key, ret.lineage)
		if err != nil {
			return err
		}
		for _, g := range groups {
			if !yield(g) {
				return nil
			}
		}
		return nil
	}, s)
	return ret
}

// GroupBySelect groups like GroupBy and projects each group with result. A nil result is the
// identity projection and requires *Grouping[T] to be assignable to R.
func GroupBySelect[T, R any](s *Sequence[T], keyNames []string, key func(T) any, result func(*Grouping[T]) R) *Sequence[R] {
	return Select(GroupBy(s, keyNames, key), result)
}

// groupElements partitions s by key, ordering the groups by key when possible.
func groupElements[T any](s *Sequence[T], names []string, key func(T) any, lineage *Lineage) ([]*Grouping[T], error) {
	elems, err := s.collect()
	if err != nil {
		return nil, err
	}

	keys := make([]any, len(elems))
	for i, v := range elems {
		keys[i] = key(v)
	}

	perm, err := stableOrder(keys, false)
	if err != nil {
		s.log.V(2).Info("groupBy: keys cannot be ordered, keeping input order",
			"op", lineage.Label(), "error", err.Error())
		perm = make([]int, len(keys))
		for i := range perm {
			perm[i] = i
		}
	}

	ix := newKeyIndex[T]()
	for _, i := range perm {
		ix.add(keys[i], elems[i])
	}

	groups := make([]*Grouping[T], 0, len(ix.entries()))
	for _, e := range ix.entries() {
		k, err := newKey(names, e.key)
		if err != nil {
			return nil, err
		}
		groups = append(groups, newGrouping(k, e.key, e.values, s.log, lineage))
	}

	s.log.V(5).Info("groupBy: ready", "op", lineage.Label(), "elements", len(elems),
		"groups", len(groups))

	return groups, nil
}

// Distinct keeps the first element of each key (the element itself if key is nil), in order
// of first occurrence.
func (s *Sequence[T]) Distinct(key func(T) any) *Sequence[T] {
	if key == nil {
		key = identityKey[T]
	}
	return derive("distinct", "", func(yield func(T) bool) error {
		seen := newKeyIndex[struct{}]()
		return s.each(func(v T) bool {
			if _, created := seen.entry(key(v), true); !created {
				return true
			}
			return yield(v)
		})
	}, s)
}
