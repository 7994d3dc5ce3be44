package linq

// Join correlates the elements of outer and inner by equal keys and returns the matching
// pairs. The result is in nested-loop order: outer order first, inner order within. Nil key
// selectors use the element itself as the key. The inner argument is coerced to a sequence,
// see From; a non-coercible inner fails with ErrType.
func Join[O, I any](outer *Sequence[O], inner any, outerKey func(O) any, innerKey func(I) any) *Sequence[Pair[O, I]] {
	return JoinWith(outer, inner, outerKey, innerKey, func(o O, i I) Pair[O, I] {
		return Pair[O, I]{First: o, Second: i}
	})
}

// JoinWith is like Join but projects each matching pair with result. A nil result yields the
// Pair, which must then be assignable to R.
func JoinWith[O, I, R any](outer *Sequence[O], inner any, outerKey func(O) any, innerKey func(I) any, result func(O, I) R) *Sequence[R] {
	in := coerce[I](inner, "inner")
	if outerKey == nil {
		outerKey = identityKey[O]
	}
	if innerKey == nil {
		innerKey = identityKey[I]
	}
	emit := func(o O, i I) (R, error) { return result(o, i), nil }
	if result == nil {
		emit = func(o O, i I) (R, error) { return convert[R]("join", Pair[O, I]{First: o, Second: i}) }
	}

	return derive("join", "", func(yield func(R) bool) error {
		ix := newKeyIndex[I]()
		if err := in.each(func(v I) bool {
			ix.add(innerKey(v), v)
			return true
		}); err != nil {
			return err
		}

		var rerr error
		if err := outer.each(func(o O) bool {
			e := ix.lookup(outerKey(o))
			if e == nil {
				return true
			}
			for _, i := range e.values {
				r, err := emit(o, i)
				if err != nil {
					rerr = err
					return false
				}
				if !yield(r) {
					return false
				}
			}
			return true
		}); err != nil {
			return err
		}
		return rerr
	}, outer, in)
}

// GroupJoin groups the outer elements by outer key and correlates each group with the inner
// elements of equal key. Each group yields its first outer element and the matching inner
// elements in inner order (an empty sequence if there is none). Groups are ordered as in
// GroupBy.
func GroupJoin[O, I any](outer *Sequence[O], inner any, outerKey func(O) any, innerKey func(I) any) *Sequence[Pair[O, *Sequence[I]]] {
	return GroupJoinWith(outer, inner, outerKey, innerKey, func(o O, is *Sequence[I]) Pair[O, *Sequence[I]] {
		return Pair[O, *Sequence[I]]{First: o, Second: is}
	})
}

// GroupJoinWith is like GroupJoin but projects each group with result. A nil result yields
// the Pair, which must then be assignable to R.
func GroupJoinWith[O, I, R any](outer *Sequence[O], inner any, outerKey func(O) any, innerKey func(I) any, result func(O, *Sequence[I]) R) *Sequence[R] {
	in := coerce[I](inner, "inner")
	if outerKey == nil {
		outerKey = identityKey[O]
	}
	if innerKey == nil {
		innerKey = identityKey[I]
	}
	emit := func(o O, is *Sequence[I]) (R, error) { return result(o, is), nil }
	if result == nil {
		emit = func(o O, is *Sequence[I]) (R, error) {
			return convert[R]("groupJoin", Pair[O, *Sequence[I]]{First: o, Second: is})
		}
	}

	var ret *Sequence[R]
	ret = derive("groupJoin", "", func(yield func(R) bool) error {
		groups, err := groupElements(outer, nil, outerKey, ret.lineage)
		if err != nil {
			return err
		}

		ix := newKeyIndex[I]()
		if err := in.each(func(v I) bool {
			ix.add(innerKey(v), v)
			return true
		}); err != nil {
			return err
		}

		for _, g := range groups {
			var matches []I
			if e := ix.lookup(g.raw); e != nil {
				matches = e.values
			}
			r, err := emit(g.buf[0], materialized(matches, ret.log,
				newLineage("matches", canonical(g.raw), ret.lineage)))
			if err != nil {
				return err
			}
			if !yield(r) {
				return nil
			}
		}
		return nil
	}, outer, in)
	return ret
}
