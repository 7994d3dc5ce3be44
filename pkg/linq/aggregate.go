package linq

import (
	"cmp"
	"math"
	"reflect"
	"slices"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/stat"
)

// Number is the constraint of the numeric aggregates.
type Number interface {
	constraints.Integer | constraints.Float
}

// project evaluates s and applies f to each element. A nil f converts the elements to K.
func project[T, K any](s *Sequence[T], op string, f func(T) K) ([]K, error) {
	var ret []K
	var cerr error
	if err := s.each(func(v T) bool {
		if f != nil {
			ret = append(ret, f(v))
			return true
		}
		k, err := convertNumeric[K](op, v)
		if err != nil {
			cerr = err
			return false
		}
		ret = append(ret, k)
		return true
	}); err != nil {
		return nil, err
	}
	return ret, cerr
}

// convertNumeric is like convert but also converts between numeric kinds.
func convertNumeric[K any](op string, v any) (K, error) {
	if k, ok := as[K](v); ok {
		return k, nil
	}
	var zero K
	rv, kt := reflect.ValueOf(v), reflect.TypeFor[K]()
	if v != nil && kindOf(rv).numeric() && kindOf(reflect.Zero(kt)).numeric() {
		out := rv.Convert(kt)
		if !lossless(rv, out) {
			return zero, newQueryError(op, ErrType, "element %v cannot be represented as %s",
				v, typeName[K]())
		}
		return out.Interface().(K), nil
	}
	return zero, newQueryError(op, ErrType, "element of type %T is not a %s", v, typeName[K]())
}

// lossless reports whether out holds the same number as in.
func lossless(in, out reflect.Value) bool {
	if out.CanUint() {
		switch {
		case in.CanInt() && in.Int() < 0:
			return false
		case in.CanFloat() && in.Float() < 0:
			return false
		}
	}
	if in.CanFloat() && math.IsNaN(in.Float()) {
		return out.CanFloat()
	}
	return out.Convert(in.Type()).Equal(in)
}

// Sum returns the sum of the values f projects from the elements. The sum of an empty
// sequence is 0.
func Sum[T any, N Number](s *Sequence[T], f func(T) N) (N, error) {
	vals, err := project(s, "sum", f)
	if err != nil {
		return 0, err
	}
	var total N
	for _, v := range vals {
		total += v
	}
	return total, nil
}

// Min returns the smallest value f projects from the elements. An empty sequence fails with
// ErrNoElements.
func Min[T any, K cmp.Ordered](s *Sequence[T], f func(T) K) (K, error) {
	vals, err := nonEmpty(s, "min", f)
	if err != nil {
		var zero K
		return zero, err
	}
	return slices.Min(vals), nil
}

// Max returns the largest value f projects from the elements. An empty sequence fails with
// ErrNoElements.
func Max[T any, K cmp.Ordered](s *Sequence[T], f func(T) K) (K, error) {
	vals, err := nonEmpty(s, "max", f)
	if err != nil {
		var zero K
		return zero, err
	}
	return slices.Max(vals), nil
}

// Avg returns the arithmetic mean of the values f projects from the elements. An empty
// sequence fails with ErrNoElements.
func Avg[T any, N Number](s *Sequence[T], f func(T) N) (float64, error) {
	vals, err := nonEmpty(s, "avg", f)
	if err != nil {
		return 0, err
	}
	return stat.Mean(floats(vals), nil), nil
}

// Median returns the middle value of the sorted projections, or the mean of the two middle
// values for an even count. An empty sequence fails with ErrNoElements.
func Median[T any, N Number](s *Sequence[T], f func(T) N) (float64, error) {
	vals, err := nonEmpty(s, "median", f)
	if err != nil {
		return 0, err
	}
	slices.Sort(vals)
	n := len(vals)
	if n%2 == 1 {
		return float64(vals[n/2]), nil
	}
	return (float64(vals[n/2-1]) + float64(vals[n/2])) / 2, nil
}

func nonEmpty[T, K any](s *Sequence[T], op string, f func(T) K) ([]K, error) {
	vals, err := project(s, op, f)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, newQueryError(op, ErrNoElements, "cannot compute %s of an empty sequence", op)
	}
	return vals, nil
}

func floats[N Number](vals []N) []float64 {
	ret := make([]float64, len(vals))
	for i, v := range vals {
		ret[i] = float64(v)
	}
	return ret
}
