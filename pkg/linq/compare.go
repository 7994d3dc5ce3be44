package linq

import (
	"cmp"
	"reflect"
	"time"
)

// Comparer is implemented by values that define their own ordering. Compare returns a
// negative number, zero or a positive number if the receiver sorts before, together with or
// after other.
type Comparer interface {
	Compare(other any) int
}

// compareKeys orders two key values. Numbers of any kind compare by value, strings lexically,
// booleans false before true, times chronologically, and slices and arrays lexicographically.
// Nil sorts first. Other combinations are incomparable.
func compareKeys(a, b any) (int, error) {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0, nil
		case a == nil:
			return -1, nil
		default:
			return 1, nil
		}
	}

	if c, ok := a.(Comparer); ok {
		return c.Compare(b), nil
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb), nil
		}
		return 0, incomparable(a, b)
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	ka, kb := kindOf(va), kindOf(vb)
	if ka.numeric() && kb.numeric() {
		return compareNumbers(va, vb), nil
	}
	if ka != kb || ka == otherKind {
		return 0, incomparable(a, b)
	}

	switch ka {
	case stringKind:
		return cmp.Compare(va.String(), vb.String()), nil
	case boolKind:
		x, y := va.Bool(), vb.Bool()
		switch {
		case x == y:
			return 0, nil
		case !x:
			return -1, nil
		default:
			return 1, nil
		}
	case listKind:
		for i := range min(va.Len(), vb.Len()) {
			c, err := compareKeys(va.Index(i).Interface(), vb.Index(i).Interface())
			if err != nil || c != 0 {
				return c, err
			}
		}
		return cmp.Compare(va.Len(), vb.Len()), nil
	}

	return 0, incomparable(a, b)
}

type valueKind int

const (
	otherKind valueKind = iota
	intKind
	uintKind
	floatKind
	stringKind
	boolKind
	listKind
)

func kindOf(v reflect.Value) valueKind {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intKind
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintKind
	case reflect.Float32, reflect.Float64:
		return floatKind
	case reflect.String:
		return stringKind
	case reflect.Bool:
		return boolKind
	case reflect.Slice, reflect.Array:
		return listKind
	}
	return otherKind
}

func (k valueKind) numeric() bool { return k == intKind || k == uintKind || k == floatKind }

func compareNumbers(a, b reflect.Value) int {
	ka, kb := kindOf(a), kindOf(b)
	switch {
	case ka == intKind && kb == intKind:
		return cmp.Compare(a.Int(), b.Int())
	case ka == uintKind && kb == uintKind:
		return cmp.Compare(a.Uint(), b.Uint())
	}
	return cmp.Compare(toFloat(a), toFloat(b))
}

func toFloat(v reflect.Value) float64 {
	switch kindOf(v) {
	case intKind:
		return float64(v.Int())
	case uintKind:
		return float64(v.Uint())
	}
	return v.Float()
}

func incomparable(a, b any) error {
	return newQueryError("compare", ErrType, "cannot compare %T with %T", a, b)
}
