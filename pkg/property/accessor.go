// SPDX-License-Identifier: MPL-2.0

package property

import (
	"math"
	"reflect"
)

type (
	// Accessor reads and writes a property's value in storage owned by the
	// host, typically one of its fields. A property with an accessor keeps no
	// value of its own.
	Accessor struct {
		Get func() any
		Set func(value any) error
	}

	// FieldBinder is implemented by owners that expose named fields for
	// properties to bind to with Bind or BoundTo.
	FieldBinder interface {
		PropertyFields() map[string]Accessor
	}
)

// Field returns an Accessor over *ptr. Set accepts values of type T, nil
// (stored as the zero value), and values of the same kind family (integers,
// floats, strings, booleans) that convert to T without loss.
func Field[T any](ptr *T) Accessor {
	return Accessor{
		Get: func() any { return *ptr },
		Set: func(value any) error {
			return assign(ptr, value)
		},
	}
}

func assign[T any](ptr *T, value any) error {
	if value == nil {
		var zero T
		*ptr = zero
		return nil
	}
	if typed, ok := value.(T); ok {
		*ptr = typed
		return nil
	}

	target := reflect.TypeFor[T]()
	rv := reflect.ValueOf(value)
	if !sameFamily(rv.Kind(), target.Kind()) || !rv.Type().ConvertibleTo(target) || !keepsSign(rv, target.Kind()) {
		return &FieldTypeError{Value: value, Field: target.String()}
	}
	converted := rv.Convert(target)
	if back := converted.Convert(rv.Type()); !back.Equal(rv) {
		return &FieldTypeError{Value: value, Field: target.String()}
	}
	*ptr = converted.Interface().(T) //nolint:forcetypeassert // converted to T above
	return nil
}

// keepsSign reports whether rv can be converted to a number of kind k
// without wrapping around zero. The round trip through Convert cannot detect
// that case, since int64(-1) and uint64(MaxUint64) map onto each other.
func keepsSign(rv reflect.Value, k reflect.Kind) bool {
	switch {
	case isUnsigned(k) && (rv.CanInt() && rv.Int() < 0 || rv.CanFloat() && rv.Float() < 0):
		return false
	case isSigned(k) && rv.CanUint() && rv.Uint() > math.MaxInt64:
		return false
	}
	return true
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

type kindFamily uint8

const (
	familyOther kindFamily = iota
	familyNumber
	familyString
	familyBool
)

func familyOf(k reflect.Kind) kindFamily {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return familyNumber
	case reflect.String:
		return familyString
	case reflect.Bool:
		return familyBool
	default:
		return familyOther
	}
}

func sameFamily(a, b reflect.Kind) bool {
	fa := familyOf(a)
	return fa != familyOther && fa == familyOf(b)
}
