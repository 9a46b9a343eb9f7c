// SPDX-License-Identifier: MPL-2.0

package evaluator

import "reflect"

// Of adapts rule r into an evaluator Func.
func Of(r Rule) Func {
	return func(value *any) bool {
		out, ok := Coerce(r, *value)
		if ok {
			*value = out
		}
		return ok
	}
}

// Coerce validates v against rule r and returns its canonical form.
// Nil values (untyped nil or nil pointers) are accepted, as nil, only by
// nullable rules.
func Coerce(r Rule, v any) (any, bool) {
	if r == nil {
		return nil, false
	}
	if isNil(v) {
		return nil, r.nullable()
	}

	switch r := r.(type) {
	case Boolean:
		return coerceBoolean(v)
	case Number:
		return toNumber(v)
	case Integer:
		return coerceInteger(r, v)
	case Float:
		return coerceFloat(v)
	case Size:
		return coerceSize(v)
	case String:
		return coerceString(r, v)
	case Class:
		return coerceClass(r, v)
	case Object:
		return coerceObject(r, v)
	case Callable:
		return coerceCallable(r, v)
	case Closure:
		return coerceClosure(r, v)
	case Array:
		return coerceArray(r, v)
	case EnumValue:
		return coerceEnumValue(r, v)
	case EnumName:
		return coerceEnumName(r, v)
	case Hash:
		return coerceHash(r, v)
	case UUID:
		return coerceUUID(v)
	case DateTime:
		return coerceDateTime(r, v)
	case Component:
		return coerceComponent(r, v)
	case Options:
		return coerceOptions(r, v)
	case Structure:
		return coerceStructure(r, v)
	case Dictionary:
		return coerceDictionary(r, v)
	case Vector:
		return coerceVector(r, v)
	}
	return nil, false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
