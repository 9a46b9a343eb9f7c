// SPDX-License-Identifier: MPL-2.0

package evaluator

import (
	"reflect"
	"slices"
	"strings"
)

func coerceArray(r Array, v any) (any, bool) {
	items, ok := sliceOf(v)
	if !ok || (r.NonEmpty && len(items) == 0) {
		return nil, false
	}
	return items, true
}

func coerceVector(r Vector, v any) (any, bool) {
	items, ok := sliceOf(v)
	if !ok {
		return nil, false
	}
	if len(items) < r.MinLen || (r.MaxLen > 0 && len(items) > r.MaxLen) {
		return nil, false
	}
	if r.Element == nil {
		return items, true
	}
	for i, item := range items {
		out, ok := Coerce(r.Element, item)
		if !ok {
			return nil, false
		}
		items[i] = out
	}
	return items, true
}

func coerceEnumValue(r EnumValue, v any) (any, bool) {
	for _, candidate := range r.Values {
		if reflect.DeepEqual(candidate, v) {
			return v, true
		}
	}
	return nil, false
}

func coerceEnumName(r EnumName, v any) (any, bool) {
	s, ok := v.(string)
	if !ok {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.String {
			return nil, false
		}
		s = rv.String()
	}
	for _, name := range r.Names {
		if name == s || (r.CaseInsensitive && strings.EqualFold(name, s)) {
			return name, true
		}
	}
	return nil, false
}

func coerceOptions(r Options, v any) (any, bool) {
	m, ok := stringMap(v)
	if !ok {
		return nil, false
	}
	if len(r.Keys) > 0 {
		for k := range m {
			if !slices.Contains(r.Keys, k) {
				return nil, false
			}
		}
	}
	return m, true
}

func coerceStructure(r Structure, v any) (any, bool) {
	m, ok := stringMap(v)
	if !ok {
		return nil, false
	}
	for _, name := range r.Required {
		if _, present := m[name]; !present {
			return nil, false
		}
	}
	for k, field := range m {
		rule, declared := r.Fields[k]
		if !declared {
			if !r.AllowExtra {
				return nil, false
			}
			continue
		}
		if rule == nil {
			continue
		}
		out, ok := Coerce(rule, field)
		if !ok {
			return nil, false
		}
		m[k] = out
	}
	return m, true
}

func coerceDictionary(r Dictionary, v any) (any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().Interface()
		if r.Key != nil {
			coerced, ok := Coerce(r.Key, key)
			if !ok {
				return nil, false
			}
			key = coerced
		}
		ks, ok := key.(string)
		if !ok {
			kv := reflect.ValueOf(key)
			if !kv.IsValid() || kv.Kind() != reflect.String {
				return nil, false
			}
			ks = kv.String()
		}

		value := iter.Value().Interface()
		if r.Value != nil {
			coerced, ok := Coerce(r.Value, value)
			if !ok {
				return nil, false
			}
			value = coerced
		}
		out[ks] = value
	}
	return out, true
}

// sliceOf copies any slice or array into a fresh []any.
func sliceOf(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// stringMap copies any map with string-kinded keys into a fresh map[string]any.
func stringMap(v any) (map[string]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
