// SPDX-License-Identifier: MPL-2.0

package evaluator

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

func coerceClass(r Class, v any) (any, bool) {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	if r.Base != nil && !t.AssignableTo(r.Base) {
		return nil, false
	}
	return t, true
}

func coerceObject(r Object, v any) (any, bool) {
	t := reflect.TypeOf(v)
	if r.Type != nil {
		return v, t.AssignableTo(r.Type)
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Struct:
		return v, true
	}
	return nil, false
}

func coerceCallable(r Callable, v any) (any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, false
	}
	if r.Signature != nil && !rv.Type().AssignableTo(r.Signature) {
		return nil, false
	}
	return v, true
}

func coerceClosure(r Closure, v any) (any, bool) {
	if r.Signature == nil || r.Signature.Kind() != reflect.Func {
		return coerceCallable(Callable{}, v)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() || !rv.Type().ConvertibleTo(r.Signature) {
		return nil, false
	}
	return rv.Convert(r.Signature).Interface(), true
}

func coerceComponent(r Component, v any) (any, bool) {
	if r.Type == nil {
		return nil, false
	}
	if reflect.TypeOf(v).AssignableTo(r.Type) {
		return v, true
	}
	props, ok := stringMap(v)
	if !ok {
		return nil, false
	}
	if r.Build != nil {
		built, err := r.Build(props)
		if err != nil || isNil(built) || !reflect.TypeOf(built).AssignableTo(r.Type) {
			return nil, false
		}
		return built, true
	}
	return decodeComponent(r.Type, props)
}

// decodeComponent decodes props into a freshly allocated value of type t,
// which must be a struct or a pointer to a struct.
func decodeComponent(t reflect.Type, props map[string]any) (any, bool) {
	target := t
	if t.Kind() == reflect.Pointer {
		target = t.Elem()
	}
	if target.Kind() != reflect.Struct {
		return nil, false
	}
	ptr := reflect.New(target)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           ptr.Interface(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, false
	}
	if err := dec.Decode(props); err != nil {
		return nil, false
	}
	if t.Kind() == reflect.Pointer {
		return ptr.Interface(), true
	}
	return ptr.Elem().Interface(), true
}
