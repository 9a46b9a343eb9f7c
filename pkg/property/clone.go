// SPDX-License-Identifier: MPL-2.0

package property

import "reflect"

// cloneValue copies maps and slices recursively, looking through interface
// elements. Pointers, structs and scalars are returned as is.
func cloneValue(v any) any {
	if v == nil {
		return nil
	}
	return cloneReflect(reflect.ValueOf(v)).Interface()
}

func cloneReflect(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneElem(iter.Value()))
		}
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			out.Index(i).Set(cloneElem(rv.Index(i)))
		}
		return out
	default:
		return rv
	}
}

func cloneElem(rv reflect.Value) reflect.Value {
	if rv.Kind() != reflect.Interface || rv.IsNil() {
		return cloneReflect(rv)
	}
	out := reflect.New(rv.Type()).Elem()
	out.Set(cloneReflect(rv.Elem()))
	return out
}
