// SPDX-License-Identifier: MPL-2.0

package evaluator

import (
	"math"
	"reflect"
	"slices"
	"strings"
	"time"
)

var builtinLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	time.DateOnly,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
}

func coerceDateTime(r DateTime, v any) (any, bool) {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}

	if t, ok := v.(time.Time); ok {
		return t.In(loc), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fromUnix(v, loc)
	case reflect.String:
		s := strings.TrimSpace(rv.String())
		if s == "" {
			return nil, false
		}
		if t, ok := fromUnix(s, loc); ok {
			return t, true
		}
		for _, layout := range append(slices.Clone(r.Layouts), builtinLayouts...) {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t.In(loc), true
			}
		}
	}
	return nil, false
}

func fromUnix(v any, loc *time.Location) (any, bool) {
	n, ok := toNumber(v)
	if !ok {
		return nil, false
	}
	switch n := n.(type) {
	case int64:
		return time.Unix(n, 0).In(loc), true
	case float64:
		sec, frac := math.Modf(n)
		return time.Unix(int64(sec), int64(frac*1e9)).In(loc), true
	}
	return nil, false
}
