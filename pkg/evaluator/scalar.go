// SPDX-License-Identifier: MPL-2.0

package evaluator

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/invowk/kit/pkg/memo"

	"github.com/docker/go-units"
)

var (
	falseTokens = map[string]struct{}{"0": {}, "f": {}, "false": {}, "off": {}, "no": {}}
	trueTokens  = map[string]struct{}{"1": {}, "t": {}, "true": {}, "on": {}, "yes": {}}
)

func coerceBoolean(v any) (any, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch rv.Int() {
		case 0:
			return false, true
		case 1:
			return true, true
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		switch rv.Uint() {
		case 0:
			return false, true
		case 1:
			return true, true
		}
	case reflect.Float32, reflect.Float64:
		switch rv.Float() {
		case 0:
			return false, true
		case 1:
			return true, true
		}
	case reflect.String:
		token := strings.ToLower(strings.TrimSpace(rv.String()))
		if _, ok := falseTokens[token]; ok {
			return false, true
		}
		if _, ok := trueTokens[token]; ok {
			return true, true
		}
	case reflect.Bool:
		return rv.Bool(), true
	}
	return nil, false
}

// toNumber normalizes numeric values to int64 or float64.
func toNumber(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return float64(u), true
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	case reflect.String:
		return parseNumber(rv.String())
	}
	return nil, false
}

// parseNumber accepts decimal, exponential, prefixed (0x, 0o, 0b, leading 0
// octal) and human-suffixed ("1.5k", "2M") notations.
func parseNumber(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	}
	if n, ok := exactSize(s, units.FromHumanSize); ok {
		return n, true
	}
	return nil, false
}

// exactSize parses a human-readable size with parse and recomputes it with
// exact decimal arithmetic. Sizes that do not come to a whole number, such
// as "1.5" bytes or "1.2345k", are rejected instead of truncated.
func exactSize(s string, parse func(string) (int64, error)) (int64, bool) {
	if _, err := parse(s); err != nil {
		return 0, false
	}
	num, suffix := s, ""
	if i := strings.IndexFunc(s, func(r rune) bool { return r != '.' && (r < '0' || r > '9') }); i >= 0 {
		num, suffix = s[:i], s[i:]
	}
	unit, err := parse("1" + suffix)
	if err != nil {
		return 0, false
	}
	size, ok := new(big.Rat).SetString(num)
	if !ok {
		return 0, false
	}
	size.Mul(size, new(big.Rat).SetInt64(unit))
	if !size.IsInt() || !size.Num().IsInt64() {
		return 0, false
	}
	return size.Num().Int64(), true
}

func coerceInteger(r Integer, v any) (any, bool) {
	n, ok := toNumber(v)
	if !ok {
		return nil, false
	}
	var i int64
	switch n := n.(type) {
	case int64:
		i = n
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return nil, false
		}
		i = int64(n)
	}

	bits := r.Bits
	if bits == 0 || bits > 64 {
		bits = 64
	}
	switch {
	case r.Unsigned && i < 0:
		return nil, false
	case r.Unsigned && bits < 64 && i > int64(1)<<bits-1:
		return nil, false
	case !r.Unsigned && bits < 64 && (i < -(int64(1)<<(bits-1)) || i > int64(1)<<(bits-1)-1):
		return nil, false
	}
	return i, true
}

func coerceFloat(v any) (any, bool) {
	n, ok := toNumber(v)
	if !ok {
		return nil, false
	}
	switch n := n.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return nil, false
}

func coerceSize(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		n, ok := exactSize(strings.TrimSpace(rv.String()), units.RAMInBytes)
		if !ok || n < 0 {
			return nil, false
		}
		return n, true
	}
	n, ok := coerceInteger(Integer{Unsigned: true}, v)
	if !ok {
		return nil, false
	}
	return n, true
}

func coerceString(r String, v any) (any, bool) {
	s, ok := stringOf(v)
	if !ok {
		return nil, false
	}
	if r.Trim {
		s = strings.TrimSpace(s)
	}
	if r.NonEmpty && s == "" {
		return nil, false
	}
	if r.Pattern != "" {
		re, err := compilePattern(r.Pattern)
		if err != nil || !re.MatchString(s) {
			return nil, false
		}
	}
	return s, true
}

func stringOf(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	case fmt.Stringer:
		return s.String(), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	}
	return "", false
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	return memo.Get(memo.For[String](), pattern, func() (*regexp.Regexp, error) {
		return regexp.Compile(pattern)
	})
}
