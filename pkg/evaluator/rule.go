// SPDX-License-Identifier: MPL-2.0

package evaluator

import (
	"errors"
	"fmt"
	"reflect"
	"time"
)

const (
	// KindBoolean accepts booleans and boolean-like numbers and tokens.
	KindBoolean    Kind = "boolean"
	// KindNumber accepts integers and floats, normalized to int64 or float64.
	KindNumber     Kind = "number"
	// KindInteger accepts whole numbers within a signedness and bit width.
	KindInteger    Kind = "integer"
	// KindFloat accepts any number as float64.
	KindFloat      Kind = "float"
	// KindSize accepts byte counts, including binary-suffixed strings such as "1.5GiB".
	KindSize       Kind = "size"
	// KindString accepts strings and values with a string form.
	KindString     Kind = "string"
	// KindClass accepts reflect.Type values, optionally assignable to a base type.
	KindClass      Kind = "class"
	// KindObject accepts struct and pointer values, optionally of a given type.
	KindObject     Kind = "object"
	// KindCallable accepts non-nil functions, optionally of a given signature.
	KindCallable   Kind = "callable"
	// KindClosure accepts functions convertible to a given signature.
	KindClosure    Kind = "closure"
	// KindArray accepts any slice or array as []any.
	KindArray      Kind = "array"
	// KindEnumValue accepts one of a fixed set of values.
	KindEnumValue  Kind = "enum_value"
	// KindEnumName accepts one of a fixed set of names.
	KindEnumName   Kind = "enum_name"
	// KindHash accepts hex or base64 digests of a given bit length.
	KindHash       Kind = "hash"
	// KindUUID accepts UUIDs in any notation, canonicalized to strings.
	KindUUID       Kind = "uuid"
	// KindDateTime accepts times, Unix timestamps and formatted date strings.
	KindDateTime   Kind = "datetime"
	// KindComponent accepts values of a given type or maps that build one.
	KindComponent  Kind = "component"
	// KindOptions accepts string-keyed maps, optionally limited to known keys.
	KindOptions    Kind = "options"
	// KindStructure accepts string-keyed maps with typed and required fields.
	KindStructure  Kind = "structure"
	// KindDictionary accepts maps with typed keys and values.
	KindDictionary Kind = "dictionary"
	// KindVector accepts slices with typed elements and length bounds.
	KindVector     Kind = "vector"
)

// ErrInvalidKind is the sentinel error wrapped by InvalidKindError.
var ErrInvalidKind = errors.New("invalid rule kind")

var kinds = []Kind{
	KindBoolean, KindNumber, KindInteger, KindFloat, KindSize, KindString,
	KindClass, KindObject, KindCallable, KindClosure, KindArray,
	KindEnumValue, KindEnumName, KindHash, KindUUID, KindDateTime,
	KindComponent, KindOptions, KindStructure, KindDictionary, KindVector,
}

type (
	// Kind names a rule variant.
	Kind string

	// InvalidKindError is returned when a Kind value is not recognized.
	InvalidKindError struct {
		Value Kind
	}

	// Rule is a coercion rule configuration. The set of implementations is
	// closed: only the rule types declared in this package satisfy it.
	Rule interface {
		Kind() Kind
		nullable() bool
	}

	// Boolean accepts bools, 0/1 numbers and the usual on/off string tokens.
	Boolean struct {
		Nullable bool
	}

	// Number accepts any numeric value or numeric string and keeps integers
	// as int64 and everything else as float64.
	Number struct {
		Nullable bool
	}

	// Integer accepts integral numbers inside the range given by Bits
	// (8, 16, 32 or 64; zero means 64) and Unsigned.
	Integer struct {
		Unsigned bool
		Bits     uint8
		Nullable bool
	}

	// Float accepts any numeric value and yields a float64.
	Float struct {
		Nullable bool
	}

	// Size accepts byte sizes such as 512, "1k" or "1.5GiB" using binary
	// multiples and yields an int64 byte count.
	Size struct {
		Nullable bool
	}

	// String accepts textual and scalar values and yields a string.
	String struct {
		NonEmpty bool
		Trim     bool
		// Pattern, when set, is a regular expression the result must match.
		Pattern  string
		Nullable bool
	}

	// Class accepts a reflect.Type, or any value standing for its dynamic
	// type, assignable to Base when Base is set.
	Class struct {
		Base     reflect.Type
		Nullable bool
	}

	// Object accepts values assignable to Type; with a nil Type any pointer
	// or struct value is accepted.
	Object struct {
		Type     reflect.Type
		Nullable bool
	}

	// Callable accepts any non-nil function, matching Signature when set.
	Callable struct {
		Signature reflect.Type
		Nullable  bool
	}

	// Closure accepts functions convertible to Signature and converts them.
	Closure struct {
		Signature reflect.Type
		Nullable  bool
	}

	// Array accepts slices and arrays and yields a []any.
	Array struct {
		NonEmpty bool
		Nullable bool
	}

	// EnumValue accepts a value equal to one of Values.
	EnumValue struct {
		Values   []any
		Nullable bool
	}

	// EnumName accepts one of Names and yields its canonical spelling.
	EnumName struct {
		Names           []string
		CaseInsensitive bool
		Nullable        bool
	}

	// Hash accepts a digest of Bits bits as hex, base64 or raw bytes and
	// yields lowercase hex.
	Hash struct {
		Bits     int
		Nullable bool
	}

	// UUID accepts textual or binary UUIDs and yields the canonical string.
	UUID struct {
		Nullable bool
	}

	// DateTime accepts time values, unix timestamps and formatted strings.
	DateTime struct {
		// Layouts are tried before the built-in layouts.
		Layouts  []string
		// Location is used to parse zone-less strings and to normalize the
		// result; UTC when nil.
		Location *time.Location
		Nullable bool
	}

	// Component accepts instances of Type, or property maps turned into an
	// instance by Build (or decoded into a new Type when Build is nil).
	Component struct {
		Type     reflect.Type
		Build    func(properties map[string]any) (any, error)
		Nullable bool
	}

	// Options accepts string-keyed maps, restricted to Keys when set.
	Options struct {
		Keys     []string
		Nullable bool
	}

	// Structure accepts maps whose fields are coerced by per-field rules.
	// A nil field rule keeps the field value as is.
	Structure struct {
		Fields     map[string]Rule
		Required   []string
		AllowExtra bool
		Nullable   bool
	}

	// Dictionary accepts maps and coerces every key and value with the
	// optional Key and Value rules. Keys must end up as strings.
	Dictionary struct {
		Key      Rule
		Value    Rule
		Nullable bool
	}

	// Vector accepts slices and arrays and coerces every element with the
	// optional Element rule. MaxLen zero means unbounded.
	Vector struct {
		Element  Rule
		MinLen   int
		MaxLen   int
		Nullable bool
	}
)

// Kinds returns every known rule kind.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if ok, errs := k.IsValid(); !ok {
		return "", errs[0]
	}
	return k, nil
}

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// IsValid returns whether the Kind is one of the known rule kinds.
func (k Kind) IsValid() (bool, []error) {
	for _, known := range kinds {
		if k == known {
			return true, nil
		}
	}
	return false, []error{&InvalidKindError{Value: k}}
}

// Error implements the error interface.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid rule kind %q", e.Value)
}

// Unwrap returns ErrInvalidKind for errors.Is() compatibility.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }

func (Boolean) Kind() Kind    { return KindBoolean }
func (Number) Kind() Kind     { return KindNumber }
func (Integer) Kind() Kind    { return KindInteger }
func (Float) Kind() Kind      { return KindFloat }
func (Size) Kind() Kind       { return KindSize }
func (String) Kind() Kind     { return KindString }
func (Class) Kind() Kind      { return KindClass }
func (Object) Kind() Kind     { return KindObject }
func (Callable) Kind() Kind   { return KindCallable }
func (Closure) Kind() Kind    { return KindClosure }
func (Array) Kind() Kind      { return KindArray }
func (EnumValue) Kind() Kind  { return KindEnumValue }
func (EnumName) Kind() Kind   { return KindEnumName }
func (Hash) Kind() Kind       { return KindHash }
func (UUID) Kind() Kind       { return KindUUID }
func (DateTime) Kind() Kind   { return KindDateTime }
func (Component) Kind() Kind  { return KindComponent }
func (Options) Kind() Kind    { return KindOptions }
func (Structure) Kind() Kind  { return KindStructure }
func (Dictionary) Kind() Kind { return KindDictionary }
func (Vector) Kind() Kind     { return KindVector }

func (r Boolean) nullable() bool    { return r.Nullable }
func (r Number) nullable() bool     { return r.Nullable }
func (r Integer) nullable() bool    { return r.Nullable }
func (r Float) nullable() bool      { return r.Nullable }
func (r Size) nullable() bool       { return r.Nullable }
func (r String) nullable() bool     { return r.Nullable }
func (r Class) nullable() bool      { return r.Nullable }
func (r Object) nullable() bool     { return r.Nullable }
func (r Callable) nullable() bool   { return r.Nullable }
func (r Closure) nullable() bool    { return r.Nullable }
func (r Array) nullable() bool      { return r.Nullable }
func (r EnumValue) nullable() bool  { return r.Nullable }
func (r EnumName) nullable() bool   { return r.Nullable }
func (r Hash) nullable() bool       { return r.Nullable }
func (r UUID) nullable() bool       { return r.Nullable }
func (r DateTime) nullable() bool   { return r.Nullable }
func (r Component) nullable() bool  { return r.Nullable }
func (r Options) nullable() bool    { return r.Nullable }
func (r Structure) nullable() bool  { return r.Nullable }
func (r Dictionary) nullable() bool { return r.Nullable }
func (r Vector) nullable() bool     { return r.Nullable }
