// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/invowk/kit/pkg/evaluator"
)

// ErrUndeclarableType is the sentinel error wrapped by UndeclarableTypeError.
var ErrUndeclarableType = errors.New("type cannot be declared in a schema")

type (
	// UndeclarableTypeError is returned for rule kinds that need a Go type
	// (class, object, callable, closure, component).
	UndeclarableTypeError struct {
		Type evaluator.Kind
	}

	stringOptions struct {
		NonEmpty bool   `mapstructure:"non_empty"`
		Trim     bool   `mapstructure:"trim"`
		Pattern  string `mapstructure:"pattern"`
	}

	integerOptions struct {
		Unsigned bool  `mapstructure:"unsigned"`
		Bits     uint8 `mapstructure:"bits"`
	}

	arrayOptions struct {
		NonEmpty bool `mapstructure:"non_empty"`
	}

	enumValueOptions struct {
		Values []any `mapstructure:"values"`
	}

	enumNameOptions struct {
		Names           []string `mapstructure:"names"`
		CaseInsensitive bool     `mapstructure:"case_insensitive"`
	}

	hashOptions struct {
		Bits int `mapstructure:"bits"`
	}

	dateTimeOptions struct {
		Layouts  []string `mapstructure:"layouts"`
		Location string   `mapstructure:"location"`
	}

	keysOptions struct {
		Keys []string `mapstructure:"keys"`
	}

	structureOptions struct {
		Fields     map[string]any `mapstructure:"fields"`
		Required   []string       `mapstructure:"required"`
		AllowExtra bool           `mapstructure:"allow_extra"`
	}

	dictionaryOptions struct {
		Key   any `mapstructure:"key"`
		Value any `mapstructure:"value"`
	}

	vectorOptions struct {
		Element any `mapstructure:"element"`
		MinLen  int `mapstructure:"min_len"`
		MaxLen  int `mapstructure:"max_len"`
	}
)

// Rule returns the evaluator rule for d, or nil when d has no type.
func (s *Schema) Rule(d Declaration) (evaluator.Rule, error) {
	if d.Type == "" {
		return nil, nil
	}
	r, err := buildRule(evaluator.Kind(d.Type), d.Options, d.Nullable)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", d.Name, err)
	}
	return r, nil
}

// buildRule maps a kind and its options to a rule. Nested element, key,
// value and field types are either a type name or a map with a "type" key,
// an optional "nullable" flag and the nested options.
func buildRule(kind evaluator.Kind, options map[string]any, nullable bool) (evaluator.Rule, error) {
	if ok, errs := kind.IsValid(); !ok {
		return nil, errs[0]
	}

	switch kind {
	case evaluator.KindBoolean:
		return noOptions(evaluator.Boolean{Nullable: nullable}, options)
	case evaluator.KindNumber:
		return noOptions(evaluator.Number{Nullable: nullable}, options)
	case evaluator.KindFloat:
		return noOptions(evaluator.Float{Nullable: nullable}, options)
	case evaluator.KindSize:
		return noOptions(evaluator.Size{Nullable: nullable}, options)
	case evaluator.KindUUID:
		return noOptions(evaluator.UUID{Nullable: nullable}, options)
	case evaluator.KindInteger:
		var o integerOptions
		if err := decodeOptions(options, &o); err != nil {
			return nil, err
		}
		return evaluator.Integer{Unsigned: o.Unsigned, Bits: o.Bits, Nullable: nullable}, nil
	case evaluator.KindString:
		var o stringOptions
		if err := decodeOptions(options, &o); err != nil {
			return nil, err
		}
		return evaluator.String{NonEmpty: o.NonEmpty, Trim: o.Trim, Pattern: o.Pattern, Nullable: nullable}, nil
	case evaluator.KindArray:
		var o arrayOptions
		if err := decodeOptions(options, &o); err != nil {
			return nil, err
		}
		return evaluator.Array{NonEmpty: o.NonEmpty, Nullable: nullable}, nil
	case evaluator.KindEnumValue:
		var o enumValueOptions
		if err := decodeOptions(options, &o); err != nil {
			return nil, err
		}
		return evaluator.EnumValue{Values: o.Values, Nullable: nullable}, nil
	case evaluator.KindEnumName:
		var o enumNameOptions
		if err := decodeOptions(options, &o); err != nil {
			return nil, err
		}
		return evaluator.EnumName{Names: o.Names, CaseInsensitive: o.CaseInsensitive, Nullable: nullable}, nil
	case evaluator.KindHash:
		var o hashOptions
		if err := decodeOptions(options, &o); err != nil {
			return nil, err
		}
		return evaluator.Hash{Bits: o.Bits, Nullable: nullable}, nil
	case evaluator.KindDateTime:
		return dateTimeRule(options, nullable)
	case evaluator.KindOptions:
		var o keysOptions
		if err := decodeOptions(options, &o); err != nil {
			return nil, err
		}
		return evaluator.Options{Keys: o.Keys, Nullable: nullable}, nil
	case evaluator.KindStructure:
		return structureRule(options, nullable)
	case evaluator.KindDictionary:
		return dictionaryRule(options, nullable)
	case evaluator.KindVector:
		return vectorRule(options, nullable)
	default:
		return nil, &UndeclarableTypeError{Type: kind}
	}
}

func dateTimeRule(options map[string]any, nullable bool) (evaluator.Rule, error) {
	var o dateTimeOptions
	if err := decodeOptions(options, &o); err != nil {
		return nil, err
	}
	r := evaluator.DateTime{Layouts: o.Layouts, Nullable: nullable}
	if o.Location != "" {
		loc, err := time.LoadLocation(o.Location)
		if err != nil {
			return nil, fmt.Errorf("option location: %w", err)
		}
		r.Location = loc
	}
	return r, nil
}

func structureRule(options map[string]any, nullable bool) (evaluator.Rule, error) {
	var o structureOptions
	if err := decodeOptions(options, &o); err != nil {
		return nil, err
	}
	r := evaluator.Structure{Required: o.Required, AllowExtra: o.AllowExtra, Nullable: nullable}
	if len(o.Fields) > 0 {
		r.Fields = make(map[string]evaluator.Rule, len(o.Fields))
		for name, spec := range o.Fields {
			field, err := nestedRule(spec)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			r.Fields[name] = field
		}
	}
	return r, nil
}

func dictionaryRule(options map[string]any, nullable bool) (evaluator.Rule, error) {
	var o dictionaryOptions
	if err := decodeOptions(options, &o); err != nil {
		return nil, err
	}
	r := evaluator.Dictionary{Nullable: nullable}
	var err error
	if o.Key != nil {
		if r.Key, err = nestedRule(o.Key); err != nil {
			return nil, fmt.Errorf("key: %w", err)
		}
	}
	if o.Value != nil {
		if r.Value, err = nestedRule(o.Value); err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
	}
	return r, nil
}

func vectorRule(options map[string]any, nullable bool) (evaluator.Rule, error) {
	var o vectorOptions
	if err := decodeOptions(options, &o); err != nil {
		return nil, err
	}
	r := evaluator.Vector{MinLen: o.MinLen, MaxLen: o.MaxLen, Nullable: nullable}
	if o.Element != nil {
		element, err := nestedRule(o.Element)
		if err != nil {
			return nil, fmt.Errorf("element: %w", err)
		}
		r.Element = element
	}
	return r, nil
}

func nestedRule(spec any) (evaluator.Rule, error) {
	switch spec := spec.(type) {
	case string:
		return buildRule(evaluator.Kind(spec), nil, false)
	case map[string]any:
		options := make(map[string]any, len(spec))
		var (
			kind     string
			nullable bool
		)
		for k, v := range spec {
			switch k {
			case "type":
				s, ok := v.(string)
				if !ok {
					return nil, fmt.Errorf("nested type must be a string, got %T", v)
				}
				kind = s
			case "nullable":
				b, ok := v.(bool)
				if !ok {
					return nil, fmt.Errorf("nested nullable must be a boolean, got %T", v)
				}
				nullable = b
			default:
				options[k] = v
			}
		}
		return buildRule(evaluator.Kind(kind), options, nullable)
	default:
		return nil, fmt.Errorf("nested type must be a type name or a map, got %T", spec)
	}
}

func noOptions(r evaluator.Rule, options map[string]any) (evaluator.Rule, error) {
	if err := decodeOptions(options, &struct{}{}); err != nil {
		return nil, err
	}
	return r, nil
}

func decodeOptions(options map[string]any, target any) error {
	if len(options) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(options); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// Error implements the error interface.
func (e *UndeclarableTypeError) Error() string {
	return fmt.Sprintf("type %q needs a Go type and cannot be declared in a schema", e.Type)
}

// Unwrap returns ErrUndeclarableType for errors.Is() compatibility.
func (e *UndeclarableTypeError) Unwrap() error { return ErrUndeclarableType }
