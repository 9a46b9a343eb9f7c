// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/kit/pkg/evaluator"
	"github.com/invowk/kit/pkg/property"
)

// ErrInvalidSchema is the sentinel error wrapped by ValidationError.
var ErrInvalidSchema = errors.New("invalid schema")

// ValidationError collects every problem found in a schema.
type ValidationError struct {
	Schema string
	Errors []error
}

// Validate checks that declaration names are unique, modes are valid and
// allowed under the schema mode, types build into rules, and defaults pass
// their own rules.
func (s *Schema) Validate() error {
	var errs []error

	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, errors.New("schema name must not be empty"))
	}
	schemaMode := s.EffectiveMode()
	if ok, modeErrs := schemaMode.IsValid(); !ok {
		errs = append(errs, modeErrs...)
	}

	seen := make(map[string]bool, len(s.Properties))
	for i, d := range s.Properties {
		if strings.TrimSpace(d.Name) == "" {
			errs = append(errs, fmt.Errorf("properties[%d]: name must not be empty", i))
			continue
		}
		if seen[d.Name] {
			errs = append(errs, fmt.Errorf("property %q is declared more than once", d.Name))
			continue
		}
		seen[d.Name] = true
		errs = append(errs, s.validateDeclaration(d, schemaMode)...)
	}

	if len(errs) > 0 {
		return &ValidationError{Schema: s.Name, Errors: errs}
	}
	return nil
}

func (s *Schema) validateDeclaration(d Declaration, schemaMode property.Mode) []error {
	var errs []error

	mode := schemaMode
	if d.Mode != "" {
		if ok, modeErrs := d.Mode.IsValid(); !ok {
			return append(errs, fmt.Errorf("property %q: %w", d.Name, modeErrs[0]))
		}
		mapped, ok := property.CompatibleMode(schemaMode, d.Mode)
		if !ok {
			errs = append(errs, fmt.Errorf("property %q: mode %q is not allowed under schema mode %q", d.Name, d.Mode, schemaMode))
		}
		mode = mapped
	}
	if mode == property.ModeStrictReadOnly {
		if d.Required {
			errs = append(errs, fmt.Errorf("property %q: a strictly read-only property cannot be required", d.Name))
		}
		if !d.HasDefault() {
			errs = append(errs, fmt.Errorf("property %q: a strictly read-only property needs a default", d.Name))
		}
	}

	rule, err := s.Rule(d)
	if err != nil {
		return append(errs, err)
	}
	if rule != nil && d.HasDefault() {
		if _, ok := evaluator.Coerce(rule, d.Default); !ok {
			errs = append(errs, fmt.Errorf("property %q: default %v is not a valid %s", d.Name, d.Default, rule.Kind()))
		}
	}
	return errs
}

// RequiredNames returns the names of the declarations that must be supplied
// at initialization, in declaration order.
func (s *Schema) RequiredNames() []string {
	var names []string
	for _, d := range s.Properties {
		mode := s.EffectiveMode()
		if d.Mode != "" {
			mode, _ = property.CompatibleMode(mode, d.Mode)
		}
		if mode == property.ModeStrictReadOnly {
			continue
		}
		if d.Required || !d.HasDefault() {
			names = append(names, d.Name)
		}
	}
	return names
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		lines[i] = err.Error()
	}
	if len(lines) == 1 {
		return fmt.Sprintf("invalid schema %q: %s", e.Schema, lines[0])
	}
	return fmt.Sprintf("invalid schema %q:\n  - %s", e.Schema, strings.Join(lines, "\n  - "))
}

// Unwrap returns ErrInvalidSchema followed by the collected errors.
func (e *ValidationError) Unwrap() []error {
	return append([]error{ErrInvalidSchema}, e.Errors...)
}
