// SPDX-License-Identifier: MPL-2.0

package property

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStructuralMisuse is the sentinel error wrapped by StructuralMisuseError.
	ErrStructuralMisuse = errors.New("structural misuse")
	// ErrModeViolation is the sentinel error wrapped by ModeViolationError.
	ErrModeViolation = errors.New("mode violation")
	// ErrMissingRequiredProperty is the sentinel error wrapped by MissingRequiredPropertyError.
	ErrMissingRequiredProperty = errors.New("missing required property")
	// ErrInvalidValue is the sentinel error wrapped by InvalidValueError.
	ErrInvalidValue = errors.New("invalid property value")
	// ErrInvalidDefaultValue is the sentinel error wrapped by InvalidDefaultValueError.
	ErrInvalidDefaultValue = errors.New("invalid default value")
	// ErrPropertyNotFound is the sentinel error wrapped by PropertyNotFoundError.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrDefaultValueNotSet is the sentinel error wrapped by DefaultValueNotSetError.
	ErrDefaultValueNotSet = errors.New("default value not set")
	// ErrDoubleInitialization is the sentinel error wrapped by DoubleInitializationError.
	ErrDoubleInitialization = errors.New("properties already initialized")
	// ErrFieldType is the sentinel error wrapped by FieldTypeError.
	ErrFieldType = errors.New("incompatible field type")
)

type (
	// StructuralMisuseError is returned when a declaration-phase operation is
	// attempted in the wrong phase or mode (after initialization, in lazy vs.
	// eager mode, on a duplicate name, ...).
	StructuralMisuseError struct {
		Owner     any
		Property  string
		Operation string
		Reason    string
	}

	// ModeViolationError is returned when an access is forbidden by a
	// property's mode, or when a requested mode is incompatible with the
	// manager's mode.
	ModeViolationError struct {
		Owner     any
		Property  string
		Operation string
		Mode      Mode
		// Requested is set when the violation comes from a mode change.
		Requested Mode
	}

	// MissingRequiredPropertyError lists every required property missing
	// from an initialization input.
	MissingRequiredPropertyError struct {
		Owner any
		Names []string
	}

	// InvalidValueError is returned when a supplied value is rejected by a
	// property's evaluators or cannot be stored in its bound field.
	InvalidValueError struct {
		Owner    any
		Property string
		Value    any
		// Cause is set when the bound field rejected the evaluated value.
		Cause error
	}

	// InvalidDefaultValueError is returned when a resolved default value is
	// rejected by the property's own evaluators. It signals a configuration
	// bug rather than bad input.
	InvalidDefaultValueError struct {
		Owner    any
		Property string
		Value    any
	}

	// PropertyNotFoundError is returned when a name matches no declared or
	// buildable property and no fallback can answer for it.
	PropertyNotFoundError struct {
		Owner    any
		Property string
	}

	// DefaultValueNotSetError is returned when a default value is requested
	// from a property without a default.
	DefaultValueNotSetError struct {
		Owner    any
		Property string
	}

	// DoubleInitializationError is returned when a manager is initialized twice.
	DoubleInitializationError struct {
		Owner any
	}

	// FieldTypeError is returned by field accessors when a value cannot be
	// stored in the bound field without loss.
	FieldTypeError struct {
		Value any
		Field string
	}
)

func ownerName(owner any) string {
	if owner == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", owner)
}

// Error implements the error interface.
func (e *StructuralMisuseError) Error() string {
	var sb strings.Builder
	sb.WriteString("cannot ")
	sb.WriteString(e.Operation)
	if e.Property != "" {
		fmt.Fprintf(&sb, " for property %q", e.Property)
	}
	fmt.Fprintf(&sb, " of %s: %s", ownerName(e.Owner), e.Reason)
	return sb.String()
}

// Unwrap returns ErrStructuralMisuse for errors.Is() compatibility.
func (e *StructuralMisuseError) Unwrap() error { return ErrStructuralMisuse }

// Error implements the error interface.
func (e *ModeViolationError) Error() string {
	if e.Requested != "" {
		return fmt.Sprintf("cannot set mode %q on property %q of %s: not allowed under manager mode %q",
			e.Requested, e.Property, ownerName(e.Owner), e.Mode)
	}
	return fmt.Sprintf("cannot %s property %q of %s: mode %q forbids it",
		e.Operation, e.Property, ownerName(e.Owner), e.Mode)
}

// Unwrap returns ErrModeViolation for errors.Is() compatibility.
func (e *ModeViolationError) Unwrap() error { return ErrModeViolation }

// Error implements the error interface.
func (e *MissingRequiredPropertyError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, name := range e.Names {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	noun := "property"
	if len(e.Names) > 1 {
		noun = "properties"
	}
	return fmt.Sprintf("missing required %s %s for %s", noun, strings.Join(quoted, ", "), ownerName(e.Owner))
}

// Unwrap returns ErrMissingRequiredProperty for errors.Is() compatibility.
func (e *MissingRequiredPropertyError) Unwrap() error { return ErrMissingRequiredProperty }

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	msg := fmt.Sprintf("invalid value %v (%T) for property %q of %s", e.Value, e.Value, e.Property, ownerName(e.Owner))
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns ErrInvalidValue and, when set, the cause.
func (e *InvalidValueError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrInvalidValue}
	}
	return []error{ErrInvalidValue, e.Cause}
}

// Error implements the error interface.
func (e *InvalidDefaultValueError) Error() string {
	return fmt.Sprintf("default value %v (%T) of property %q of %s is rejected by its own evaluators",
		e.Value, e.Value, e.Property, ownerName(e.Owner))
}

// Unwrap returns ErrInvalidDefaultValue for errors.Is() compatibility.
func (e *InvalidDefaultValueError) Unwrap() error { return ErrInvalidDefaultValue }

// Error implements the error interface.
func (e *PropertyNotFoundError) Error() string {
	return fmt.Sprintf("property %q not found in %s", e.Property, ownerName(e.Owner))
}

// Unwrap returns ErrPropertyNotFound for errors.Is() compatibility.
func (e *PropertyNotFoundError) Unwrap() error { return ErrPropertyNotFound }

// Error implements the error interface.
func (e *DefaultValueNotSetError) Error() string {
	return fmt.Sprintf("property %q of %s has no default value", e.Property, ownerName(e.Owner))
}

// Unwrap returns ErrDefaultValueNotSet for errors.Is() compatibility.
func (e *DefaultValueNotSetError) Unwrap() error { return ErrDefaultValueNotSet }

// Error implements the error interface.
func (e *DoubleInitializationError) Error() string {
	return fmt.Sprintf("properties of %s are already initialized", ownerName(e.Owner))
}

// Unwrap returns ErrDoubleInitialization for errors.Is() compatibility.
func (e *DoubleInitializationError) Unwrap() error { return ErrDoubleInitialization }

// Error implements the error interface.
func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("cannot store %v (%T) in field of type %s", e.Value, e.Value, e.Field)
}

// Unwrap returns ErrFieldType for errors.Is() compatibility.
func (e *FieldTypeError) Unwrap() error { return ErrFieldType }
