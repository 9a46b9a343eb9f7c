// SPDX-License-Identifier: MPL-2.0

package property

import (
	"fmt"
)

// Delegate is the host-facing property surface. A Manager implements it,
// and a Manager forwards names it does not know to its fallback Delegate.
type Delegate interface {
	// Has reports whether name is declared, buildable, or known to a fallback.
	Has(name string) bool
	// Get returns the current value of a readable property.
	Get(name string) (any, error)
	// Is reports whether the property holds the boolean true.
	Is(name string) (bool, error)
	// IsSet reports whether the property is readable and holds a non-nil value.
	IsSet(name string) bool
	// Set stores a new value in a property writable after initialization.
	Set(name string, value any) error
	// Unset restores a property's default value.
	Unset(name string) error
	// All returns the value of every readable property.
	All() (map[string]any, error)
}

// GetAs returns the value of name converted to T.
func GetAs[T any](d Delegate, name string) (T, error) {
	var zero T
	v, err := d.Get(name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("property %q holds %T, not %T", name, v, zero)
	}
	return typed, nil
}

// Must panics if err is non-nil. It is meant for declarations that can only
// fail on programmer error.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// MustValue returns v, or panics if err is non-nil.
func MustValue[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
