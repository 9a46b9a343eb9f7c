// SPDX-License-Identifier: MPL-2.0

package property

import (
	"errors"
	"fmt"
)

const (
	// ModeStrictReadOnly properties are readable and never writable, not even
	// at initialization; their value always comes from the default.
	ModeStrictReadOnly Mode = "r"
	// ModeReadOnly properties are readable and writable only at initialization.
	ModeReadOnly Mode = "r+"
	// ModeReadWrite properties are readable and writable at any time.
	ModeReadWrite Mode = "rw"
	// ModeWriteOnly properties are writable at any time and never readable.
	ModeWriteOnly Mode = "w"
	// ModeWriteOnce properties are writable only at initialization and never readable.
	ModeWriteOnce Mode = "w-"
)

// ErrInvalidMode is the sentinel error wrapped by InvalidModeError.
var ErrInvalidMode = errors.New("invalid mode")

// compatibleModes maps a manager mode to the property modes it allows and the
// mode each of them narrows to.
var compatibleModes = map[Mode]map[Mode]Mode{
	ModeStrictReadOnly: {
		ModeStrictReadOnly: ModeStrictReadOnly,
	},
	ModeReadOnly: {
		ModeStrictReadOnly: ModeStrictReadOnly,
		ModeReadOnly:       ModeReadOnly,
		ModeReadWrite:      ModeReadOnly,
	},
	ModeReadWrite: {
		ModeStrictReadOnly: ModeStrictReadOnly,
		ModeReadOnly:       ModeReadOnly,
		ModeReadWrite:      ModeReadWrite,
		ModeWriteOnly:      ModeWriteOnly,
		ModeWriteOnce:      ModeWriteOnce,
	},
	ModeWriteOnly: {
		ModeReadWrite: ModeWriteOnly,
		ModeWriteOnly: ModeWriteOnly,
		ModeWriteOnce: ModeWriteOnce,
	},
	ModeWriteOnce: {
		ModeReadWrite: ModeWriteOnce,
		ModeWriteOnly: ModeWriteOnce,
		ModeWriteOnce: ModeWriteOnce,
	},
}

type (
	// Mode is the access level of a property or the base access level of a
	// manager. The zero value is invalid.
	Mode string

	// InvalidModeError is returned when a Mode value is not recognized.
	// It wraps ErrInvalidMode for errors.Is() compatibility.
	InvalidModeError struct {
		Value Mode
	}
)

// Modes returns every valid mode, most restrictive read access first.
func Modes() []Mode {
	return []Mode{ModeStrictReadOnly, ModeReadOnly, ModeReadWrite, ModeWriteOnly, ModeWriteOnce}
}

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if ok, errs := m.IsValid(); !ok {
		return "", errs[0]
	}
	return m, nil
}

// CompatibleMode returns the mode a property requesting requested ends up
// with under a manager in mode manager, and false when the pair is not allowed.
func CompatibleMode(manager, requested Mode) (Mode, bool) {
	mapped, ok := compatibleModes[manager][requested]
	return mapped, ok
}

// String returns the string representation of the Mode.
func (m Mode) String() string { return string(m) }

// IsValid returns whether the Mode is one of the five defined modes.
func (m Mode) IsValid() (bool, []error) {
	if _, ok := compatibleModes[m]; ok {
		return true, nil
	}
	return false, []error{&InvalidModeError{Value: m}}
}

// Readable reports whether values in this mode can be read.
func (m Mode) Readable() bool {
	return m == ModeStrictReadOnly || m == ModeReadOnly || m == ModeReadWrite
}

// WritableAtInit reports whether values in this mode can be supplied at initialization.
func (m Mode) WritableAtInit() bool {
	return m != ModeStrictReadOnly && m != ""
}

// WritableAfterInit reports whether values in this mode can be set or unset
// once the manager is initialized.
func (m Mode) WritableAfterInit() bool {
	return m == ModeReadWrite || m == ModeWriteOnly
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if ok, errs := m.IsValid(); !ok {
		return nil, errs[0]
	}
	return []byte(m), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(data []byte) error {
	parsed, err := ParseMode(string(data))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Error implements the error interface.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid mode %q (must be one of r, r+, rw, w, w-)", e.Value)
}

// Unwrap returns ErrInvalidMode for errors.Is() compatibility.
func (e *InvalidModeError) Unwrap() error { return ErrInvalidMode }
