// SPDX-License-Identifier: MPL-2.0

package schema

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// FormatCUE is a CUE document.
	FormatCUE Format = "cue"
	// FormatTOML is a TOML document.
	FormatTOML Format = "toml"
	// FormatYAML is a YAML document.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON document.
	FormatJSON Format = "json"
)

// ErrUnknownFormat is the sentinel error wrapped by UnknownFormatError.
var ErrUnknownFormat = errors.New("unknown document format")

type (
	// Format identifies the encoding of a schema or values document.
	Format string

	// UnknownFormatError is returned when a format name or file extension
	// is not recognized.
	UnknownFormatError struct {
		Value string
	}
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatCUE, FormatTOML, FormatYAML, FormatJSON}
}

// ParseFormat converts a format name ("cue", "toml", "yaml"/"yml", "json").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cue":
		return FormatCUE, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", &UnknownFormatError{Value: s}
}

// FormatOf returns the format matching the extension of path.
func FormatOf(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", &UnknownFormatError{Value: path}
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", &UnknownFormatError{Value: path}
	}
	return f, nil
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// Error implements the error interface.
func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown document format %q (expected cue, toml, yaml or json)", e.Value)
}

// Unwrap returns ErrUnknownFormat for errors.Is() compatibility.
func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }
