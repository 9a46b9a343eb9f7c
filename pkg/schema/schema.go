// SPDX-License-Identifier: MPL-2.0

package schema

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/invowk/kit/internal/cueutil"
	"github.com/invowk/kit/pkg/property"
)

//go:embed schema_schema.cue
var schemaCUE []byte

type (
	// Schema declares the properties of one kind of host.
	Schema struct {
		Name        string        `json:"name"`
		Description string        `json:"description,omitempty"`
		Mode        property.Mode `json:"mode,omitempty"`
		Lazy        bool          `json:"lazy,omitempty"`
		Properties  []Declaration `json:"properties"`
	}

	// Declaration declares one property. Type names an evaluator rule kind
	// and Options configure it. A declaration without a default is required;
	// a nullable one without a default defaults to nil.
	Declaration struct {
		Name        string         `json:"name"`
		Description string         `json:"description,omitempty"`
		Type        string         `json:"type,omitempty"`
		Mode        property.Mode  `json:"mode,omitempty"`
		Required    bool           `json:"required,omitempty"`
		Nullable    bool           `json:"nullable,omitempty"`
		Default     any            `json:"default,omitempty"`
		Options     map[string]any `json:"options,omitempty"`
	}
)

// Load reads and parses the schema at path; the format follows the extension.
func Load(path string) (*Schema, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Parse(data, format, path)
}

// Parse decodes a schema document, checks it against the embedded CUE
// definition and validates it. filename is used in error messages.
func Parse(data []byte, format Format, filename string) (*Schema, error) {
	opts := []cueutil.Option{cueutil.WithFilename(filename)}

	var (
		result *cueutil.ParseResult[Schema]
		err    error
	)
	switch format {
	case FormatCUE, FormatJSON:
		result, err = cueutil.ParseAndDecode[Schema](schemaCUE, data, "#Schema", opts...)
	case FormatTOML, FormatYAML:
		var doc map[string]any
		if doc, err = decodeDocument(data, format, filename); err != nil {
			return nil, err
		}
		result, err = cueutil.ParseAndDecodeValue[Schema](schemaCUE, doc, "#Schema", opts...)
	default:
		return nil, &UnknownFormatError{Value: string(format)}
	}
	if err != nil {
		return nil, err
	}

	s := result.Value
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseValues decodes an input document into a map suitable for
// property.Manager.InitializeMap.
func ParseValues(data []byte, format Format, filename string) (map[string]any, error) {
	switch format {
	case FormatCUE, FormatJSON:
		return cueutil.DecodeMap(data, cueutil.WithFilename(filename))
	case FormatTOML, FormatYAML:
		return decodeDocument(data, format, filename)
	default:
		return nil, &UnknownFormatError{Value: string(format)}
	}
}

// LoadValues reads and decodes the values document at path.
func LoadValues(path string) (map[string]any, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	return ParseValues(data, format, path)
}

// Declaration returns the declaration named name.
func (s *Schema) Declaration(name string) (Declaration, bool) {
	for _, d := range s.Properties {
		if d.Name == name {
			return d, true
		}
	}
	return Declaration{}, false
}

// EffectiveMode returns the schema's mode, ModeReadWrite when unset.
func (s *Schema) EffectiveMode() property.Mode {
	if s.Mode == "" {
		return property.ModeReadWrite
	}
	return s.Mode
}

// HasDefault reports whether the declaration provides a default value.
func (d Declaration) HasDefault() bool {
	return d.Default != nil || d.Nullable
}

func decodeDocument(data []byte, format Format, filename string) (map[string]any, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
		return nil, err
	}

	doc := map[string]any{}
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return doc, nil
}
