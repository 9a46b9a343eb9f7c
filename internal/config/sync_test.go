// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests verify Go struct JSON tags match CUE schema field names so a
// renamed field cannot silently stop loading.

// extractCUEFields returns the top-level regular field names of a CUE struct.
func extractCUEFields(t *testing.T, val cue.Value) map[string]bool {
	t.Helper()

	fields := make(map[string]bool)

	iter, err := val.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}

	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		fields[strings.TrimSuffix(sel.String(), "?")] = true
	}

	return fields
}

// extractGoJSONTags returns the JSON names of the exported fields of a struct.
func extractGoJSONTags(t *testing.T, typ reflect.Type) map[string]bool {
	t.Helper()

	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		t.Fatalf("expected struct type, got %s", typ.Kind())
	}

	fields := make(map[string]bool)
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields[name] = true
	}

	return fields
}

func assertFieldsSync(t *testing.T, structName string, cueFields, goFields map[string]bool) {
	t.Helper()

	for field := range cueFields {
		if !goFields[field] {
			t.Errorf("[%s] CUE field %q not found in Go struct (missing JSON tag)", structName, field)
		}
	}
	for field := range goFields {
		if !cueFields[field] {
			t.Errorf("[%s] Go JSON tag %q not found in CUE schema (missing CUE field)", structName, field)
		}
	}
}

func lookupDefinition(t *testing.T, defPath string) cue.Value {
	t.Helper()

	schema := cuecontext.New().CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile CUE schema: %v", schema.Err())
	}
	def := schema.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		t.Fatalf("failed to lookup CUE definition %s: %v", defPath, def.Err())
	}
	return def
}

func TestSchemaSync(t *testing.T) {
	t.Parallel()

	tests := []struct {
		def string
		typ reflect.Type
	}{
		{"#Config", reflect.TypeFor[Config]()},
		{"#UIConfig", reflect.TypeFor[UIConfig]()},
		{"#LogConfig", reflect.TypeFor[LogConfig]()},
	}

	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			t.Parallel()

			assertFieldsSync(t, tt.typ.Name(), extractCUEFields(t, lookupDefinition(t, tt.def)), extractGoJSONTags(t, tt.typ))
		})
	}
}

func validateCUE(t *testing.T, data string) error {
	t.Helper()

	ctx := cuecontext.New()
	userValue := ctx.CompileString(data)
	if userValue.Err() != nil {
		return userValue.Err()
	}
	unified := lookupDefinition(t, "#Config").Unify(userValue)
	return unified.Validate(cue.Concrete(true))
}

func TestSchemaBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"empty", ``, false},
		{"every mode", `default_mode: "w-"`, false},
		{"unknown mode", `default_mode: "x"`, true},
		{"schema dirs", `schema_dirs: ["/etc/kit", "./schemas"]`, false},
		{"blank schema dir", `schema_dirs: ["  "]`, true},
		{"color scheme", `ui: color_scheme: "dark"`, false},
		{"unknown color scheme", `ui: color_scheme: "blue"`, true},
		{"log level", `log: level: "debug"`, false},
		{"unknown log level", `log: level: "trace"`, true},
		{"unknown field", `container_engine: "podman"`, true},
		{"wrong type", `strict_remainder: "yes"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateCUE(t, tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate %q error = %v, wantErr %v", tt.data, err, tt.wantErr)
			}
		})
	}
}
