// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/invowk/kit/internal/config"
)

func TestValidate_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "server.cue", serverSchema)
	valuesPath := writeFile(t, dir, "values.yaml", "host: from-file\nport: 1\ntags: [a]\n")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "positional required value",
			args: []string{"example.com"},
			want: []string{`"example.com"`, "80", "(not readable)"},
		},
		{
			name: "set flags coerce strings",
			args: []string{"--set", "host= padded ", "--set", "port=8080"},
			want: []string{`"padded"`, "8080"},
		},
		{
			name: "inline CUE list",
			args: []string{"--set", "host=h", "--set", `tags=["x", "y"]`},
			want: []string{"[x y]"},
		},
		{
			name: "input document with overrides",
			args: []string{"--input", valuesPath, "--set", "port=2"},
			want: []string{`"from-file"`, "2", "[a]"},
		},
		{
			name: "named value wins over positional",
			args: []string{"--set", "host=named", "positional"},
			want: []string{`"named"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := run(t, stubConfig{}, append([]string{"validate", "--schema", schemaPath}, tt.args...)...)
			if res.err != nil {
				t.Fatalf("validate error = %v\nstderr: %s", res.err, res.stderr)
			}
			if !strings.Contains(res.stdout, "server") {
				t.Errorf("stdout should name the schema:\n%s", res.stdout)
			}
			for _, want := range tt.want {
				if !strings.Contains(res.stdout, want) {
					t.Errorf("stdout missing %q:\n%s", want, res.stdout)
				}
			}
		})
	}
}

func TestValidate_IgnoredInput(t *testing.T) {
	t.Parallel()

	schemaPath := writeFile(t, t.TempDir(), "server.cue", serverSchema)

	res := run(t, stubConfig{}, "validate", "--schema", schemaPath, "--set", "host=h", "--set", "colour=red", "extra")
	if res.err != nil {
		t.Fatalf("validate error = %v", res.err)
	}
	if !strings.Contains(res.stderr, "ignored input") || !strings.Contains(res.stderr, "colour") {
		t.Errorf("stderr = %q, want the ignored keys listed", res.stderr)
	}
}

func TestValidate_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "server.cue", serverSchema)
	invalidSchema := writeFile(t, dir, "invalid.cue", `
name: "bad"
properties: [{name: "v", type: "integer", mode: "r"}]
`)
	brokenSchema := writeFile(t, dir, "broken.cue", `name: `)
	brokenValues := writeFile(t, dir, "values.toml", `port = `)

	strict := config.DefaultConfig()
	strict.StrictRemainder = true

	tests := []struct {
		name     string
		provider ConfigProvider
		args     []string
		want     []string
	}{
		{"missing required", stubConfig{}, []string{"--schema", schemaPath}, []string{"Missing required properties", "--set host=VALUE"}},
		{"invalid value", stubConfig{}, []string{"--schema", schemaPath, "--set", "host=h", "--set", "port=70000"}, []string{"Invalid property value", "port"}},
		{"strict flag", stubConfig{}, []string{"--schema", schemaPath, "--strict", "--set", "host=h", "--set", "colour=red"}, []string{"Unknown property", "colour"}},
		{"strict config", stubConfig{cfg: strict}, []string{"--schema", schemaPath, "--set", "host=h", "--set", "colour=red"}, []string{"Unknown property"}},
		{"schema not found", stubConfig{}, []string{"--schema", filepath.Join(dir, "absent")}, []string{"Schema not found"}},
		{"invalid schema", stubConfig{}, []string{"--schema", invalidSchema}, []string{"Invalid schema"}},
		{"unparsable schema", stubConfig{}, []string{"--schema", brokenSchema}, []string{"Failed to parse schema"}},
		{"unparsable values", stubConfig{}, []string{"--schema", schemaPath, "--input", brokenValues}, []string{"Failed to parse input values"}},
		{"malformed set", stubConfig{}, []string{"--schema", schemaPath, "--set", "novalue"}, []string{"expected name=value"}},
		{"malformed inline CUE", stubConfig{}, []string{"--schema", schemaPath, "--set", "tags=[1,"}, []string{"Failed to parse input values"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := run(t, tt.provider, append([]string{"validate"}, tt.args...)...)
			var exitErr *ExitError
			if !errors.As(res.err, &exitErr) || exitErr.Code != 1 {
				t.Fatalf("validate error = %v, want *ExitError with code 1", res.err)
			}
			for _, want := range tt.want {
				if !strings.Contains(res.stderr, want) {
					t.Errorf("stderr missing %q:\n%s", want, res.stderr)
				}
			}
		})
	}
}

func TestValidate_DefaultModeFromConfig(t *testing.T) {
	t.Parallel()

	schemaPath := writeFile(t, t.TempDir(), "server.cue", serverSchema)
	cfg := config.DefaultConfig()
	cfg.DefaultMode = "r+"

	// token is declared write-only, which a read-only schema cannot hold.
	res := run(t, stubConfig{cfg: cfg}, "validate", "--schema", schemaPath, "example.com")
	if res.err == nil || !strings.Contains(res.stderr, "Invalid schema") {
		t.Errorf("validate under r+ = (%v, %q), want an invalid schema", res.err, res.stderr)
	}
}

func TestValidate_SchemaDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "server.cue", serverSchema)
	cfg := config.DefaultConfig()
	cfg.SchemaDirs = []config.SchemaDirPath{config.SchemaDirPath(dir)}

	res := run(t, stubConfig{cfg: cfg}, "validate", "--schema", "server", "example.com")
	if res.err != nil {
		t.Fatalf("validate by name error = %v\n%s", res.err, res.stderr)
	}
}

func TestParseSetValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want any
	}{
		{"8080", "8080"},
		{"2024-01-01", "2024-01-01"},
		{"", ""},
		{`"quoted"`, "quoted"},
		{`["a", "b"]`, []any{"a", "b"}},
		{`{a: true}`, map[string]any{"a": true}},
	}

	for _, tt := range tests {
		got, err := parseSetValue("v", tt.raw)
		if err != nil {
			t.Errorf("parseSetValue(%q) error = %v", tt.raw, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseSetValue(%q) = %#v, want %#v", tt.raw, got, tt.want)
		}
	}
}
