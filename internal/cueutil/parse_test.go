// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Server: {
	host:  string & !=""
	port:  int & >0 & <65536 | *8080
	tags?: [...string]
}
`

type testServer struct {
	Host string   `json:"host"`
	Port int      `json:"port"`
	Tags []string `json:"tags,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		want    testServer
		wantErr string
	}{
		{
			name: "defaults applied",
			data: `host: "example.com"`,
			want: testServer{Host: "example.com", Port: 8080},
		},
		{
			name: "all fields",
			data: `host: "h", port: 22, tags: ["a", "b"]`,
			want: testServer{Host: "h", Port: 22, Tags: []string{"a", "b"}},
		},
		{
			name:    "constraint violation carries path",
			data:    `host: "h", port: 70000`,
			wantErr: "server.cue: port",
		},
		{
			name:    "closed definition rejects unknown fields",
			data:    `host: "h", bogus: 1`,
			wantErr: "bogus",
		},
		{
			name:    "syntax error",
			data:    `host: `,
			wantErr: "server.cue",
		},
		{
			name:    "missing required field",
			data:    `port: 1`,
			wantErr: "host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := ParseAndDecodeString[testServer](testSchema, []byte(tt.data), "#Server", WithFilename("server.cue"))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAndDecode() error = %v", err)
			}
			got := *result.Value
			if got.Host != tt.want.Host || got.Port != tt.want.Port || strings.Join(got.Tags, ",") != strings.Join(tt.want.Tags, ",") {
				t.Errorf("decoded %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseAndDecodeValue(t *testing.T) {
	t.Parallel()

	data := map[string]any{"host": "example.com", "tags": []any{"x"}}
	result, err := ParseAndDecodeValue[testServer]([]byte(testSchema), data, "#Server")
	if err != nil {
		t.Fatalf("ParseAndDecodeValue() error = %v", err)
	}
	if result.Value.Port != 8080 || result.Value.Tags[0] != "x" {
		t.Errorf("decoded %+v", *result.Value)
	}

	_, err = ParseAndDecodeValue[testServer]([]byte(testSchema), map[string]any{"host": 5}, "#Server", WithFilename("server.yaml"))
	if err == nil || !strings.Contains(err.Error(), "server.yaml: host") {
		t.Errorf("error = %v, want a host error for server.yaml", err)
	}
}

func TestParseAndDecode_InternalErrors(t *testing.T) {
	t.Parallel()

	if _, err := ParseAndDecodeString[testServer]("#Server: {", []byte(`host: "h"`), "#Server"); err == nil ||
		!strings.Contains(err.Error(), "internal error") {
		t.Errorf("broken schema error = %v, want internal error", err)
	}
	if _, err := ParseAndDecodeString[testServer](testSchema, []byte(`host: "h"`), "#Missing"); err == nil ||
		!strings.Contains(err.Error(), "#Missing") {
		t.Errorf("missing definition error = %v", err)
	}
}

func TestParseAndDecode_FileSize(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecodeString[testServer](testSchema, []byte(`host: "example.com"`), "#Server", WithMaxFileSize(4))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error = %v, want size error", err)
	}
}

func TestDecodeMap(t *testing.T) {
	t.Parallel()

	got, err := DecodeMap([]byte(`{"count": 5, "name": "kit", "nested": {"ok": true}}`), WithFilename("values.json"))
	if err != nil {
		t.Fatalf("DecodeMap() error = %v", err)
	}
	if got["name"] != "kit" {
		t.Errorf("name = %v", got["name"])
	}
	nested, ok := got["nested"].(map[string]any)
	if !ok || nested["ok"] != true {
		t.Errorf("nested = %#v", got["nested"])
	}

	if _, err := DecodeMap([]byte(`count: int`)); err == nil {
		t.Error("DecodeMap() should reject non-concrete values")
	}
}
