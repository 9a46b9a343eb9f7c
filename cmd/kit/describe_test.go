// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/invowk/kit/internal/config"
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	schemaPath := writeFile(t, t.TempDir(), "server.cue", serverSchema)

	raw := run(t, stubConfig{}, "describe", "--schema", schemaPath, "--raw")
	if raw.err != nil {
		t.Fatalf("describe --raw error = %v", raw.err)
	}
	for _, want := range []string{"| Property |", "`host`", "`port`", "HTTP server settings"} {
		if !strings.Contains(raw.stdout, want) {
			t.Errorf("raw output missing %q:\n%s", want, raw.stdout)
		}
	}

	cfg := config.DefaultConfig()
	cfg.UI.ColorScheme = config.ColorSchemeLight
	rendered := run(t, stubConfig{cfg: cfg}, "describe", "--schema", schemaPath)
	if rendered.err != nil {
		t.Fatalf("describe error = %v", rendered.err)
	}
	if strings.Contains(rendered.stdout, "| Property |") {
		t.Error("rendered output should not contain the raw Markdown table")
	}
	if !strings.Contains(rendered.stdout, "host") {
		t.Errorf("rendered output missing property names:\n%s", rendered.stdout)
	}
}

func TestDescribe_UnknownSchema(t *testing.T) {
	t.Parallel()

	res := run(t, stubConfig{}, "describe", "--schema", "nowhere")
	var exitErr *ExitError
	if !errors.As(res.err, &exitErr) {
		t.Fatalf("describe error = %v, want *ExitError", res.err)
	}
	if !strings.Contains(res.stderr, "Schema not found") {
		t.Errorf("stderr = %q, want the schema-not-found issue", res.stderr)
	}
}
