// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/invowk/kit/internal/config"
)

func TestConfigShow(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.SchemaDirs = []config.SchemaDirPath{"/srv/schemas"}

	res := run(t, stubConfig{cfg: cfg, path: "/etc/kit/config.cue"}, "config", "show")
	if res.err != nil {
		t.Fatalf("config show error = %v", res.err)
	}
	for _, want := range []string{"/etc/kit/config.cue", "default_mode", "rw", "/srv/schemas", "color_scheme", "auto", "warn"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("config show missing %q:\n%s", want, res.stdout)
		}
	}

	defaults := run(t, stubConfig{}, "config", "show")
	if !strings.Contains(defaults.stdout, "(using defaults)") || !strings.Contains(defaults.stdout, "(none configured)") {
		t.Errorf("config show without a file:\n%s", defaults.stdout)
	}
}

func TestConfigShow_LoadFailure(t *testing.T) {
	t.Parallel()

	res := run(t, stubConfig{err: errors.New("bad file")}, "config", "show")
	var exitErr *ExitError
	if !errors.As(res.err, &exitErr) {
		t.Fatalf("config show error = %v, want *ExitError", res.err)
	}
	if !strings.Contains(res.stderr, "Failed to load configuration") {
		t.Errorf("stderr = %q, want the config issue", res.stderr)
	}
}

func TestConfigDump(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   string
	}{
		{"cue", `default_mode: "rw"`},
		{"toml", "default_mode = "},
		{"yaml", "default_mode: rw"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			res := run(t, stubConfig{}, "config", "dump", "--format", tt.format)
			if res.err != nil {
				t.Fatalf("config dump error = %v", res.err)
			}
			if !strings.Contains(res.stdout, tt.want) {
				t.Errorf("config dump --format %s = %q, want %q", tt.format, res.stdout, tt.want)
			}
		})
	}

	res := run(t, stubConfig{}, "config", "dump", "--format", "xml")
	if res.err == nil {
		t.Error("config dump --format xml should fail")
	}
}

func TestConfigInitAndPath(t *testing.T) {
	// Not parallel: overrides the process-wide config directory.
	dir := filepath.Join(t.TempDir(), "kit")
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)

	path := run(t, stubConfig{}, "config", "path")
	want := filepath.Join(dir, "config.cue")
	if strings.TrimSpace(path.stdout) != want {
		t.Errorf("config path = %q, want %q", path.stdout, want)
	}

	first := run(t, stubConfig{}, "config", "init")
	if first.err != nil || !strings.Contains(first.stdout, "Created default configuration") {
		t.Fatalf("config init = (%v, %q)", first.err, first.stdout)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	second := run(t, stubConfig{}, "config", "init")
	if second.err != nil || !strings.Contains(second.stdout, "already exists") {
		t.Errorf("second config init = (%v, %q)", second.err, second.stdout)
	}
}
