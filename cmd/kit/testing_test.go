// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/invowk/kit/internal/config"
)

const serverSchema = `
name:        "server"
description: "HTTP server settings"
properties: [
	{name: "host", type: "string", required: true, options: {trim: true}},
	{name: "port", type: "integer", default: 80, options: {unsigned: true, bits: 16}},
	{name: "token", type: "string", mode: "w", default: ""},
	{name: "tags", type: "vector", default: [], options: {element: "string"}},
]
`

// stubConfig serves a fixed configuration.
type stubConfig struct {
	cfg  *config.Config
	path string
	err  error
}

func (s stubConfig) LoadWithPath(context.Context, config.LoadOptions) (*config.Config, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	if s.cfg == nil {
		return config.DefaultConfig(), s.path, nil
	}
	return s.cfg, s.path, nil
}

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the kit command tree in-process.
func run(t *testing.T, provider ConfigProvider, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Config: provider, Stdout: &stdout, Stderr: &stderr})
	root := NewRootCommand(app)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())

	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}
