// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/kit/internal/config"
	"github.com/invowk/kit/internal/issue"
)

type (
	// App wires CLI services and shared state. It is the composition root for
	// the CLI layer: every Cobra command handler receives an App reference.
	App struct {
		Config ConfigProvider

		stdout io.Writer
		stderr io.Writer

		// Global flag values.
		verbose    bool
		configFile string

		// Resolved by loadConfig before any subcommand runs.
		cfg     *config.Config
		cfgPath string
		cfgErr  error
		logger  *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		LoadWithPath(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		cfg:    config.DefaultConfig(),
		logger: log.New(io.Discard),
	}
}

// loadConfig resolves the configuration and the logger. A broken config file
// is reported as a warning and the defaults are used instead.
func (a *App) loadConfig(ctx context.Context) {
	cfg, path, err := a.Config.LoadWithPath(ctx, config.LoadOptions{ConfigFilePath: a.configFile})
	if err != nil {
		a.cfgErr = err
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg, a.cfgPath = cfg, path

	if !a.verbose {
		a.verbose = cfg.UI.Verbose
	}

	level, levelErr := log.ParseLevel(cfg.Log.Level.String())
	if levelErr != nil || a.verbose {
		level = log.DebugLevel
	}
	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Level:  level,
		Prefix: config.AppName,
	})
}

// glamourStyle maps the configured color scheme onto a glamour style name.
func (a *App) glamourStyle() string {
	return a.cfg.UI.ColorScheme.String()
}

// fail renders err for the user and returns an ExitError that fang will not
// print a second time.
func (a *App) fail(err error) error {
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))

	if i := issue.Lookup(err); i != nil {
		if rendered, renderErr := i.Render(a.glamourStyle()); renderErr == nil {
			fmt.Fprint(a.stderr, rendered)
		} else {
			a.logger.Debug("render issue", "id", i.Id(), "err", renderErr)
		}
	}

	return &ExitError{Code: 1}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors include their suggestions, and the error chain in verbose mode.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
