// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/kit/internal/config"
	"github.com/invowk/kit/internal/issue"
	"github.com/invowk/kit/pkg/schema"
)

// newConfigCommand creates the `kit config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage kit configuration",
		Long: `Manage kit configuration.

Configuration is stored in:
  - Linux: ~/.config/kit/config.cue
  - macOS: ~/Library/Application Support/kit/config.cue
  - Windows: %APPDATA%\kit\config.cue

KIT_* environment variables override file values, e.g. KIT_LOG_LEVEL=debug.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.cfgErr != nil {
				return app.fail(issue.NewErrorContext().
					WithOperation("show configuration").
					WithIssue(issue.ConfigLoadFailedId).
					Wrap(app.cfgErr).
					BuildError())
			}
			showConfig(cmd.OutOrStdout(), app.cfg, app.cfgPath)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.Path()
			if err != nil {
				return app.fail(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE, TOML or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := schema.ParseFormat(format)
			if err != nil {
				return app.fail(err)
			}
			out, err := config.Encode(app.cfg, f)
			if err != nil {
				return app.fail(err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	dumpCmd.Flags().StringVarP(&format, "format", "f", "cue", "output format (cue, toml, yaml)")
	cfgCmd.AddCommand(dumpCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := config.CreateDefaultConfig()
			if err != nil {
				return app.fail(err)
			}
			path, err := config.Path()
			if err != nil {
				return app.fail(err)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
			}
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config, path string) {
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("default_mode"), SuccessStyle.Render(cfg.DefaultMode.String()))
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("strict_remainder"), SuccessStyle.Render(fmt.Sprint(cfg.StrictRemainder)))

	fmt.Fprintf(w, "%s:", KeyStyle.Render("schema_dirs"))
	if len(cfg.SchemaDirs) == 0 {
		fmt.Fprintf(w, " %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		dirs := make([]string, len(cfg.SchemaDirs))
		for i, d := range cfg.SchemaDirs {
			dirs[i] = "  - " + SuccessStyle.Render(d.String())
		}
		fmt.Fprintf(w, "\n%s\n", strings.Join(dirs, "\n"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", SuccessStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", SuccessStyle.Render(fmt.Sprint(cfg.UI.Verbose)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("log"))
	fmt.Fprintf(w, "  level: %s\n", SuccessStyle.Render(cfg.Log.Level.String()))
}
