// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/invowk/kit/internal/config"
)

// newDescribeCommand creates the `kit describe` command.
func newDescribeCommand(app *App) *cobra.Command {
	var (
		schemaRef string
		raw       bool
		width     int
	)

	cmd := &cobra.Command{
		Use:   "describe --schema FILE",
		Short: "Show the properties a schema declares",
		Long: `Render a schema as a table of its properties with their type, mode,
default and description.

Examples:
  kit describe --schema server.cue
  kit describe --schema server --raw > SERVER.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.loadSchema(schemaRef)
			if err != nil {
				return app.fail(err)
			}

			md := s.Markdown()
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}

			out, err := renderMarkdown(md, app.cfg.UI.ColorScheme, width)
			if err != nil {
				return app.fail(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&schemaRef, "schema", "s", "", "schema file, or a schema name looked up in schema_dirs")
	cmd.Flags().BoolVar(&raw, "raw", false, "print Markdown without terminal styling")
	cmd.Flags().IntVar(&width, "width", 100, "word wrap width")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

// renderMarkdown renders Markdown for the terminal in the configured scheme.
func renderMarkdown(md string, scheme config.ColorScheme, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if scheme == config.ColorSchemeAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(scheme.String()))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}
