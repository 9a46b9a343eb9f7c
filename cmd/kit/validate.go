// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/kit/internal/cueutil"
	"github.com/invowk/kit/internal/issue"
	"github.com/invowk/kit/pkg/property"
	"github.com/invowk/kit/pkg/schema"
)

type validateOptions struct {
	schema string
	input  string
	sets   []string
	strict bool
}

// newValidateCommand creates the `kit validate` command.
func newValidateCommand(app *App) *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate --schema FILE [VALUES...]",
		Short: "Initialize a schema's properties from input values",
		Long: `Build the property manager described by a schema, initialize it from
input values and print the resulting readable values.

Input is merged in this order, later sources winning:
  1. the --input document (CUE, TOML, YAML or JSON)
  2. --set name=value flags
  3. positional VALUES, assigned to the required properties in declaration
     order unless the same property was given by name

--set values are strings that each property's type coerces. Values starting
with '[', '{' or '"' are read as CUE literals, so lists and structs can be
given inline.

Keys that match no property are ignored and listed, unless --strict or the
strict_remainder config option is set.

Examples:
  kit validate --schema server.cue --set port=8080
  kit validate --schema server --input values.toml
  kit validate --schema server.cue example.com 8080
  kit validate --schema server.cue --set 'tags=["a", "b"]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, app, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.schema, "schema", "s", "", "schema file, or a schema name looked up in schema_dirs")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "document with input values")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "input value as name=value (repeatable)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject input keys that match no property")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runValidate(cmd *cobra.Command, app *App, opts validateOptions, args []string) error {
	s, err := app.loadSchema(opts.schema)
	if err != nil {
		return app.fail(err)
	}

	input, err := buildInput(opts, args)
	if err != nil {
		return app.fail(err)
	}

	m, err := s.NewManager(s, property.WithLogger(app.logger))
	if err != nil {
		return app.fail(schemaError(opts.schema, err))
	}

	var ignored map[any]any
	if !opts.strict && !app.cfg.StrictRemainder {
		if err := m.SetRemainderer(func(rest map[any]any) error {
			ignored = rest
			return nil
		}); err != nil {
			return app.fail(err)
		}
	}

	if err := m.Initialize(input); err != nil {
		return app.fail(initializeError(s.Name, err))
	}

	printValues(cmd.OutOrStdout(), s, m)
	printIgnored(cmd.ErrOrStderr(), ignored)
	return nil
}

// loadSchema resolves a schema reference through the config's schema
// directories and loads it. Schemas without a mode take the configured
// default mode.
func (a *App) loadSchema(ref string) (*schema.Schema, error) {
	path, err := a.cfg.FindSchema(ref)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("find schema").
			WithResource(ref).
			WithIssue(issue.SchemaNotFoundId).
			WithSuggestion("Pass a path to an existing schema file").
			Wrap(err).
			BuildError()
	}

	s, err := schema.Load(path)
	if err != nil {
		return nil, schemaError(path, err)
	}
	if s.Mode == "" {
		s.Mode = a.cfg.DefaultMode
	}
	a.logger.Debug("loaded schema", "path", path, "name", s.Name, "properties", len(s.Properties))
	return s, nil
}

func schemaError(resource string, err error) error {
	id := issue.SchemaParseErrorId
	if errors.Is(err, schema.ErrInvalidSchema) {
		id = issue.InvalidSchemaId
	}
	return issue.NewErrorContext().
		WithOperation("load schema").
		WithResource(resource).
		WithIssue(id).
		Wrap(err).
		BuildError()
}

// initializeError links initialization failures to their catalogued issue.
func initializeError(name string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("initialize properties").
		WithResource(name)

	var missing *property.MissingRequiredPropertyError
	switch {
	case errors.As(err, &missing):
		ctx.WithIssue(issue.MissingRequiredPropertiesId)
		for _, n := range missing.Names {
			ctx.WithSuggestion(fmt.Sprintf("Provide %s with --set %s=VALUE", n, n))
		}
	case errors.Is(err, property.ErrInvalidValue):
		ctx.WithIssue(issue.InvalidValueId)
	case errors.Is(err, property.ErrModeViolation):
		ctx.WithIssue(issue.ModeViolationId)
	case errors.Is(err, property.ErrPropertyNotFound):
		ctx.WithIssue(issue.UnknownPropertyId).
			WithSuggestion("Drop --strict to ignore unknown input")
	}

	return ctx.Wrap(err).BuildError()
}

// buildInput merges the input document, --set flags and positional values.
func buildInput(opts validateOptions, args []string) (map[any]any, error) {
	input := make(map[any]any)

	if opts.input != "" {
		values, err := schema.LoadValues(opts.input)
		if err != nil {
			return nil, valuesError(opts.input, err)
		}
		for k, v := range values {
			input[k] = v
		}
	}

	for _, set := range opts.sets {
		name, raw, ok := strings.Cut(set, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, valuesError("--set "+set, errors.New("expected name=value"))
		}
		v, err := parseSetValue(name, raw)
		if err != nil {
			return nil, valuesError("--set "+set, err)
		}
		input[name] = v
	}

	for i, arg := range args {
		input[i] = arg
	}

	return input, nil
}

// parseSetValue returns raw unchanged unless it opens a CUE list, struct or
// quoted string.
func parseSetValue(name, raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !strings.ContainsRune(`[{"`, rune(trimmed[0])) {
		return raw, nil
	}
	doc, err := cueutil.DecodeMap([]byte("v: "+trimmed), cueutil.WithFilename(name))
	if err != nil {
		return nil, err
	}
	return doc["v"], nil
}

func valuesError(resource string, err error) error {
	return issue.NewErrorContext().
		WithOperation("read input values").
		WithResource(resource).
		WithIssue(issue.ValuesParseErrorId).
		Wrap(err).
		BuildError()
}

// printValues lists every declared property with its mode and value.
func printValues(w io.Writer, s *schema.Schema, m *property.Manager) {
	fmt.Fprintf(w, "%s %s\n\n", SuccessStyle.Render("✓"), TitleStyle.Render(s.Name))

	for _, d := range s.Properties {
		p, err := m.Property(d.Name)
		if err != nil {
			fmt.Fprintf(w, "  %s %s %s\n", modeStyle.Render(""), KeyStyle.Render(d.Name), ErrorStyle.Render(err.Error()))
			continue
		}
		tag := modeStyle.Render("[" + p.Mode().String() + "]")
		if !p.Mode().Readable() {
			fmt.Fprintf(w, "  %s %s %s\n", tag, KeyStyle.Render(d.Name), SubtitleStyle.Render("(not readable)"))
			continue
		}
		v, err := m.Get(d.Name)
		if err != nil {
			fmt.Fprintf(w, "  %s %s %s\n", tag, KeyStyle.Render(d.Name), ErrorStyle.Render(err.Error()))
			continue
		}
		fmt.Fprintf(w, "  %s %s = %s\n", tag, KeyStyle.Render(d.Name), SuccessStyle.Render(formatValue(v)))
	}
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func printIgnored(w io.Writer, ignored map[any]any) {
	if len(ignored) == 0 {
		return
	}
	keys := make([]string, 0, len(ignored))
	for k := range ignored {
		keys = append(keys, fmt.Sprint(k))
	}
	slices.Sort(keys)
	fmt.Fprintf(w, "\n%s ignored input: %s\n", WarningStyle.Render("!"), strings.Join(keys, ", "))
}
