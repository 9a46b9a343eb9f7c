// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/invowk/kit/internal/cueutil"
	"github.com/invowk/kit/internal/issue"
	"github.com/invowk/kit/pkg/schema"
)

const (
	// AppName is the application name.
	AppName = "kit"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variables that override config keys,
	// e.g. KIT_UI_VERBOSE for ui.verbose.
	EnvPrefix = "KIT"
)

// ErrSchemaNotFound is returned when a schema name matches no file.
var ErrSchemaNotFound = errors.New("schema not found")

//go:embed config_schema.cue
var configSchema string

// SchemaNotFoundError is returned by FindSchema when no candidate file exists.
type SchemaNotFoundError struct {
	Name     string
	Searched []string
}

// ConfigDir returns the kit directory under the user configuration root
// (os.UserConfigDir), unless an override is in effect.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	root, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(root, AppName), nil
}

// loadWithOptions performs option-driven config loading and returns the
// configuration together with the path of the file it came from ("" when
// only defaults and environment were used).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("default_mode", defaults.DefaultMode.String())
	v.SetDefault("strict_remainder", defaults.StrictRemainder)
	v.SetDefault("schema_dirs", defaults.SchemaDirs)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme.String())
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("log.level", defaults.Log.Level.String())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'kit config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", cueLoadError(opts.ConfigFilePath, err)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}

		for _, candidate := range []string{
			filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
			ConfigFileName + "." + ConfigFileExt,
		} {
			if !fileExists(candidate) {
				continue
			}
			if err := loadCUEIntoViper(v, candidate); err != nil {
				return nil, "", cueLoadError(candidate, err)
			}
			resolvedPath = candidate
			break
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the CUE schema.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for typos").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func cueLoadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("See 'kit config --help' for configuration options").
		Wrap(err).
		BuildError()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper checks the file at path against #Config and merges the
// keys it sets over the viper defaults. Every #Config field is optional, so
// unification is not required to be concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecode[map[string]any]([]byte(configSchema), data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("merge config: %w", err)
	}
	return nil
}

// FindSchema resolves a schema reference. A reference naming an existing file
// is returned as is; otherwise each schema directory is searched for the name
// with every supported format extension appended.
func (c *Config) FindSchema(name string) (string, error) {
	if fileExists(name) {
		return name, nil
	}

	var searched []string
	for _, dir := range c.SchemaDirs {
		for _, format := range schema.Formats() {
			candidate := filepath.Join(string(dir), name+"."+format.String())
			searched = append(searched, candidate)
			if fileExists(candidate) {
				return candidate, nil
			}
		}
	}

	return "", &SchemaNotFoundError{Name: name, Searched: searched}
}

// Error implements the error interface.
func (e *SchemaNotFoundError) Error() string {
	if len(e.Searched) == 0 {
		return fmt.Sprintf("schema %q not found", e.Name)
	}
	return fmt.Sprintf("schema %q not found (searched %s)", e.Name, strings.Join(e.Searched, ", "))
}

// Unwrap returns ErrSchemaNotFound for errors.Is() compatibility.
func (e *SchemaNotFoundError) Unwrap() error { return ErrSchemaNotFound }

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// Path returns the location of the user config file.
func Path() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// CreateDefaultConfig creates a default config file if it doesn't exist and
// reports whether a file was written.
func CreateDefaultConfig() (bool, error) {
	cfgPath, err := Path()
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return false, nil
	}

	if err := Save(DefaultConfig()); err != nil {
		return false, err
	}
	return true, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath, err := Path()
	if err != nil {
		return err
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Encode renders the configuration as CUE, TOML or YAML.
func Encode(cfg *Config, format schema.Format) ([]byte, error) {
	switch format {
	case schema.FormatCUE:
		return []byte(GenerateCUE(cfg)), nil
	case schema.FormatTOML:
		return toml.Marshal(cfg)
	case schema.FormatYAML:
		return yaml.Marshal(cfg)
	default:
		return nil, &schema.UnknownFormatError{Value: format.String()}
	}
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// kit configuration file\n\n")

	fmt.Fprintf(&sb, "default_mode: %q\n", cfg.DefaultMode)
	fmt.Fprintf(&sb, "strict_remainder: %v\n", cfg.StrictRemainder)

	if len(cfg.SchemaDirs) > 0 {
		sb.WriteString("\nschema_dirs: [\n")
		for _, dir := range cfg.SchemaDirs {
			fmt.Fprintf(&sb, "\t%q,\n", dir)
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	sb.WriteString("}\n")

	return sb.String()
}
