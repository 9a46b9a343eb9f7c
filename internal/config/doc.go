// SPDX-License-Identifier: MPL-2.0

// Package config handles kit CLI configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/kit/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/kit/config.cue on macOS, %APPDATA%\kit\config.cue
// on Windows), then from ./config.cue. KIT_* environment variables override file
// values. The package covers the default manager mode, strict handling of unknown
// input keys, schema search directories, UI settings and the log level.
//
// Files are validated against the CUE schema in config_schema.cue.
package config
