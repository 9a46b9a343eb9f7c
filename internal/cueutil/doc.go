// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Schema documents and the kit configuration file are all checked the same
// way:
//
//  1. Compile the embedded schema
//  2. Compile (or encode) the user data and unify it with the schema
//  3. Validate and decode to a Go struct
//
// Data that arrives in another format (TOML, YAML) is decoded to plain Go
// values first and encoded into CUE with ParseAndDecodeValue, so every
// format gets the same defaults, closedness and error paths.
//
// # Usage
//
//	//go:embed schema_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Schema](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Schema",
//	    cueutil.WithFilename("server.cue"),
//	)
//	if err != nil {
//	    return nil, err  // Error includes CUE path for debugging
//	}
//	return result.Value, nil
package cueutil
