// SPDX-License-Identifier: MPL-2.0

// Package schema declares the properties of a host in a document instead of
// code. A schema lists typed declarations, is written in CUE, TOML, YAML or
// JSON, and is checked against an embedded CUE definition before use.
//
// A validated Schema builds property managers with NewManager, eagerly or
// lazily depending on the schema, and renders its documentation with
// Markdown.
package schema
