// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the kit CLI commands.
//
// Commands are built per App so tests can run them in-process with their
// own writers and configuration provider.
package cmd
