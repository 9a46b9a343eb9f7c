// SPDX-License-Identifier: MPL-2.0

// Command kit builds property managers from schemas and reports the values
// they initialize to.
package main

import cmd "github.com/invowk/kit/cmd/kit"

func main() {
	cmd.Execute()
}
