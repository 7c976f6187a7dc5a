// SPDX-License-Identifier: MPL-2.0

package main

import cmd "assetforge/cmd/assetforge"

func main() {
	cmd.Execute()
}
