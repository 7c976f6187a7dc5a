// SPDX-License-Identifier: MPL-2.0

package manifest

import "fmt"

// Starter renders a minimal working manifest for a new project, used by the
// init command. The result parses cleanly with ParseCUE.
func Starter(appName string) string {
	return fmt.Sprintf(`// assetforge manifest. See 'assetforge docs' for the full format.

app: {
	name: %q
}

components: [
	{
		namespace: "lib.greeting"
		script: """
			var greeting = 'hello from %s';
			"""
		exports: ["greeting"]
	},
	{
		namespace: %q
		script: """
			document.body.textContent = lib_greeting.greeting;
			"""
		deps: ["lib.greeting"]
		style: """
			body {font-family: sans-serif}
			"""
	},
]
`, appName, appName, appName+".main")
}
