// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// guideMarkdown is the built-in user guide rendered by `assetforge docs`.
const guideMarkdown = `# assetforge

assetforge resolves script and style components into dependency-ordered
bundles and composes them into HTML pages.

## Concepts

- **Component**: a namespaced script (and optional style) with declared
  dependencies and exports. Scripts are wrapped as AMD-flavored modules
  loaded through the forge loader.
- **Namespace**: dotted identifier like ` + "`ui.widgets.button`" + `. The first
  segments (up to ` + "`bundle_level`" + `, default 2) pick the bundle a
  component lands in.
- **Bundle**: concatenation of a namespace subtree's components in
  dependency order, one for scripts and one for styles.
- **Session**: one client's view of the store. It picks up bundles for the
  namespaces it uses, can shadow shared assets with local ones before the
  page is served, and receives live pushes afterwards.

## Workflow

1. ` + "`assetforge init myapp`" + ` writes a starter manifest.
2. Edit ` + "`manifest.cue`" + ` (or a TOML equivalent) to define components,
   extra assets and data.
3. ` + "`assetforge inspect`" + ` shows namespaces, bundles and load order.
4. ` + "`assetforge serve`" + ` previews the app; every page load is a fresh
   session.
5. ` + "`assetforge export`" + ` writes a standalone static site with all
   remote assets prefetched.

## Manifest

~~~cue
app: {
	name: "myapp"
}

components: [
	{
		namespace: "lib.greeting"
		script:    "var greeting = 'hello';"
		exports: ["greeting"]
	},
	{
		namespace: "myapp.main"
		script:    "console.log(lib_greeting.greeting);"
		deps: ["lib.greeting"]
	},
]
~~~

Run ` + "`assetforge config show`" + ` to see the active configuration.`

// docsCmd renders the built-in guide to the terminal.
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the built-in guide",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := glamour.Render(guideMarkdown, "auto")
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}
