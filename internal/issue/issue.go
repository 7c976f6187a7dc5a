// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	NamespaceNotFoundId
	DependencyCycleId
	MissingDependencyId
	AssetFetchFailedId
	DuplicateAssetId
	ConfigLoadFailedId
	InvalidLinkModeId
	ExportFailedId
	ServerStartFailedId
	SessionAlreadyServedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No manifest found!

We searched for an asset manifest but couldn't find one in the expected
locations.

## Search locations (in order of precedence):
1. The path given with --manifest
2. manifest.cue in the current directory
3. manifest.toml in the current directory

## Things you can try:
- Create a starter manifest in your current directory:
~~~
$ assetforge init
~~~

- Or point at an existing one:
~~~
$ assetforge inspect --manifest path/to/manifest.cue
~~~

## Example manifest structure:
~~~cue
app: {
	name: "demo"
}

components: [
	{
		namespace: "demo.main"
		script:    "console.log('hello');"
	},
]
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse manifest!

Your manifest contains syntax errors or invalid configuration.

## Common issues:
- Invalid CUE or TOML syntax (missing quotes, braces, etc.)
- Unknown field names
- A component with both inline script and script_uri
- Asset names without a .js or .css suffix

## Things you can try:
- Check the error message above for the specific field path
- Validate CUE syntax with the cue command-line tool
- Run with verbose mode for more details:
~~~
$ assetforge --verbose inspect
~~~

## Example of a valid component definition:
~~~cue
components: [
	{
		namespace: "ui.button"
		script:    "var button = {};"
		style:     ".button { border: none }"
		deps: ["ui.theme"]
		exports: ["button"]
	},
]
~~~`,
	}

	namespaceNotFoundIssue = &Issue{
		id: NamespaceNotFoundId,
		mdMsg: `
# Namespace not found!

The namespace you referenced is not defined in the store. Bundles are
only produced for namespaces that have at least one component.

## Things you can try:
- List all known namespaces and bundles:
~~~
$ assetforge inspect
~~~

- Check for typos in the namespace name
- Verify the manifest defines a component under that namespace
- If an asset was rejected for a namespace mismatch, make sure its
  name sits under the namespace of the bundle it targets`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Your component dependencies form a cycle, so no load order exists that
satisfies all of them.

## Example of a cycle:
~~~cue
components: [
	{
		namespace: "a"
		script:    "..."
		deps: ["b"]
	},
	{
		namespace: "b"
		script:    "..."
		deps: ["a"]  // Cycle: a -> b -> a
	},
]
~~~

## Things you can try:
- Review the deps fields in your manifest
- Break the cycle by extracting the shared code into a third component
- Use a linear dependency chain instead`,
	}

	missingDependencyIssue = &Issue{
		id: MissingDependencyId,
		mdMsg: `
# Missing dependency!

A component depends on a namespace that no component defines. The
solver keeps going and places what it can, but the resulting load order
may break at runtime.

## Things you can try:
- Define the missing component in your manifest
- Remove the stale entry from the component's deps list
- Silence the warning if the dependency is provided out of band:
~~~cue
warn_missing_deps: false
~~~`,
	}

	assetFetchFailedIssue = &Issue{
		id: AssetFetchFailedId,
		mdMsg: `
# Failed to fetch remote asset!

An asset with a remote URI could not be downloaded.

## Common causes:
- No network connectivity
- The URI returns a non-200 status
- The fetch exceeded the configured timeout

## Things you can try:
- Check the URI in a browser or with curl
- Raise the timeout in your config:
~~~cue
fetch_timeout_seconds: 30
~~~

- Use link_mode: "remote" so the browser fetches it instead:
~~~cue
link_mode: "remote"
~~~`,
	}

	duplicateAssetIssue = &Issue{
		id: DuplicateAssetId,
		mdMsg: `
# Duplicate asset name!

An asset with this name is already registered. Asset names are unique
within the shared store and within each session.

## Things you can try:
- Rename one of the conflicting assets in your manifest
- If you meant to shadow a shared asset for one session, add the local
  asset before the session's page is served`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the assetforge configuration file.

## Configuration file locations:
- Linux: ~/.config/assetforge/config.cue
- macOS: ~/Library/Application Support/assetforge/config.cue
- Windows: %APPDATA%\assetforge\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ assetforge config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/assetforge/config.cue
~~~

## Example configuration:
~~~cue
bundle_level: 2
link_mode:    "embed"

export: {
	dir: "./dist"
}

ui: {
	color_scheme: "auto"
	verbose:      false
}
~~~`,
	}

	invalidLinkModeIssue = &Issue{
		id: InvalidLinkModeId,
		mdMsg: `
# Invalid link mode!

The specified link mode is not recognized.

## Valid link modes:
- **embed**: Inline every asset's text into the page
- **file**: Reference assets served from the asset endpoint
- **remote**: Reference remote assets at their original URI

## Example:
~~~cue
link_mode: "file"
~~~`,
	}

	exportFailedIssue = &Issue{
		id: ExportFailedId,
		mdMsg: `
# Export failed!

Could not write the standalone export to disk.

## Common causes:
- The export directory is not writable
- A remote asset could not be fetched for embedding
- The disk is full

## Things you can try:
- Check permissions on the export directory
- Point the export somewhere else:
~~~
$ assetforge export --dir /tmp/dist
~~~

- Clear stale contents first:
~~~cue
export: {
	clear: true
}
~~~`,
	}

	serverStartFailedIssue = &Issue{
		id: ServerStartFailedId,
		mdMsg: `
# Failed to start the preview server!

The preview server could not bind to its address.

## Common causes:
- The port is already in use
- The address is not local to this machine
- Binding to a privileged port without permission

## Things you can try:
- Pick a different port:
~~~
$ assetforge serve --addr localhost:9090
~~~

- Find out what holds the port:
~~~
$ lsof -i :8088
~~~`,
	}

	sessionAlreadyServedIssue = &Issue{
		id: SessionAlreadyServedId,
		mdMsg: `
# Session already served!

This session's page has already been composed and delivered. Local
assets added afterwards are pushed live over the transport instead of
entering the page, and the page itself cannot be re-rendered.

## Things you can try:
- Create a fresh session for a new page
- Add local assets before rendering if they must appear in the page`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():     manifestNotFoundIssue,
		manifestParseErrorIssue.Id():   manifestParseErrorIssue,
		namespaceNotFoundIssue.Id():    namespaceNotFoundIssue,
		dependencyCycleIssue.Id():      dependencyCycleIssue,
		missingDependencyIssue.Id():    missingDependencyIssue,
		assetFetchFailedIssue.Id():     assetFetchFailedIssue,
		duplicateAssetIssue.Id():       duplicateAssetIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		invalidLinkModeIssue.Id():      invalidLinkModeIssue,
		exportFailedIssue.Id():         exportFailedIssue,
		serverStartFailedIssue.Id():    serverStartFailedIssue,
		sessionAlreadyServedIssue.Id(): sessionAlreadyServedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
