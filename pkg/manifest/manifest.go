// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"strings"
)

type (
	// Manifest is the declarative asset universe of one application.
	Manifest struct {
		App        App          `json:"app" toml:"app"`
		Components []Component  `json:"components,omitempty" toml:"components"`
		Assets     []ExtraAsset `json:"assets,omitempty" toml:"assets"`
		Data       []DataEntry  `json:"data,omitempty" toml:"data"`
	}

	// App carries application-level identity.
	App struct {
		Name  string `json:"name" toml:"name"`
		Entry string `json:"entry,omitempty" toml:"entry"`
	}

	// Component declares one namespaced unit of script and/or style source.
	// Inline text and remote URI are mutually exclusive per kind.
	Component struct {
		Namespace string   `json:"namespace" toml:"namespace"`
		Script    string   `json:"script,omitempty" toml:"script"`
		ScriptURI string   `json:"script_uri,omitempty" toml:"script_uri"`
		Style     string   `json:"style,omitempty" toml:"style"`
		StyleURI  string   `json:"style_uri,omitempty" toml:"style_uri"`
		Deps      []string `json:"deps,omitempty" toml:"deps"`
		Exports   []string `json:"exports,omitempty" toml:"exports"`
	}

	// ExtraAsset declares a shared asset outside the component catalog,
	// optionally associated with a namespace and optionally lazy.
	ExtraAsset struct {
		Name      string `json:"name" toml:"name"`
		Text      string `json:"text,omitempty" toml:"text"`
		URI       string `json:"uri,omitempty" toml:"uri"`
		Namespace string `json:"namespace,omitempty" toml:"namespace"`
		Lazy      bool   `json:"lazy,omitempty" toml:"lazy"`
	}

	// DataEntry declares a shared data blob, inline or fetched from a URI.
	DataEntry struct {
		Name string `json:"name" toml:"name"`
		Text string `json:"text,omitempty" toml:"text"`
		URI  string `json:"uri,omitempty" toml:"uri"`
	}
)

// EntryNamespace returns the configured entry namespace, falling back to
// the application name.
func (m *Manifest) EntryNamespace() string {
	if m.App.Entry != "" {
		return m.App.Entry
	}
	return m.App.Name
}

// Validate checks the manifest's cross-field rules. The CUE schema already
// enforces shapes for CUE input; this pass covers TOML input and the rules
// the schema cannot express.
func (m *Manifest) Validate() error {
	if m.App.Name == "" {
		return fmt.Errorf("manifest: app.name is required")
	}

	seen := make(map[string]bool, len(m.Components))
	for i, c := range m.Components {
		if c.Namespace == "" {
			return fmt.Errorf("manifest: components[%d]: namespace is required", i)
		}
		if seen[c.Namespace] {
			return fmt.Errorf("manifest: components[%d]: duplicate namespace %q", i, c.Namespace)
		}
		seen[c.Namespace] = true
		if c.Script != "" && c.ScriptURI != "" {
			return fmt.Errorf("manifest: component %q: script and script_uri are mutually exclusive", c.Namespace)
		}
		if c.Style != "" && c.StyleURI != "" {
			return fmt.Errorf("manifest: component %q: style and style_uri are mutually exclusive", c.Namespace)
		}
		if c.Script == "" && c.ScriptURI == "" && c.Style == "" && c.StyleURI == "" {
			return fmt.Errorf("manifest: component %q: needs script or style source", c.Namespace)
		}
	}

	for i, a := range m.Assets {
		if !strings.HasSuffix(a.Name, ".js") && !strings.HasSuffix(a.Name, ".css") {
			return fmt.Errorf("manifest: assets[%d]: name %q needs a .js or .css suffix", i, a.Name)
		}
		if (a.Text == "") == (a.URI == "") {
			return fmt.Errorf("manifest: asset %q: exactly one of text and uri is required", a.Name)
		}
	}

	for i, d := range m.Data {
		if d.Name == "" {
			return fmt.Errorf("manifest: data[%d]: name is required", i)
		}
		if d.Text != "" && d.URI != "" {
			return fmt.Errorf("manifest: data %q: text and uri are mutually exclusive", d.Name)
		}
	}
	return nil
}
