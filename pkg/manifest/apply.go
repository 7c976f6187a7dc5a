// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"fmt"

	"assetforge/pkg/asset"
	"assetforge/pkg/store"
)

// Apply populates the store from the manifest: components enter the
// catalog, extra assets are registered (and associated where a namespace is
// named), and data entries are added. URI data entries are fetched eagerly,
// so a dead URI fails the apply rather than a later export.
//
// Component assets themselves are materialized later by store discovery.
func (m *Manifest) Apply(ctx context.Context, st *store.Store) error {
	for _, c := range m.Components {
		def := store.ComponentDef{
			Namespace: c.Namespace,
			Script:    c.Script,
			Style:     c.Style,
			Deps:      c.Deps,
			Exports:   c.Exports,
		}
		if c.ScriptURI != "" {
			def.Script = c.ScriptURI
			def.ScriptRemote = true
		}
		if c.StyleURI != "" {
			def.Style = c.StyleURI
			def.StyleRemote = true
		}
		if err := st.Define(def); err != nil {
			return fmt.Errorf("manifest: component %q: %w", c.Namespace, err)
		}
	}

	for _, decl := range m.Assets {
		src := asset.Inline(decl.Text)
		if decl.URI != "" {
			src = asset.Remote(decl.URI)
		}
		var opts []asset.Option
		if decl.Lazy {
			opts = append(opts, asset.WithLazy())
		}
		a, err := asset.New(decl.Name, src, opts...)
		if err != nil {
			return fmt.Errorf("manifest: asset %q: %w", decl.Name, err)
		}
		if decl.Namespace != "" {
			err = st.AssociateAsset(decl.Namespace, a)
		} else {
			err = st.RegisterShared(a)
		}
		if err != nil {
			return fmt.Errorf("manifest: asset %q: %w", decl.Name, err)
		}
	}

	for _, d := range m.Data {
		var err error
		if d.URI != "" {
			_, err = st.AddSharedDataFromURI(ctx, d.Name, d.URI)
		} else {
			_, err = st.AddSharedData(d.Name, []byte(d.Text))
		}
		if err != nil {
			return fmt.Errorf("manifest: data %q: %w", d.Name, err)
		}
	}
	return nil
}
