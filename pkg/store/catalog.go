// SPDX-License-Identifier: MPL-2.0

package store

import (
	"strings"

	"assetforge/pkg/asset"
)

type (
	// ComponentDef declares a namespace's content before discovery
	// materializes it into assets and bundles. Definitions typically come
	// from a manifest (see pkg/manifest) but can be registered directly.
	ComponentDef struct {
		// Namespace is the hierarchical dot-separated name, e.g. "ui.widgets".
		Namespace string
		// Script is the script body, or a remote URI when ScriptRemote.
		Script string
		// ScriptRemote marks Script as a URI fetched lazily.
		ScriptRemote bool
		// Style is the style body, or a remote URI when StyleRemote.
		Style string
		// StyleRemote marks Style as a URI fetched lazily.
		StyleRemote bool
		// Deps are namespaces this component depends on.
		Deps []string
		// Exports are the symbol names the script module exposes. A nil
		// slice with a non-empty Script still produces a module, just one
		// without exported names.
		Exports []string
	}
)

// scriptDeps converts namespace deps into module dep entries: each namespace
// dep resolves to that namespace's script asset, and the support module is
// always available.
func (d ComponentDef) scriptDeps() []string {
	deps := make([]string, 0, len(d.Deps)+1)
	deps = append(deps, SupportName+" as support")
	for _, ns := range d.Deps {
		deps = append(deps, ns+".js as "+argAlias(ns))
	}
	return deps
}

// argAlias derives a factory argument name from a namespace.
func argAlias(ns string) string {
	return strings.ReplaceAll(ns, ".", "_")
}

// BundleName returns the bundle asset name covering ns for the given kind,
// e.g. BundleName("ui.widgets", asset.KindScript) == "ui.widgets-bundle.js".
// The "-bundle" marker keeps bundle names from colliding with the leaf
// namespace assets they contain.
func BundleName(ns string, kind asset.Kind) string {
	return ns + "-bundle" + string(kind)
}

// namespacePrefixes returns every ancestor of ns including ns itself, root
// first: "a.b.c" yields ["a", "a.b", "a.b.c"].
func namespacePrefixes(ns string) []string {
	var out []string
	for i := 0; i < len(ns); i++ {
		if ns[i] == '.' {
			out = append(out, ns[:i])
		}
	}
	return append(out, ns)
}

// TruncateNamespace collapses ns to at most level dots-separated segments.
// A non-positive level disables truncation.
func TruncateNamespace(ns string, level int) string {
	if level <= 0 {
		return ns
	}
	parts := strings.Split(ns, ".")
	if len(parts) <= level {
		return ns
	}
	return strings.Join(parts[:level], ".")
}
