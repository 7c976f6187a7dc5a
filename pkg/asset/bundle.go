// SPDX-License-Identifier: MPL-2.0

package asset

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"assetforge/internal/ordset"
	"assetforge/internal/solver"
)

type (
	// Bundle is an aggregate Asset whose body is the dependency-ordered
	// concatenation of member assets sharing a hierarchical namespace.
	//
	// Membership is append-only and guarded by a namespace-prefix check.
	// The member order is recomputed lazily whenever membership changed
	// since the last computation, so bundle content is fully determined by
	// membership and the dependency graph, never by insertion order alone.
	Bundle struct {
		*Asset

		namespace string
		members   []*Asset
		deps      *ordset.Set
		stale     bool
	}
)

// NewBundle creates an empty Bundle. The name carries the kind suffix like
// any asset name ("ui.widgets.js", "app-bundle.css"); the bundle's namespace
// is derived from it via Namespace.
func NewBundle(name string) (*Bundle, error) {
	kind, ok := kindOf(name)
	if !ok {
		return nil, &InvalidAssetError{Name: name, Reason: "name must end in .js or .css"}
	}
	// The aggregate bypasses New's non-empty source check: an empty bundle
	// legitimately renders to just its table of contents.
	base := &Asset{
		name:          name,
		kind:          kind,
		creationIndex: creationCounter.Add(1),
	}
	return &Bundle{
		Asset:     base,
		namespace: base.Namespace(),
		deps:      ordset.New(),
	}, nil
}

// Add appends an asset to the bundle. The asset's namespace must equal the
// bundle's namespace or extend it below the hierarchical separator;
// otherwise NamespaceMismatchError is returned.
//
// The member's dependencies are merged into the bundle's unresolved set with
// every hierarchical prefix expanded (a dep "a.b.c" contributes "a.b.c",
// "a.b" and "a" as candidates), then any candidate covered by this bundle's
// own namespace is elided.
func (b *Bundle) Add(a *Asset) error {
	ns := a.Namespace()
	if ns != b.namespace && !strings.HasPrefix(ns, b.namespace+".") {
		return &NamespaceMismatchError{Bundle: b.name, Asset: a.Name()}
	}

	b.members = append(b.members, a)
	b.stale = true

	for _, dep := range a.Deps() {
		for dep != "" {
			b.deps.Add(dep)
			i := strings.LastIndex(dep, ".")
			if i < 0 {
				break
			}
			dep = dep[:i]
		}
	}

	// Elide deps satisfied by bundle membership: anything at or below our
	// namespace, and any ancestor of it.
	for _, dep := range b.deps.Keys() {
		if dep == b.namespace ||
			strings.HasPrefix(dep, b.namespace+".") ||
			strings.HasPrefix(b.namespace, dep+".") {
			b.deps.Remove(dep)
		}
	}
	return nil
}

// Namespace returns the hierarchical namespace this bundle covers.
func (b *Bundle) Namespace() string {
	return b.namespace
}

// Deps returns the unresolved external dependency namespaces: the union of
// member deps minus everything covered by the bundle's own namespace.
func (b *Bundle) Deps() []string {
	return b.deps.Keys()
}

// Members returns the member assets, sorted by name for determinism and then
// dependency-solved. The order is cached until membership changes.
func (b *Bundle) Members() ([]*Asset, error) {
	if b.stale {
		sort.Slice(b.members, func(i, j int) bool {
			return b.members[i].Name() < b.members[j].Name()
		})
		sorted, err := solver.Solve(memberViews(b.members))
		if err != nil {
			return nil, err
		}
		ordered := make([]*Asset, len(sorted))
		for i, v := range sorted {
			ordered[i] = v.asset
		}
		b.members = ordered
		b.stale = false
	}
	return b.members, nil
}

type memberView struct {
	asset *Asset
	deps  []string
}

func (v memberView) Name() string   { return v.asset.Name() }
func (v memberView) Deps() []string { return v.deps }

// memberViews adapts members for the solver, normalizing each declared dep to
// the member asset that satisfies it. Deps may name a member directly
// ("m.a.js") or by namespace ("m.a"); both resolve to the member's name so
// the solver can order on exact matches.
func memberViews(members []*Asset) []memberView {
	byName := make(map[string]bool, len(members))
	byNamespace := make(map[string]string, len(members))
	for _, m := range members {
		byName[m.Name()] = true
		byNamespace[m.Namespace()] = m.Name()
	}

	views := make([]memberView, len(members))
	for i, m := range members {
		deps := make([]string, 0, len(m.Deps()))
		for _, dep := range m.Deps() {
			if !byName[dep] {
				if resolved, ok := byNamespace[dep]; ok {
					dep = resolved
				}
			}
			deps = append(deps, dep)
		}
		views[i] = memberView{asset: m, deps: deps}
	}
	return views
}

// Len returns the number of member assets.
func (b *Bundle) Len() int {
	return len(b.members)
}

// Text renders the bundle: a table-of-contents comment followed by each
// member's text, delimited by a banner naming the member.
func (b *Bundle) Text(ctx context.Context) (string, error) {
	members, err := b.Members()
	if err != nil {
		return "", err
	}

	var toc, parts []string
	for _, m := range members {
		text, err := m.Text(ctx)
		if err != nil {
			return "", err
		}
		toc = append(toc, "- "+m.Name())
		parts = append(parts, banner(m.Name()), text)
	}

	header := fmt.Sprintf("/* Bundle contents:\n%s\n*/\n", strings.Join(toc, "\n"))
	return header + "\n\n" + strings.Join(parts, "\n\n"), nil
}

// Tag renders the bundle's HTML element. Embed mode inlines the full bundle
// text; link modes delegate to the underlying asset tag.
func (b *Bundle) Tag(ctx context.Context, pathTemplate string, mode LinkMode) (string, error) {
	if mode != LinkEmbed {
		return b.Asset.Tag(ctx, pathTemplate, mode)
	}
	text, err := b.Text(ctx)
	if err != nil {
		return "", err
	}
	switch b.kind {
	case KindStyle:
		return fmt.Sprintf("<style id='%s'>%s</style>", b.name, text), nil
	default:
		return fmt.Sprintf("<script id='%s'>%s</script>", b.name, text), nil
	}
}

// banner renders a human-readable member delimiter, e.g.
//
//	/* ========================= ui.widgets.js ========================= */
func banner(name string) string {
	label := " " + name + " "
	pad := 70 - len(label)
	if pad < 0 {
		pad = 0
	}
	left := pad / 2
	right := pad - left
	return "/* " + strings.Repeat("=", left) + label + strings.Repeat("=", right) + "*/"
}
