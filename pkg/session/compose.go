// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"assetforge/internal/ordset"
	"assetforge/internal/solver"
	"assetforge/pkg/asset"
	"assetforge/pkg/store"
)

// InitAssetName is the synthetic script carrying the session id and
// application name. The "embed/" prefix forces inline rendering even in
// link mode; there is no file to link to.
const InitAssetName = "embed/forge-init.js"

// ExportAssetName is the synthetic script that replays a command log at load
// time for server-less static exports.
const ExportAssetName = "forge-export.js"

type (
	// Document is the composed, ordered delivery list for a client: styles
	// first, then scripts, both deduplicated and dependency-ordered.
	Document struct {
		Scripts []Deliverable
		Styles  []Deliverable
	}

	// bundleView adapts a bundle for the solver: its namespace deps are
	// normalized to the names of the chosen bundles that cover them.
	bundleView struct {
		bundle *asset.Bundle
		deps   []string
	}
)

func (v bundleView) Name() string   { return v.bundle.Name() }
func (v bundleView) Deps() []string { return v.deps }

// ComposeInitialDocument linearizes everything the session needs into the
// first document: the bootstrap prefix, the dependency-ordered bundles
// covering the used namespaces with their associated assets, the use-gated
// lazy assets, and the queued session-local assets.
//
// Only valid while unserved; on success the session flips to served, and a
// second call fails with AlreadyServedError.
func (s *Session) ComposeInitialDocument(ctx context.Context, includeStyleReset bool) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.served {
		return nil, &AlreadyServedError{ID: s.id}
	}

	doc, err := s.composeLocked(ctx, includeStyleReset)
	if err != nil {
		return nil, err
	}

	s.commitServeLocked(doc)
	return doc, nil
}

// ComposeExportDocument is ComposeInitialDocument plus a synthetic asset
// replaying the given command log at load time, for a server-less export.
func (s *Session) ComposeExportDocument(ctx context.Context, commands []string, includeStyleReset bool) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.served {
		return nil, &AlreadyServedError{ID: s.id}
	}

	if !s.localOrder.Has(ExportAssetName) {
		replay, err := asset.New(ExportAssetName, asset.Inline(exportReplayScript(commands)))
		if err != nil {
			return nil, err
		}
		s.localOrder.Add(ExportAssetName)
		s.local[ExportAssetName] = replay
	}

	doc, err := s.composeLocked(ctx, includeStyleReset)
	if err != nil {
		return nil, err
	}
	s.commitServeLocked(doc)
	return doc, nil
}

// commitServeLocked flips the session to served, recording every namespace,
// bundle and delivered name the document carries. Runs only after a fully
// successful composition so a failed compose leaves the session unserved.
func (s *Session) commitServeLocked(doc *Document) {
	for _, ns := range s.used.Keys() {
		s.loaded[ns] = true
		s.deliveredBundles[store.TruncateNamespace(ns, s.level)] = true
	}
	for _, d := range append(append([]Deliverable{}, doc.Styles...), doc.Scripts...) {
		if !s.localOrder.Has(d.Name()) {
			s.referenced[d.Name()] = true
		}
		s.pushed[d.Name()] = true
	}
	s.served = true
}

// composeLocked builds the document without committing any session state.
func (s *Session) composeLocked(ctx context.Context, includeStyleReset bool) (*Document, error) {
	// Collapse used namespaces to the configured bundle depth.
	bundleNamespaces := ordset.New()
	for _, ns := range s.used.Keys() {
		bundleNamespaces.Add(store.TruncateNamespace(ns, s.level))
	}

	// Collect existing script bundles, sorted by name with entry-point
	// namespaces last so app code runs after its dependencies are defined.
	var scriptBundles []*asset.Bundle
	for _, ns := range bundleNamespaces.Keys() {
		if b := s.store.NamespaceBundle(ns, asset.KindScript); b != nil {
			scriptBundles = append(scriptBundles, b)
		}
	}
	sort.SliceStable(scriptBundles, func(i, j int) bool {
		ei, ej := s.isEntryRooted(scriptBundles[i].Namespace()), s.isEntryRooted(scriptBundles[j].Namespace())
		if ei != ej {
			return !ei
		}
		return scriptBundles[i].Name() < scriptBundles[j].Name()
	})

	ordered, err := s.solveBundles(scriptBundles)
	if err != nil {
		return nil, err
	}

	// Namespace delivery order := solved script bundle order, then any
	// style-only namespaces in name order.
	nsOrder := ordset.New()
	for _, b := range ordered {
		nsOrder.Add(b.Namespace())
	}
	var styleOnly []string
	for _, ns := range bundleNamespaces.Keys() {
		if !nsOrder.Has(ns) && s.store.NamespaceBundle(ns, asset.KindStyle) != nil {
			styleOnly = append(styleOnly, ns)
		}
	}
	sort.Strings(styleOnly)
	for _, ns := range styleOnly {
		nsOrder.Add(ns)
	}

	doc := &Document{}
	seen := make(map[string]bool)

	appendDeliverable := func(list *[]Deliverable, d Deliverable) {
		if seen[d.Name()] {
			return
		}
		seen[d.Name()] = true
		*list = append(*list, d)
	}

	// Main sequence: each bundle preceded by its non-lazy associated assets.
	for _, ns := range nsOrder.Keys() {
		for _, a := range s.associatedForBundleLocked(ns) {
			if a.IsLazy() {
				continue
			}
			target := &doc.Scripts
			if a.Kind() == asset.KindStyle {
				target = &doc.Styles
			}
			appendDeliverable(target, a)
		}
		if b := s.store.NamespaceBundle(ns, asset.KindScript); b != nil {
			appendDeliverable(&doc.Scripts, b)
		}
		if b := s.store.NamespaceBundle(ns, asset.KindStyle); b != nil {
			appendDeliverable(&doc.Styles, b)
		}
	}

	// Lazy assets are gated on use, not on load: everything associated with
	// a namespace the session actually uses trails the main sequence.
	for _, ns := range s.used.Keys() {
		for _, a := range s.store.Associated(ns) {
			if !a.IsLazy() {
				continue
			}
			target := &doc.Scripts
			if a.Kind() == asset.KindStyle {
				target = &doc.Styles
			}
			appendDeliverable(target, a)
		}
	}

	// Queued session-local assets.
	for _, name := range s.localOrder.Keys() {
		a := s.local[name]
		target := &doc.Scripts
		if a.Kind() == asset.KindStyle {
			target = &doc.Styles
		}
		appendDeliverable(target, a)
	}

	// Bootstrap prefix, fixed order: init payload, module loader, support
	// module ahead of all scripts; style reset ahead of all styles.
	initAsset, err := asset.New(InitAssetName, asset.Inline(s.initScript()))
	if err != nil {
		return nil, err
	}
	prefix := []Deliverable{initAsset}
	if loader := s.store.Lookup(store.LoaderName); loader != nil {
		prefix = append(prefix, loader)
	}
	if support := s.store.Lookup(store.SupportName); support != nil {
		prefix = append(prefix, support)
	}
	doc.Scripts = append(prefix, doc.Scripts...)
	seen[store.LoaderName] = true
	seen[store.SupportName] = true

	if includeStyleReset {
		if reset := s.store.Lookup(store.ResetStyleName); reset != nil {
			doc.Styles = append([]Deliverable{reset}, doc.Styles...)
		}
	}
	return doc, nil
}

// associatedForBundleLocked collects the associated assets delivered with
// the bundle covering ns: the bundle namespace's own associations plus those
// of every used namespace it covers, deduplicated in association order.
func (s *Session) associatedForBundleLocked(bundleNS string) []*asset.Asset {
	var out []*asset.Asset
	names := make(map[string]bool)
	add := func(assets []*asset.Asset) {
		for _, a := range assets {
			if !names[a.Name()] {
				names[a.Name()] = true
				out = append(out, a)
			}
		}
	}
	add(s.store.Associated(bundleNS))
	for _, used := range s.used.Keys() {
		if used != bundleNS && store.TruncateNamespace(used, s.level) == bundleNS {
			add(s.store.Associated(used))
		}
	}
	return out
}

// isEntryRooted reports whether ns lives under the entry-point namespace.
func (s *Session) isEntryRooted(ns string) bool {
	if s.entry == "" {
		return false
	}
	return ns == s.entry || strings.HasPrefix(ns, s.entry+".")
}

// initScript renders the synthetic initialization payload.
func (s *Session) initScript() string {
	return fmt.Sprintf("var forge = {app_name: %q, session_id: %q};", s.appName, s.id)
}

// exportReplayScript renders the command replay module for static exports.
func exportReplayScript(commands []string) string {
	var b strings.Builder
	b.WriteString("forge.is_exported = true;\n\n")
	b.WriteString("forge.runExportedApp = function () {\n")
	for _, cmd := range commands {
		enc, _ := json.Marshal(cmd)
		fmt.Fprintf(&b, "    forge.command(%s);\n", enc)
	}
	b.WriteString("};\n")
	return b.String()
}

// solveBundles orders bundles so every bundle follows the bundles covering
// its namespace deps. A dep is covered by the chosen bundle whose namespace
// equals the dep truncated to the session's bundle level; deps nothing
// covers are left to the solver's missing-dep handling.
func (s *Session) solveBundles(bundles []*asset.Bundle) ([]*asset.Bundle, error) {
	byNamespace := make(map[string]string, len(bundles))
	for _, b := range bundles {
		byNamespace[b.Namespace()] = b.Name()
	}

	views := make([]bundleView, len(bundles))
	for i, b := range bundles {
		var deps []string
		for _, dep := range b.Deps() {
			if name, ok := byNamespace[dep]; ok {
				deps = append(deps, name)
				continue
			}
			if name, ok := byNamespace[store.TruncateNamespace(dep, s.level)]; ok {
				deps = append(deps, name)
				continue
			}
			deps = append(deps, dep)
		}
		views[i] = bundleView{bundle: b, deps: deps}
	}

	solved, err := solver.Solve(views,
		solver.WithWarnMissing(s.warnMissing),
		solver.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	out := make([]*asset.Bundle, len(solved))
	for i, v := range solved {
		out[i] = v.bundle
	}
	return out, nil
}
