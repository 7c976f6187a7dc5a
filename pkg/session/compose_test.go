// SPDX-License-Identifier: MPL-2.0

package session_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"assetforge/pkg/asset"
	"assetforge/pkg/session"
	"assetforge/pkg/store"
)

func namesOf(list []session.Deliverable) []string {
	out := make([]string, len(list))
	for i, d := range list {
		out[i] = d.Name()
	}
	return out
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func TestCompose_BootstrapPrefix(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, store.New())
	doc, err := s.ComposeInitialDocument(context.Background(), true)
	if err != nil {
		t.Fatalf("ComposeInitialDocument() error = %v", err)
	}

	scripts := namesOf(doc.Scripts)
	wantPrefix := []string{session.InitAssetName, store.LoaderName, store.SupportName}
	if len(scripts) < len(wantPrefix) {
		t.Fatalf("Scripts = %v, want prefix %v", scripts, wantPrefix)
	}
	for i, want := range wantPrefix {
		if scripts[i] != want {
			t.Errorf("Scripts[%d] = %q, want %q", i, scripts[i], want)
		}
	}

	styles := namesOf(doc.Styles)
	if len(styles) == 0 || styles[0] != store.ResetStyleName {
		t.Errorf("Styles = %v, want %q first", styles, store.ResetStyleName)
	}
}

func TestCompose_NoStyleReset(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, store.New())
	doc, err := s.ComposeInitialDocument(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if indexOf(namesOf(doc.Styles), store.ResetStyleName) != -1 {
		t.Errorf("Styles = %v, reset requested off", namesOf(doc.Styles))
	}
}

func TestCompose_InitScriptCarriesIdentity(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, store.New())
	doc, err := s.ComposeInitialDocument(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	text, err := doc.Scripts[0].Text(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, `app_name: "demo"`) {
		t.Errorf("init script missing app name: %q", text)
	}
	if !strings.Contains(text, s.ID()) {
		t.Errorf("init script missing session id: %q", text)
	}
}

func TestCompose_BundleDependencyOrder(t *testing.T) {
	t.Parallel()

	st := store.New()
	for _, def := range []store.ComponentDef{
		{Namespace: "lib.core", Script: "var core;"},
		{Namespace: "lib.gfx", Script: "var gfx;", Deps: []string{"lib.core"}},
		{Namespace: "demo.main", Script: "var m;", Deps: []string{"lib.gfx"}},
	} {
		if err := st.Define(def); err != nil {
			t.Fatal(err)
		}
	}

	s, _ := newSession(t, st)
	ctx := context.Background()
	// Use in reverse dependency order; composition must still put deps first.
	if err := s.UseNamespace(ctx, "demo.main"); err != nil {
		t.Fatal(err)
	}

	doc, err := s.ComposeInitialDocument(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	scripts := namesOf(doc.Scripts)

	core := indexOf(scripts, "lib.core-bundle.js")
	gfx := indexOf(scripts, "lib.gfx-bundle.js")
	main := indexOf(scripts, "demo.main-bundle.js")
	if core == -1 || gfx == -1 || main == -1 {
		t.Fatalf("Scripts = %v, missing bundles", scripts)
	}
	if !(core < gfx && gfx < main) {
		t.Errorf("bundle order %v: want lib.core < lib.gfx < demo.main", scripts)
	}
}

func TestCompose_TruncatedDependencyOrder(t *testing.T) {
	t.Parallel()

	st := store.New()
	// alpha.app sorts before zed.util by name; only the dependency on a
	// namespace below zed.util's bundle level can put zed.util first.
	for _, def := range []store.ComponentDef{
		{Namespace: "zed.util.strings", Script: "var s;"},
		{Namespace: "alpha.app", Script: "var a;", Deps: []string{"zed.util.strings"}},
	} {
		if err := st.Define(def); err != nil {
			t.Fatal(err)
		}
	}

	s, _ := newSession(t, st) // default level 2
	ctx := context.Background()
	if err := s.UseNamespace(ctx, "alpha.app"); err != nil {
		t.Fatal(err)
	}

	doc, err := s.ComposeInitialDocument(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	scripts := namesOf(doc.Scripts)
	util := indexOf(scripts, "zed.util-bundle.js")
	app := indexOf(scripts, "alpha.app-bundle.js")
	if util == -1 || app == -1 {
		t.Fatalf("Scripts = %v, missing bundles", scripts)
	}
	if util > app {
		t.Errorf("bundle order %v: want zed.util before its dependent alpha.app", scripts)
	}
}

func TestCompose_WarnMissingDeps(t *testing.T) {
	t.Parallel()

	st := store.New()
	if err := st.Define(store.ComponentDef{
		Namespace: "demo.main",
		Script:    "var m;",
		Deps:      []string{"lib.nowhere"},
	}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	s, _ := newSession(t, st,
		session.WithWarnMissingDeps(true),
		session.WithLogger(log.New(&buf)))
	ctx := context.Background()
	if err := s.UseNamespace(ctx, "demo.main"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.ComposeInitialDocument(ctx, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "missing dependency") {
		t.Errorf("log output %q, want a missing dependency warning", buf.String())
	}
}

func TestCompose_EntryNamespaceSortsLast(t *testing.T) {
	t.Parallel()

	st := store.New()
	// "demo" sorts before "widgets" alphabetically; the entry rule must
	// still place it last. No declared deps between the two.
	for _, def := range []store.ComponentDef{
		{Namespace: "demo.app", Script: "var app;"},
		{Namespace: "widgets.button", Script: "var b;"},
	} {
		if err := st.Define(def); err != nil {
			t.Fatal(err)
		}
	}

	s, _ := newSession(t, st)
	ctx := context.Background()
	if err := s.UseNamespace(ctx, "demo.app"); err != nil {
		t.Fatal(err)
	}
	if err := s.UseNamespace(ctx, "widgets.button"); err != nil {
		t.Fatal(err)
	}

	doc, err := s.ComposeInitialDocument(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	scripts := namesOf(doc.Scripts)
	if !(indexOf(scripts, "widgets.button-bundle.js") < indexOf(scripts, "demo.app-bundle.js")) {
		t.Errorf("Scripts = %v, want entry-rooted demo.app bundle last", scripts)
	}
}

func TestCompose_BundleLevelTruncation(t *testing.T) {
	t.Parallel()

	st := store.New()
	if err := st.Define(store.ComponentDef{Namespace: "ui.widgets.button", Script: "var b;"}); err != nil {
		t.Fatal(err)
	}

	s, _ := newSession(t, st) // default level 2
	ctx := context.Background()
	if err := s.UseNamespace(ctx, "ui.widgets.button"); err != nil {
		t.Fatal(err)
	}

	doc, err := s.ComposeInitialDocument(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	scripts := namesOf(doc.Scripts)
	if indexOf(scripts, "ui.widgets-bundle.js") == -1 {
		t.Errorf("Scripts = %v, want the level-2 ancestor bundle", scripts)
	}
	if indexOf(scripts, "ui.widgets.button-bundle.js") != -1 {
		t.Errorf("Scripts = %v, leaf bundle should be covered by its ancestor", scripts)
	}
}

func TestCompose_AssociatedAssets(t *testing.T) {
	t.Parallel()

	st := store.New()
	if err := st.Define(store.ComponentDef{Namespace: "maps.tiles", Script: "var t;"}); err != nil {
		t.Fatal(err)
	}
	if err := st.Discover(context.Background()); err != nil {
		t.Fatal(err)
	}

	eager := mustAsset(t, "leaflet.js", "var L;")
	lazyA := mustAsset(t, "heatmap.js", "var H;", asset.WithLazy())
	if err := st.AssociateAsset("maps.tiles", eager); err != nil {
		t.Fatal(err)
	}
	if err := st.AssociateAsset("maps.tiles", lazyA); err != nil {
		t.Fatal(err)
	}

	// A session that never uses maps.tiles sees neither asset.
	idle, _ := newSession(t, st)
	doc, err := idle.ComposeInitialDocument(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if scripts := namesOf(doc.Scripts); indexOf(scripts, "leaflet.js") != -1 || indexOf(scripts, "heatmap.js") != -1 {
		t.Errorf("idle session Scripts = %v, want no associated assets", scripts)
	}

	// A session that uses it gets the eager asset before the bundle and the
	// lazy asset trailing the main sequence.
	s, _ := newSession(t, st)
	ctx := context.Background()
	if err := s.UseNamespace(ctx, "maps.tiles"); err != nil {
		t.Fatal(err)
	}
	doc, err = s.ComposeInitialDocument(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	scripts := namesOf(doc.Scripts)
	eagerAt := indexOf(scripts, "leaflet.js")
	bundleAt := indexOf(scripts, "maps.tiles-bundle.js")
	lazyAt := indexOf(scripts, "heatmap.js")
	if eagerAt == -1 || bundleAt == -1 || lazyAt == -1 {
		t.Fatalf("Scripts = %v, missing deliverables", scripts)
	}
	if !(eagerAt < bundleAt && bundleAt < lazyAt) {
		t.Errorf("Scripts = %v, want eager < bundle < lazy", scripts)
	}
}

func TestCompose_NoDuplicateDeliverables(t *testing.T) {
	t.Parallel()

	st := store.New()
	shared := mustAsset(t, "vendor.js", "var v;")
	for _, def := range []store.ComponentDef{
		{Namespace: "a.x", Script: "var ax;"},
		{Namespace: "b.y", Script: "var by;", Deps: []string{"a.x"}},
	} {
		if err := st.Define(def); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.Discover(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Same eager asset associated with both namespaces.
	if err := st.AssociateAsset("a.x", shared); err != nil {
		t.Fatal(err)
	}
	if err := st.AssociateAsset("b.y", shared); err != nil {
		t.Fatal(err)
	}

	s, _ := newSession(t, st)
	ctx := context.Background()
	if err := s.UseNamespace(ctx, "b.y"); err != nil {
		t.Fatal(err)
	}
	doc, err := s.ComposeInitialDocument(ctx, true)
	if err != nil {
		t.Fatal(err)
	}

	counts := make(map[string]int)
	for _, n := range namesOf(doc.Scripts) {
		counts[n]++
	}
	for _, n := range namesOf(doc.Styles) {
		counts[n]++
	}
	for name, c := range counts {
		if c > 1 {
			t.Errorf("deliverable %q appears %d times", name, c)
		}
	}
}

func TestCompose_LocalAssetsTrailByKind(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, store.New())
	ctx := context.Background()
	if err := s.AddLocalAsset(ctx, mustAsset(t, "extra.css", ".x {}")); err != nil {
		t.Fatal(err)
	}
	if err := s.AddLocalAsset(ctx, mustAsset(t, "extra.js", "var x;")); err != nil {
		t.Fatal(err)
	}

	doc, err := s.ComposeInitialDocument(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	scripts, styles := namesOf(doc.Scripts), namesOf(doc.Styles)
	if scripts[len(scripts)-1] != "extra.js" {
		t.Errorf("Scripts = %v, want extra.js last", scripts)
	}
	if styles[len(styles)-1] != "extra.css" {
		t.Errorf("Styles = %v, want extra.css last", styles)
	}
}

func TestComposeExportDocument_CommitsDeliveredNames(t *testing.T) {
	t.Parallel()

	st := store.New()
	for _, def := range []store.ComponentDef{
		{Namespace: "demo.main", Script: "var m;"},
		{Namespace: "demo.main.widgets", Script: "var w;"},
	} {
		if err := st.Define(def); err != nil {
			t.Fatal(err)
		}
	}

	s, tr := newSession(t, st)
	ctx := context.Background()
	if err := s.UseNamespace(ctx, "demo.main"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ComposeExportDocument(ctx, nil, true); err != nil {
		t.Fatal(err)
	}

	// Shadow rule: the loader went out with the document, so a local asset
	// may no longer take its name.
	err := s.AddLocalAsset(ctx, mustAsset(t, store.LoaderName, "var fake;"))
	var dup *store.DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("AddLocalAsset(%s) error = %v, want DuplicateNameError", store.LoaderName, err)
	}

	// A namespace covered by an already-composed bundle must not re-push it.
	if err := s.UseNamespace(ctx, "demo.main.widgets"); err != nil {
		t.Fatal(err)
	}
	for _, name := range tr.names() {
		if name == "demo.main-bundle.js" || name == "demo.main-bundle.css" {
			t.Errorf("pushes = %v, re-delivered a bundle the export document carries", tr.names())
		}
	}
}

func TestComposeExportDocument_ReplayAsset(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, store.New())
	ctx := context.Background()

	doc, err := s.ComposeExportDocument(ctx, []string{"SET title 'hi'", "EVAL init()"}, true)
	if err != nil {
		t.Fatalf("ComposeExportDocument() error = %v", err)
	}
	if !s.Served() {
		t.Error("Served() = false after export composition")
	}

	idx := indexOf(namesOf(doc.Scripts), session.ExportAssetName)
	if idx == -1 {
		t.Fatalf("Scripts = %v, missing replay asset", namesOf(doc.Scripts))
	}
	text, err := doc.Scripts[idx].Text(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"forge.is_exported = true;",
		"forge.runExportedApp = function () {",
		`forge.command("SET title 'hi'");`,
		`forge.command("EVAL init()");`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("replay script missing %q:\n%s", want, text)
		}
	}
}
