// SPDX-License-Identifier: MPL-2.0

package store_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"assetforge/pkg/asset"
	"assetforge/pkg/store"
)

func mustAsset(t *testing.T, name, src string, opts ...asset.Option) *asset.Asset {
	t.Helper()
	a, err := asset.New(name, asset.Inline(src), opts...)
	if err != nil {
		t.Fatalf("New(%q) error = %v", name, err)
	}
	return a
}

func TestNew_PreRegistersBootstrapAssets(t *testing.T) {
	t.Parallel()

	s := store.New()
	for _, name := range []string{store.ResetStyleName, store.LoaderName, store.SupportName} {
		if s.Lookup(name) == nil {
			t.Errorf("Lookup(%q) = nil, want bootstrap asset", name)
		}
	}
}

func TestRegisterShared_DuplicateLeavesRegistryUnchanged(t *testing.T) {
	t.Parallel()

	s := store.New()
	first := mustAsset(t, "app.js", "var first;")
	if err := s.RegisterShared(first); err != nil {
		t.Fatalf("RegisterShared() error = %v", err)
	}

	err := s.RegisterShared(mustAsset(t, "app.js", "var second;"))
	if !errors.Is(err, store.ErrDuplicateName) {
		t.Fatalf("duplicate RegisterShared() error = %v, want ErrDuplicateName", err)
	}

	got := s.Lookup("app.js")
	if got != first {
		t.Error("registry changed after failed registration")
	}
	text, err := got.Text(context.Background())
	if err != nil || text != "var first;" {
		t.Errorf("first entry modified: %q, %v", text, err)
	}
}

func TestRegisterShared_RemoteMayReplaceRemote(t *testing.T) {
	t.Parallel()

	s := store.New()
	old, _ := asset.New("cdn.js", asset.Remote("https://cdn.example.com/v1.js"))
	if err := s.RegisterShared(old); err != nil {
		t.Fatal(err)
	}

	replacement, _ := asset.New("cdn.js", asset.Remote("https://cdn.example.com/v2.js"))
	if err := s.RegisterShared(replacement); err != nil {
		t.Errorf("remote-over-remote RegisterShared() error = %v", err)
	}
	if got := s.Lookup("cdn.js").RemoteURI(); got != "https://cdn.example.com/v2.js" {
		t.Errorf("RemoteURI() = %q after replacement", got)
	}

	// A local asset must not displace the remote.
	err := s.RegisterShared(mustAsset(t, "cdn.js", "var local;"))
	if !errors.Is(err, store.ErrDuplicateName) {
		t.Errorf("local-over-remote error = %v, want ErrDuplicateName", err)
	}
}

func TestAddSharedData(t *testing.T) {
	t.Parallel()

	s := store.New()
	path, err := s.AddSharedData("icon.png", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("AddSharedData() error = %v", err)
	}
	if path != "_data/shared/icon.png" {
		t.Errorf("AddSharedData() path = %q", path)
	}
	if got := s.LookupData("icon.png"); len(got) != 3 {
		t.Errorf("LookupData() = %v", got)
	}

	if _, err := s.AddSharedData("icon.png", []byte{9}); !errors.Is(err, store.ErrDuplicateName) {
		t.Errorf("duplicate AddSharedData() error = %v, want ErrDuplicateName", err)
	}
	if got := s.LookupData("icon.png"); len(got) != 3 || got[0] != 1 {
		t.Error("data registry changed after failed add")
	}
	if s.LookupData("missing.png") != nil {
		t.Error("LookupData(missing) != nil, want nil on miss")
	}
}

func TestAddSharedDataFromURI(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "gone") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, "blobby")
	}))
	defer srv.Close()

	s := store.New()
	if _, err := s.AddSharedDataFromURI(context.Background(), "blob.bin", srv.URL+"/blob"); err != nil {
		t.Fatalf("AddSharedDataFromURI() error = %v", err)
	}
	if got := string(s.LookupData("blob.bin")); got != "blobby" {
		t.Errorf("LookupData() = %q", got)
	}

	_, err := s.AddSharedDataFromURI(context.Background(), "gone.bin", srv.URL+"/gone")
	if !errors.Is(err, asset.ErrFetch) {
		t.Errorf("failed fetch error = %v, want ErrFetch", err)
	}
	if s.LookupData("gone.bin") != nil {
		t.Error("failed fetch registered data anyway")
	}
}

func TestDiscover_BuildsBundleChain(t *testing.T) {
	t.Parallel()

	s := store.New()
	if err := s.Define(store.ComponentDef{
		Namespace: "ui.widgets.button",
		Script:    "var Button = 1;",
		Style:     ".button {border: 1px}",
		Exports:   []string{"Button"},
	}); err != nil {
		t.Fatalf("Define() error = %v", err)
	}

	if err := s.Discover(context.Background()); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if s.Lookup("ui.widgets.button.js") == nil {
		t.Error("leaf script asset not registered")
	}
	if s.Lookup("ui.widgets.button.css") == nil {
		t.Error("leaf style asset not registered")
	}

	for _, ns := range []string{"ui", "ui.widgets", "ui.widgets.button"} {
		b := s.NamespaceBundle(ns, asset.KindScript)
		if b == nil {
			t.Fatalf("script bundle for %q missing", ns)
		}
		if b.Len() != 1 {
			t.Errorf("bundle %q has %d members, want 1", b.Name(), b.Len())
		}
		if s.NamespaceBundle(ns, asset.KindStyle) == nil {
			t.Errorf("style bundle for %q missing", ns)
		}
	}
	if !s.IsDiscovered("ui.widgets.button") {
		t.Error("IsDiscovered() = false after Discover")
	}
}

func TestDiscover_Idempotent(t *testing.T) {
	t.Parallel()

	s := store.New()
	if err := s.Define(store.ComponentDef{Namespace: "app", Script: "var app;"}); err != nil {
		t.Fatal(err)
	}

	for range 3 {
		if err := s.Discover(context.Background()); err != nil {
			t.Fatalf("Discover() error = %v", err)
		}
	}

	if b := s.NamespaceBundle("app", asset.KindScript); b.Len() != 1 {
		t.Errorf("repeated Discover() grew bundle to %d members", b.Len())
	}
}

func TestDiscover_LaterDefinitionsJoinExistingChain(t *testing.T) {
	t.Parallel()

	s := store.New()
	ctx := context.Background()

	if err := s.Define(store.ComponentDef{Namespace: "lib.core", Script: "var core;"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Discover(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Define(store.ComponentDef{
		Namespace: "lib.extra",
		Script:    "var extra;",
		Deps:      []string{"lib.core"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Discover(ctx); err != nil {
		t.Fatal(err)
	}

	root := s.NamespaceBundle("lib", asset.KindScript)
	if root == nil || root.Len() != 2 {
		t.Fatalf("root bundle members = %v, want 2", root)
	}
	members, err := root.Members()
	if err != nil {
		t.Fatalf("Members() error = %v", err)
	}
	if members[0].Name() != "lib.core.js" || members[1].Name() != "lib.extra.js" {
		t.Errorf("member order = [%s, %s], want core before extra",
			members[0].Name(), members[1].Name())
	}
}

func TestAssociateAsset(t *testing.T) {
	t.Parallel()

	s := store.New()
	helper := mustAsset(t, "chart-helper.js", "var helper;")
	if err := s.AssociateAsset("charts", helper); err != nil {
		t.Fatalf("AssociateAsset() error = %v", err)
	}

	assoc := s.Associated("charts")
	if len(assoc) != 1 || assoc[0] != helper {
		t.Errorf("Associated() = %v", assoc)
	}
	if s.Lookup("chart-helper.js") == nil {
		t.Error("associated asset not registered as shared")
	}
	if got := s.Associated("unknown"); len(got) != 0 {
		t.Errorf("Associated(unknown) = %v, want empty", got)
	}
}

func TestExport_RoundTrip(t *testing.T) {
	t.Parallel()

	s := store.New()
	app := mustAsset(t, "app.js", "var app = 1;")
	if err := s.RegisterShared(app); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddSharedData("raw.bin", []byte{0xde, 0xad}); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "site")
	ctx := context.Background()
	if err := s.Export(ctx, dir, false); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	// Every registered asset's file must byte-match its rendered text.
	for _, name := range s.AssetNames() {
		got, err := os.ReadFile(filepath.Join(dir, "_assets", "shared", name))
		if err != nil {
			t.Fatalf("reading exported %q: %v", name, err)
		}
		var want string
		if b := s.LookupBundle(name); b != nil {
			want, err = b.Text(ctx)
		} else {
			want, err = s.Lookup(name).Text(ctx)
		}
		if err != nil {
			t.Fatalf("rendering %q: %v", name, err)
		}
		if string(got) != want {
			t.Errorf("exported %q differs from rendered text", name)
		}
	}

	blob, err := os.ReadFile(filepath.Join(dir, "_data", "shared", "raw.bin"))
	if err != nil || len(blob) != 2 {
		t.Errorf("exported data = %v, %v", blob, err)
	}
}

func TestPrefetch(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprintf(w, "// %s", r.URL.Path)
	}))
	defer srv.Close()

	s := store.New()
	for _, name := range []string{"one.js", "two.js"} {
		a, _ := asset.New(name, asset.Remote(srv.URL+"/"+name))
		if err := s.RegisterShared(a); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Prefetch(context.Background()); err != nil {
		t.Fatalf("Prefetch() error = %v", err)
	}
	if hits != 2 {
		t.Errorf("prefetch hit server %d times, want 2", hits)
	}

	// Subsequent renders come from cache.
	if _, err := s.Lookup("one.js").Text(context.Background()); err != nil {
		t.Fatal(err)
	}
	if hits != 2 {
		t.Errorf("render after prefetch refetched (hits = %d)", hits)
	}
}

func TestPrefetch_ReportsFetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := store.New()
	a, _ := asset.New("broken.js", asset.Remote(srv.URL))
	if err := s.RegisterShared(a); err != nil {
		t.Fatal(err)
	}

	err := s.Prefetch(context.Background())
	var fetchErr *asset.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Prefetch() error = %v, want *FetchError", err)
	}
	if fetchErr.Name != "broken.js" {
		t.Errorf("FetchError.Name = %q", fetchErr.Name)
	}
}
