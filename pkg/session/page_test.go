// SPDX-License-Identifier: MPL-2.0

package session_test

import (
	"context"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"assetforge/pkg/asset"
	"assetforge/pkg/session"
	"assetforge/pkg/store"
)

func TestPage_LinkModeGolden(t *testing.T) {
	t.Parallel()

	st := store.New()
	if err := st.Define(store.ComponentDef{
		Namespace: "ui.button",
		Script:    "var button;",
		Style:     ".button {border: none}",
	}); err != nil {
		t.Fatal(err)
	}

	s, _ := newSession(t, st)
	ctx := context.Background()
	if err := s.UseNamespace(ctx, "ui.button"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddLocalAsset(ctx, mustAsset(t, "custom.js", "var custom;")); err != nil {
		t.Fatal(err)
	}

	page, err := s.Page(ctx, true, asset.LinkFile)
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}

	// The session id is the only nondeterministic part of the page.
	normalized := strings.ReplaceAll(page, s.ID(), "SESSION_ID")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "page_link", []byte(normalized))
}

func TestPage_EmbedMode(t *testing.T) {
	t.Parallel()

	st := store.New()
	if err := st.Define(store.ComponentDef{Namespace: "ui.button", Script: "var button;"}); err != nil {
		t.Fatal(err)
	}

	s, _ := newSession(t, st)
	ctx := context.Background()
	if err := s.UseNamespace(ctx, "ui.button"); err != nil {
		t.Fatal(err)
	}

	page, err := s.Page(ctx, true, asset.LinkEmbed)
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}

	for _, want := range []string{
		"<!doctype html>",
		"<title>demo</title>",
		"<body id='body'>",
		"<!-- Contents:",
		"- reset.css",
		"- " + session.InitAssetName,
		"- " + store.LoaderName,
		"- " + store.SupportName,
		"- ui.button-bundle.js",
		"<style id='reset.css'>",
		"<script id='" + store.LoaderName + "'>",
		"<script id='ui.button-bundle.js'>",
		"var button;",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(page, "ASSET-HOOK") {
		t.Error("hook marker survived substitution")
	}
	if strings.Contains(page, "src=") {
		t.Error("embed mode page links to external files")
	}
}

func TestPage_StylesPrecedeScripts(t *testing.T) {
	t.Parallel()

	st := store.New()
	if err := st.Define(store.ComponentDef{Namespace: "ui.button", Script: "var b;", Style: ".b {}"}); err != nil {
		t.Fatal(err)
	}

	s, _ := newSession(t, st)
	ctx := context.Background()
	if err := s.UseNamespace(ctx, "ui.button"); err != nil {
		t.Fatal(err)
	}
	page, err := s.Page(ctx, true, asset.LinkFile)
	if err != nil {
		t.Fatal(err)
	}

	style := strings.Index(page, "ui.button-bundle.css")
	script := strings.Index(page, "ui.button-bundle.js")
	if style == -1 || script == -1 || style > script {
		t.Errorf("style tag at %d, script tag at %d: want styles first", style, script)
	}
}

func TestPage_RejectsFileURIRemotes(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, store.New())
	ctx := context.Background()
	if err := s.AddLocalAsset(ctx, asset.MustNew("mine.js", asset.Remote("file:///opt/mine.js"))); err != nil {
		t.Fatal(err)
	}

	_, err := s.Page(ctx, true, asset.LinkFile)
	if err == nil || !strings.Contains(err.Error(), "file://") {
		t.Fatalf("Page() error = %v, want file:// rejection", err)
	}
}

func TestPageForExport_UsesExportLayout(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, store.New())
	page, err := s.PageForExport(context.Background(), []string{"EVAL init()"}, asset.LinkFile)
	if err != nil {
		t.Fatalf("PageForExport() error = %v", err)
	}

	if !strings.Contains(page, "_assets/shared/"+store.LoaderName) {
		t.Error("export page does not link assets under _assets/shared")
	}
	if strings.Contains(page, "/assets/shared/") {
		t.Error("export page links to live server paths")
	}
	if !strings.Contains(page, "src='_assets/demo/"+session.ExportAssetName+"'") {
		t.Errorf("export page does not link the replay asset under the app scope:\n%s", page)
	}
}
