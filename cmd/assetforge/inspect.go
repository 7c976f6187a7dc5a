// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"assetforge/internal/issue"
	"assetforge/pkg/asset"
	"assetforge/pkg/store"

	"github.com/spf13/cobra"
)

// inspectCmd lists namespaces, bundles, shared assets and the load order.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show namespaces, bundles and the composed load order",
	Long: `Show what the manifest resolves to: every component namespace with
its dependencies and exports, the bundles discovery produced, the
shared assets and data, and the load order a fresh page would get.`,
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	st, m, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("App") + " " + NameStyle.Render(m.App.Name) +
		SubtitleStyle.Render(" (entry: "+m.EntryNamespace()+")"))
	fmt.Println()

	fmt.Println(TitleStyle.Render("Components"))
	var missing []string
	for _, ns := range st.Namespaces() {
		def, ok := st.Definition(ns)
		if !ok {
			continue
		}
		line := "  " + NameStyle.Render(ns)
		if len(def.Deps) > 0 {
			line += SubtitleStyle.Render(" -> " + strings.Join(def.Deps, ", "))
		}
		if len(def.Exports) > 0 {
			line += VerboseStyle.Render(" exports " + strings.Join(def.Exports, ", "))
		}
		fmt.Println(line)

		for _, dep := range def.Deps {
			if _, ok := st.Definition(dep); !ok {
				missing = append(missing, ns+" -> "+dep)
			}
		}
	}
	fmt.Println()

	if len(missing) > 0 && cfg.WarnMissingDeps {
		rendered, _ := issue.Get(issue.MissingDependencyId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		for _, edge := range missing {
			fmt.Fprintln(os.Stderr, WarningStyle.Render("! ")+"missing dependency "+NameStyle.Render(edge))
		}
	}

	fmt.Println(TitleStyle.Render("Bundles"))
	seen := map[string]bool{}
	for _, ns := range st.Namespaces() {
		bundleNS := store.TruncateNamespace(ns, cfg.BundleLevel)
		if seen[bundleNS] {
			continue
		}
		seen[bundleNS] = true
		for _, kind := range []asset.Kind{asset.KindScript, asset.KindStyle} {
			if b := st.NamespaceBundle(bundleNS, kind); b != nil {
				fmt.Printf("  %s %s\n",
					NameStyle.Render(store.BundleName(bundleNS, kind)),
					SubtitleStyle.Render(fmt.Sprintf("(%d members)", b.Len())))
			}
		}
	}
	fmt.Println()

	if names := st.AssetNames(); len(names) > 0 {
		fmt.Println(TitleStyle.Render("Shared assets"))
		for _, name := range names {
			fmt.Println("  " + NameStyle.Render(name))
		}
		fmt.Println()
	}
	if names := st.DataNames(); len(names) > 0 {
		fmt.Println(TitleStyle.Render("Shared data"))
		for _, name := range names {
			fmt.Println("  " + NameStyle.Render(name))
		}
		fmt.Println()
	}

	// Compose a throwaway session's document to show the real load order.
	sess, err := newCLISession(ctx, st, m, cfg)
	if err != nil {
		return classified(err)
	}
	defer sess.Close()

	doc, err := sess.ComposeInitialDocument(ctx, true)
	if err != nil {
		return classified(err)
	}

	fmt.Println(TitleStyle.Render("Load order"))
	for _, d := range doc.Styles {
		fmt.Println("  " + VerboseStyle.Render("style ") + NameStyle.Render(d.Name()))
	}
	for _, d := range doc.Scripts {
		fmt.Println("  " + VerboseStyle.Render("script") + " " + NameStyle.Render(d.Name()))
	}

	return nil
}
