// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"assetforge/internal/config"
	"assetforge/internal/issue"

	"github.com/spf13/cobra"
)

var (
	exportDir   string
	exportClear bool

	// exportCmd writes a standalone static site.
	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Write a standalone static export of the app",
		Long: `Write a standalone static export of the app.

The export contains the page as index.html, rendered asset text under
_assets/<scope>/ and raw data under _data/<scope>/. Remote assets are
prefetched so the result works without a network.`,
		RunE: runExport,
	}
)

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "export directory (default from config, then ./dist)")
	exportCmd.Flags().BoolVar(&exportClear, "clear", false, "remove the export directory first")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	dir := exportDir
	if dir == "" {
		dir = cfg.Export.Dir.String()
	}
	if dir == "" {
		dir = config.DefaultExportDir
	}
	clearFirst := exportClear || cfg.Export.Clear

	st, m, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}

	// Resolve every remote asset up front so a dead URI fails the export
	// before anything is written.
	if err := st.Prefetch(ctx); err != nil {
		return classified(issue.NewErrorContext().
			WithOperation("prefetch remote assets").
			WithSuggestion("Check the failing URI, or raise fetch_timeout_seconds").
			Wrap(err).
			BuildError())
	}

	if err := st.Export(ctx, dir, clearFirst); err != nil {
		return exportError(dir, err)
	}

	sess, err := newCLISession(ctx, st, m, cfg)
	if err != nil {
		return classified(err)
	}
	defer sess.Close()

	page, err := sess.PageForExport(ctx, nil, linkModeFor(cfg.LinkMode))
	if err != nil {
		return classified(err)
	}
	if err := sess.Export(ctx, dir, false); err != nil {
		return exportError(dir, err)
	}

	indexPath := filepath.Join(dir, "index.html")
	if err := os.WriteFile(indexPath, []byte(page), 0o644); err != nil {
		return exportError(dir, err)
	}

	absDir, _ := filepath.Abs(dir)
	fmt.Printf("%s Exported %s to %s\n", SuccessStyle.Render("✓"), NameStyle.Render(m.App.Name), absDir)
	return nil
}

func exportError(dir string, err error) error {
	return classified(issue.NewErrorContext().
		WithOperation("export app").
		WithResource(dir).
		WithSuggestion("Check permissions on the export directory").
		Wrap(err).
		BuildError())
}
