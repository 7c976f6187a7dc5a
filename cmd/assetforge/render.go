// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"assetforge/internal/config"

	"github.com/spf13/cobra"
)

var (
	renderOutput   string
	renderLinkMode string
	renderNoReset  bool

	// renderCmd composes the page and writes it to stdout or a file.
	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Compose the initial page and print it",
		Long: `Compose the initial page for a fresh session and print the HTML.

The link mode controls delivery: 'embed' inlines every asset, 'file'
links them under the asset endpoint, 'remote' keeps remote assets at
their original URI.`,
		RunE: runRender,
	}
)

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write the page to a file instead of stdout")
	renderCmd.Flags().StringVar(&renderLinkMode, "link-mode", "", "override the configured link mode (embed, file, remote)")
	renderCmd.Flags().BoolVar(&renderNoReset, "no-style-reset", false, "omit the style reset")
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	mode := cfg.LinkMode
	if renderLinkMode != "" {
		mode = config.LinkMode(renderLinkMode)
		if ok, errs := mode.IsValid(); !ok {
			return classified(errs[0])
		}
	}

	st, m, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	sess, err := newCLISession(ctx, st, m, cfg)
	if err != nil {
		return classified(err)
	}
	defer sess.Close()

	page, err := sess.Page(ctx, !renderNoReset, linkModeFor(mode))
	if err != nil {
		return classified(err)
	}

	if renderOutput == "" {
		fmt.Print(page)
		return nil
	}
	if err := os.WriteFile(renderOutput, []byte(page), 0o644); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	fmt.Printf("%s Wrote %s\n", SuccessStyle.Render("✓"), renderOutput)
	return nil
}
