// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"assetforge/pkg/manifest"

	"github.com/spf13/cobra"
)

var (
	initForce bool

	// initCmd creates a new manifest
	initCmd = &cobra.Command{
		Use:   "init [app-name]",
		Short: "Create a starter manifest in the current directory",
		Long: `Create a starter manifest in the current directory.

This command generates a manifest.cue with a sample component pair
(a library component and an entry component depending on it) to help
you get started quickly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing manifest")
}

func runInit(cmd *cobra.Command, args []string) error {
	appName := "myapp"
	if len(args) > 0 {
		appName = args[0]
	}

	filename := manifest.DefaultFileName
	if manifestFile != "" {
		filename = manifestFile
	}

	// Check if file exists
	if _, err := os.Stat(filename); err == nil && !initForce {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	content := manifest.Starter(appName)
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Edit the manifest to add your components")
	fmt.Println("  2. Run 'assetforge inspect' to see bundles and load order")
	fmt.Println("  3. Run 'assetforge serve' to preview the app")

	return nil
}
