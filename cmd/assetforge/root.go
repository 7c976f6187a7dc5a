// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for assetforge.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"assetforge/internal/config"
	"assetforge/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// manifestFile allows specifying a custom manifest path
	manifestFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "assetforge",
		Short: "An asset dependency resolver and bundler for hybrid web apps",
		Long: TitleStyle.Render("assetforge") + SubtitleStyle.Render(" - An asset dependency resolver and bundler") + `

assetforge turns a manifest of script and style components into
dependency-ordered bundles, composes them into HTML pages, serves
live previews, and exports standalone static sites.

Components are defined in 'manifest' files using CUE or TOML format
and are grouped into bundles by namespace.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a manifest in your project directory
  2. Define components with deps and exports
  3. Preview with: assetforge serve

` + SubtitleStyle.Render("Examples:") + `
  assetforge init myapp      Create a starter manifest
  assetforge inspect         List namespaces, bundles and load order
  assetforge render          Print the composed page
  assetforge export          Write a standalone static site
  assetforge serve           Start the preview server
  assetforge config show     Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/assetforge/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&manifestFile, "manifest", "m", "", "manifest file (default is ./manifest.cue or ./manifest.toml)")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(docsCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig loads the configuration once per invocation.
func initRootConfig() {
	cfg, err := loadConfig(context.Background())
	if err != nil {
		// Config problems never block a run; defaults carry it.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// issueIdFor maps an error to its catalog page. Engine errors carry their
// own types; the link-mode error lives in config, which the issue package
// cannot import, so it is matched here.
func issueIdFor(err error) (issue.Id, bool) {
	if id, ok := issue.Classify(err); ok {
		return id, true
	}
	if errors.Is(err, config.ErrInvalidLinkMode) {
		return issue.InvalidLinkModeId, true
	}
	return 0, false
}

// classified prints the catalog page for recognized failure classes to
// stderr before handing the error back to cobra.
func classified(err error) error {
	if err == nil {
		return nil
	}
	if id, ok := issueIdFor(err); ok {
		rendered, _ := issue.Get(id).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
	}
	return err
}

// loadConfig resolves the effective configuration, honoring --config.
func loadConfig(ctx context.Context) (*config.Config, error) {
	return config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
}
