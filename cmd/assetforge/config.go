// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"assetforge/internal/config"
	"assetforge/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `assetforge config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage assetforge configuration",
		Long: `Manage assetforge configuration.

Configuration is stored in:
  - Linux: ~/.config/assetforge/config.cue
  - macOS: ~/Library/Application Support/assetforge/config.cue
  - Windows: %APPDATA%\assetforge\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	keyStyle := NameStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	// Each call derives the path from the standard config directory; the
	// provider does not cache resolved paths.
	cfgDir, dirErr := config.ConfigDir()
	if dirErr == nil && fileExistsCheck(cfgDir+"/config.cue") {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), cfgDir+"/config.cue")
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("bundle_level"), valueStyle.Render(fmt.Sprintf("%d", cfg.BundleLevel)))
	fmt.Printf("%s: %s\n", keyStyle.Render("fetch_timeout_seconds"), valueStyle.Render(fmt.Sprintf("%d", cfg.FetchTimeoutSeconds)))
	fmt.Printf("%s: %s\n", keyStyle.Render("warn_missing_deps"), valueStyle.Render(fmt.Sprintf("%v", cfg.WarnMissingDeps)))
	fmt.Printf("%s: %s\n", keyStyle.Render("link_mode"), valueStyle.Render(cfg.LinkMode.String()))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("export"))
	if cfg.Export.Dir == "" {
		fmt.Printf("  dir: %s\n", SubtitleStyle.Render("(default "+config.DefaultExportDir+")"))
	} else {
		fmt.Printf("  dir: %s\n", valueStyle.Render(cfg.Export.Dir.String()))
	}
	fmt.Printf("  clear: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Export.Clear)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("server"))
	if cfg.Server.Addr == "" {
		fmt.Printf("  addr: %s\n", SubtitleStyle.Render("(default "+config.DefaultServerAddr+")"))
	} else {
		fmt.Printf("  addr: %s\n", valueStyle.Render(cfg.Server.Addr.String()))
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s/config.cue\n", SuccessStyle.Render("✓"), cfgDir)
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Println(cfgDir + "/config.cue")
	return nil
}

func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
