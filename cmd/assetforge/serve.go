// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"assetforge/internal/config"
	"assetforge/internal/issue"
	"assetforge/internal/server"

	"github.com/spf13/cobra"
)

var (
	serveAddr     string
	serveLinkMode string

	// serveCmd runs the preview server until interrupted.
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the preview server",
		Long: `Start the preview server.

Every page load composes a fresh session against the shared store.
Assets are served under /assets/<scope>/<name> and data under
/_data/<scope>/<name>, where scope is 'shared' or a session id.`,
		RunE: runServe,
	}
)

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config, then localhost:8088)")
	serveCmd.Flags().StringVar(&serveLinkMode, "link-mode", "", "override the configured link mode (embed, file, remote)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr.String()
	}
	mode := cfg.LinkMode
	if serveLinkMode != "" {
		mode = config.LinkMode(serveLinkMode)
		if ok, errs := mode.IsValid(); !ok {
			return classified(errs[0])
		}
	}

	st, m, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}

	// The config knob uses 0 for "no truncation"; the server reserves 0 for
	// its own default, so map it to the negative form.
	level := cfg.BundleLevel
	if level == 0 {
		level = -1
	}

	srv := server.New(st, server.Config{
		Addr:           addr,
		AppName:        m.App.Name,
		EntryNamespace: m.EntryNamespace(),
		LinkMode:       linkModeFor(mode),
		StyleReset:     true,
		BundleLevel:    level,
	}, server.WithLogger(cliLogger()))

	if err := srv.Start(ctx); err != nil {
		rendered, _ := issue.Get(issue.ServerStartFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return issue.NewErrorContext().
			WithOperation("start preview server").
			WithResource(addr).
			WithSuggestion("Pick a different port with --addr").
			Wrap(err).
			BuildError()
	}

	fmt.Printf("%s Serving %s at %s\n",
		SuccessStyle.Render("✓"),
		NameStyle.Render(m.App.Name),
		NameStyle.Render(srv.URL()))
	fmt.Println(SubtitleStyle.Render("Press Ctrl+C to stop"))

	// Block until interrupted (fang cancels the context) or the server fails.
	select {
	case <-ctx.Done():
		return srv.Stop()
	case err := <-srv.Err():
		_ = srv.Stop()
		return err
	}
}
