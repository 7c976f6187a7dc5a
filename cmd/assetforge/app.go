// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"assetforge/internal/config"
	"assetforge/internal/issue"
	"assetforge/pkg/asset"
	"assetforge/pkg/manifest"
	"assetforge/pkg/session"
	"assetforge/pkg/store"

	"github.com/charmbracelet/log"
)

// tomlFileName is the fallback manifest looked up after manifest.DefaultFileName.
const tomlFileName = "manifest.toml"

// cliLogger builds the logger command handlers hand to the engine packages.
// Quiet by default; --verbose opens it up.
func cliLogger() *log.Logger {
	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// resolveManifestPath finds the manifest to load: the --manifest flag if
// given, otherwise manifest.cue then manifest.toml in the current directory.
func resolveManifestPath() (string, error) {
	if manifestFile != "" {
		if _, err := os.Stat(manifestFile); err != nil {
			rendered, _ := issue.Get(issue.ManifestNotFoundId).Render("dark")
			fmt.Fprint(os.Stderr, rendered)
			return "", issue.NewErrorContext().
				WithOperation("load manifest").
				WithResource(manifestFile).
				WithSuggestion("Check the --manifest path").
				Wrap(err).
				BuildError()
		}
		return manifestFile, nil
	}

	for _, candidate := range []string{manifest.DefaultFileName, tomlFileName} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	rendered, _ := issue.Get(issue.ManifestNotFoundId).Render("dark")
	fmt.Fprint(os.Stderr, rendered)
	return "", issue.NewErrorContext().
		WithOperation("load manifest").
		WithSuggestion("Run 'assetforge init' to create a starter manifest").
		WithSuggestion("Or point at one with --manifest path/to/manifest.cue").
		Wrap(fmt.Errorf("no %s or %s in the current directory", manifest.DefaultFileName, tomlFileName)).
		BuildError()
}

// buildStore loads the manifest, applies it to a fresh store, and runs
// discovery. This is the composition step every engine-facing command shares.
func buildStore(ctx context.Context, cfg *config.Config) (*store.Store, *manifest.Manifest, error) {
	path, err := resolveManifestPath()
	if err != nil {
		return nil, nil, err
	}

	m, err := manifest.Load(path)
	if err != nil {
		rendered, _ := issue.Get(issue.ManifestParseErrorId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return nil, nil, issue.NewErrorContext().
			WithOperation("load manifest").
			WithResource(path).
			WithSuggestion("Run with --verbose for the full error chain").
			Wrap(err).
			BuildError()
	}

	fetcher := asset.NewFetcher(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)
	st := store.New(store.WithLogger(cliLogger()), store.WithFetcher(fetcher))
	if err := m.Apply(ctx, st); err != nil {
		return nil, nil, classified(issue.NewErrorContext().
			WithOperation("populate asset store").
			WithResource(path).
			Wrap(err).
			BuildError())
	}
	if err := st.Discover(ctx); err != nil {
		return nil, nil, classified(issue.NewErrorContext().
			WithOperation("discover bundles").
			WithResource(path).
			Wrap(err).
			BuildError())
	}
	return st, m, nil
}

// newCLISession creates a session wired the way every one-shot command
// (render, export) needs it, with the manifest's entry namespace activated.
func newCLISession(ctx context.Context, st *store.Store, m *manifest.Manifest, cfg *config.Config) (*session.Session, error) {
	sess := session.New(st, m.App.Name,
		session.WithEntryNamespace(m.EntryNamespace()),
		session.WithBundleLevel(cfg.BundleLevel),
		session.WithWarnMissingDeps(cfg.WarnMissingDeps),
		session.WithLogger(cliLogger()),
	)
	if err := sess.UseNamespace(ctx, m.EntryNamespace()); err != nil {
		return nil, err
	}
	return sess, nil
}

// linkModeFor maps the config knob to the asset package's link mode.
func linkModeFor(mode config.LinkMode) asset.LinkMode {
	switch mode {
	case config.LinkFile:
		return asset.LinkFile
	case config.LinkRemote:
		return asset.LinkPreferRemote
	default:
		return asset.LinkEmbed
	}
}
