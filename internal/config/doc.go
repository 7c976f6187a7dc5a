// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/assetforge/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/assetforge/config.cue on macOS, %APPDATA%\assetforge\config.cue
// on Windows), falling back to a config.cue in the current directory. The package provides
// type-safe access to the bundling knobs (bundle level, fetch timeout, link mode), export
// and preview server settings, and UI preferences.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
