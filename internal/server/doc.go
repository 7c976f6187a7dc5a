// SPDX-License-Identifier: MPL-2.0

// Package server provides the preview HTTP server.
//
// Each page load creates a fresh session against the shared store, composes
// the initial document, and serves the resulting HTML. Asset and data
// requests are resolved per scope: "shared" against the store, anything else
// against the session with that id.
package server
