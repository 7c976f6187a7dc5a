// SPDX-License-Identifier: MPL-2.0

// Package asset defines the atomic units of the bundling engine.
//
// An Asset is a named script or style payload with declared dependencies,
// backed either by inline text or by a remote locator that is fetched lazily
// and cached. A Bundle is an Asset whose body is the dependency-ordered
// concatenation of member Assets sharing a hierarchical namespace.
//
// The package owns asset identity, rendering and bundle membership rules;
// registries and per-client delivery live in pkg/store and pkg/session.
package asset
