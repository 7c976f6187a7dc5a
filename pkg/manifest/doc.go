// SPDX-License-Identifier: MPL-2.0

// Package manifest loads the declarative description of an application's
// asset universe: components (namespaced script/style sources with their
// dependencies and exports), extra shared assets, and data entries.
//
// Manifests are written in CUE (validated against the embedded #Manifest
// schema) or TOML; Load picks the parser from the file extension. Apply
// populates a store's component catalog and registries, after which the
// normal discovery path materializes assets and bundle chains.
package manifest
