// SPDX-License-Identifier: MPL-2.0

// Package store implements the process-wide shared asset registry.
//
// A Store owns the canonical assets, bundles and out-of-band data blobs
// shared by all sessions. It grows monotonically: registration is append-only
// (with a controlled exception for remote assets), and namespace discovery
// materializes catalog definitions into an asset plus bundle chain exactly
// once per namespace.
//
// Stores are constructed explicitly and passed into sessions; there is no
// ambient singleton. All mutating operations are serialized behind a mutex so
// a Store can back many concurrent sessions.
package store
