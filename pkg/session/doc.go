// SPDX-License-Identifier: MPL-2.0

// Package session implements the per-client overlay on top of a shared
// store.Store.
//
// A Session tracks which namespaces a client uses, layers session-local
// assets and data over the shared registry, and owns the unserved-to-served
// state machine: before the first document is composed, registrations are
// pure bookkeeping batched into that document; afterwards every newly needed
// asset is delivered exactly once through the session's Transport.
//
// Sessions never mutate the shared store beyond triggering idempotent
// namespace discovery, and closing a session releases only its local state.
package session
