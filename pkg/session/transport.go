// SPDX-License-Identifier: MPL-2.0

package session

import "github.com/charmbracelet/log"

const (
	// PushScript delivers a script payload to a live client.
	PushScript PushKind = "DEFINE-SCRIPT"
	// PushStyle delivers a style payload to a live client.
	PushStyle PushKind = "DEFINE-STYLE"
)

type (
	// PushKind labels a dynamically injected payload.
	PushKind string

	// Transport delivers payloads to an already-active client. Delivery is
	// fire-and-forget from the session's perspective: implementations own
	// retries, buffering and acknowledgement.
	Transport interface {
		Push(kind PushKind, name, text string)
	}

	// LogTransport is a Transport that records pushes to a logger. It backs
	// the preview server and doubles as the default when no real transport
	// is wired.
	LogTransport struct {
		Logger *log.Logger
	}

	// nopTransport drops pushes silently.
	nopTransport struct{}
)

// Push implements Transport.
func (t *LogTransport) Push(kind PushKind, name, text string) {
	t.Logger.Info("push", "kind", string(kind), "name", name, "bytes", len(text))
}

func (nopTransport) Push(PushKind, string, string) {}
