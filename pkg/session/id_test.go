// SPDX-License-Identifier: MPL-2.0

package session

import (
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewSessionID(t *testing.T) {
	t.Parallel()

	id := newSessionID(log.Default())
	if len(id) != idLength {
		t.Fatalf("len = %d, want %d", len(id), idLength)
	}
	for _, r := range id {
		if !strings.ContainsRune(idAlphabet, r) {
			t.Errorf("id %q contains %q outside the alphabet", id, r)
		}
	}
}

func TestPseudoRandomIDFallback(t *testing.T) {
	t.Parallel()

	a, b := pseudoRandomID(), pseudoRandomID()
	if len(a) != idLength || len(b) != idLength {
		t.Fatalf("lengths = %d, %d, want %d", len(a), len(b), idLength)
	}
	if a == b {
		t.Error("consecutive fallback ids collided")
	}
}
