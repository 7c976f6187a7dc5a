// SPDX-License-Identifier: MPL-2.0

package store

import (
	"errors"
	"fmt"
)

// ErrDuplicateName is the sentinel error wrapped by DuplicateNameError.
var ErrDuplicateName = errors.New("duplicate name")

type (
	// DuplicateNameError is returned when a name collides in an append-only
	// registry: shared assets, shared data, catalog definitions, or their
	// session-local counterparts. It wraps ErrDuplicateName for errors.Is()
	// compatibility.
	DuplicateNameError struct {
		Name string
		// Registry identifies which namespace collided, e.g. "shared asset"
		// or "session data".
		Registry string
	}
)

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q already registered", e.Registry, e.Name)
}

// Unwrap returns ErrDuplicateName for errors.Is() matching.
func (e *DuplicateNameError) Unwrap() error {
	return ErrDuplicateName
}
