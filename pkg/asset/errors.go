// SPDX-License-Identifier: MPL-2.0

package asset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAsset is the sentinel error wrapped by InvalidAssetError.
	ErrInvalidAsset = errors.New("invalid asset")
	// ErrFetch is the sentinel error wrapped by FetchError.
	ErrFetch = errors.New("fetch failed")
	// ErrNamespaceMismatch is the sentinel error wrapped by NamespaceMismatchError.
	ErrNamespaceMismatch = errors.New("namespace mismatch")
)

type (
	// InvalidAssetError is returned when an Asset is constructed with
	// malformed arguments: a name without a recognized kind suffix, a local
	// asset without source text, or exports on a style asset.
	// It wraps ErrInvalidAsset for errors.Is() compatibility.
	InvalidAssetError struct {
		Name   string
		Reason string
	}

	// FetchError is returned when a remote asset's source cannot be
	// retrieved. The failure is not cached: a later render may retry the
	// fetch and succeed. It wraps both ErrFetch and the underlying cause.
	FetchError struct {
		Name string
		URI  string
		Err  error
	}

	// NamespaceMismatchError is returned when an asset is added to a bundle
	// whose namespace is not a prefix of the asset's own namespace.
	// It wraps ErrNamespaceMismatch for errors.Is() compatibility.
	NamespaceMismatchError struct {
		Bundle string
		Asset  string
	}
)

func (e *InvalidAssetError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid asset: %s", e.Reason)
	}
	return fmt.Sprintf("invalid asset %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidAsset for errors.Is() matching.
func (e *InvalidAssetError) Unwrap() error {
	return ErrInvalidAsset
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("asset %q: fetch %s: %v", e.Name, e.URI, e.Err)
}

// Unwrap returns both the ErrFetch sentinel and the underlying cause,
// so errors.Is() matches either.
func (e *FetchError) Unwrap() []error {
	return []error{ErrFetch, e.Err}
}

func (e *NamespaceMismatchError) Error() string {
	return fmt.Sprintf("asset %q does not belong in bundle %q", e.Asset, e.Bundle)
}

// Unwrap returns ErrNamespaceMismatch for errors.Is() matching.
func (e *NamespaceMismatchError) Unwrap() error {
	return ErrNamespaceMismatch
}
