// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"

	"assetforge/internal/export"
	"assetforge/internal/solver"
	"assetforge/pkg/asset"
	"assetforge/pkg/session"
	"assetforge/pkg/store"
)

// Classify maps an engine error to its catalog entry, walking the wrap
// chain. The second return is false for errors with no catalog page.
func Classify(err error) (Id, bool) {
	var (
		cycleErr    *solver.CycleError
		fetchErr    *asset.FetchError
		dupErr      *store.DuplicateNameError
		mismatchErr *asset.NamespaceMismatchError
		servedErr   *session.AlreadyServedError
		exportErr   *export.ExportError
	)

	switch {
	case errors.As(err, &cycleErr):
		return DependencyCycleId, true
	case errors.As(err, &fetchErr):
		return AssetFetchFailedId, true
	case errors.As(err, &dupErr):
		return DuplicateAssetId, true
	case errors.As(err, &mismatchErr):
		return NamespaceNotFoundId, true
	case errors.As(err, &servedErr):
		return SessionAlreadyServedId, true
	case errors.As(err, &exportErr):
		return ExportFailedId, true
	}
	return 0, false
}
