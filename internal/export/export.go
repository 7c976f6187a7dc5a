// SPDX-License-Identifier: MPL-2.0

// Package export writes asset and data closures to a static file layout.
//
// The layout is fixed: rendered asset text goes under _assets/<scope>/<name>
// and raw data bytes under _data/<scope>/<name>, where scope is "shared" for
// registry-level exports or a session/application id for session-level ones.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AssetsDir is the subdirectory for rendered asset text.
	AssetsDir = "_assets"
	// DataDir is the subdirectory for raw data bytes.
	DataDir = "_data"
	// SharedScope is the scope name for registry-level exports.
	SharedScope = "shared"
)

// ErrExport is the sentinel error wrapped by ExportError.
var ErrExport = errors.New("export failed")

type (
	// ExportError is returned when the export target is invalid or a write
	// fails. It wraps both ErrExport and the underlying cause.
	ExportError struct {
		Path string
		Err  error
	}

	// Entry is one named payload to write.
	Entry struct {
		Name string
		Body []byte
	}
)

func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %q: %v", e.Path, e.Err)
}

// Unwrap returns both the ErrExport sentinel and the underlying cause.
func (e *ExportError) Unwrap() []error {
	return []error{ErrExport, e.Err}
}

// Write exports assets and data under dir for the given scope. When clear is
// set, dir is removed first. The directory is created if its parent exists;
// otherwise ExportError is returned.
func Write(dir, scope string, assets, data []Entry, clear bool) error {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return &ExportError{Path: dir, Err: err}
	}

	if clear {
		if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
			if err := os.RemoveAll(dir); err != nil {
				return &ExportError{Path: dir, Err: err}
			}
		}
	}

	if info, statErr := os.Stat(dir); statErr == nil {
		if !info.IsDir() {
			return &ExportError{Path: dir, Err: errors.New("target exists and is not a directory")}
		}
	} else {
		parent := filepath.Dir(dir)
		if pInfo, pErr := os.Stat(parent); pErr != nil || !pInfo.IsDir() {
			return &ExportError{Path: dir, Err: errors.New("parent is not an existing directory")}
		}
		if err := os.Mkdir(dir, 0o755); err != nil {
			return &ExportError{Path: dir, Err: err}
		}
	}

	if err := writeTree(filepath.Join(dir, AssetsDir, scope), assets); err != nil {
		return err
	}
	return writeTree(filepath.Join(dir, DataDir, scope), data)
}

func writeTree(root string, entries []Entry) error {
	for _, entry := range entries {
		path := filepath.Join(root, filepath.FromSlash(entry.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return &ExportError{Path: path, Err: err}
		}
		if err := os.WriteFile(path, entry.Body, 0o644); err != nil {
			return &ExportError{Path: path, Err: err}
		}
	}
	return nil
}
