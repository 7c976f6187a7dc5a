// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"assetforge/internal/cueutil"
)

//go:embed manifest_schema.cue
var manifestSchema []byte

// DefaultFileName is the manifest file the CLI looks for by default.
const DefaultFileName = "manifest.cue"

// Load reads and parses a manifest, picking the parser from the file
// extension: .cue is schema-validated CUE, .toml is TOML.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest at %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return ParseCUE(data, path)
	case ".toml":
		return ParseTOML(data, path)
	default:
		return nil, fmt.Errorf("manifest %s: unsupported extension %q (want .cue or .toml)", path, filepath.Ext(path))
	}
}

// ParseCUE parses manifest content as CUE, unified with the embedded
// #Manifest schema.
func ParseCUE(data []byte, path string) (*Manifest, error) {
	result, err := cueutil.ParseAndDecode[Manifest](
		manifestSchema,
		data,
		"#Manifest",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return nil, err
	}

	m := result.Value
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseTOML parses manifest content as TOML. Shape rules the CUE schema
// enforces for CUE input are covered by Validate here.
func ParseTOML(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
