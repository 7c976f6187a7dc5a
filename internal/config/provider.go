// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions pins configuration loading to explicit sources instead of
	// the default search path.
	LoadOptions struct {
		// ConfigFilePath forces one specific config file.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup.
		ConfigDirPath string
	}

	// Provider yields a validated Config from the requested sources.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// fileProvider reads config.cue through viper and the CUE schema.
	fileProvider struct{}
)

// NewProvider returns the file-backed configuration provider.
func NewProvider() Provider {
	return fileProvider{}
}

func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
