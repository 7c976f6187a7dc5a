// SPDX-License-Identifier: MPL-2.0

package cueutil

// MaxSourceBytes caps the size of CUE input this package will compile.
// Manifests and config files are small; anything larger is rejected up
// front instead of being handed to the evaluator.
const MaxSourceBytes int64 = 5 << 20

type (
	// parseOptions collects the per-call parsing knobs.
	parseOptions struct {
		sizeLimit int64
		concrete  bool
		filename  string
	}

	// Option adjusts a single parse call.
	Option func(*parseOptions)
)

// newParseOptions applies opts over the defaults.
func newParseOptions(opts []Option) parseOptions {
	o := parseOptions{
		sizeLimit: MaxSourceBytes,
		concrete:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSizeLimit overrides the MaxSourceBytes cap for one parse.
func WithSizeLimit(n int64) Option {
	return func(o *parseOptions) {
		o.sizeLimit = n
	}
}

// WithConcrete controls whether every value must be concrete after
// unification. Manifest loading turns it off: optional component fields
// (style, deps, exports) may legitimately stay unset.
func WithConcrete(concrete bool) Option {
	return func(o *parseOptions) {
		o.concrete = concrete
	}
}

// WithFilename names the input in CUE error positions, so a failing
// manifest or config file is reported by its real path.
func WithFilename(name string) Option {
	return func(o *parseOptions) {
		o.filename = name
	}
}
