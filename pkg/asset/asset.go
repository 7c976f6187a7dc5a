// SPDX-License-Identifier: MPL-2.0

package asset

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	// KindScript is a JavaScript asset, delivered via <script> tags.
	KindScript Kind = ".js"
	// KindStyle is a CSS asset, delivered via <style>/<link> tags.
	KindStyle Kind = ".css"

	// LinkEmbed inlines the asset text directly into the page.
	LinkEmbed LinkMode = iota
	// LinkFile references the asset by path, served as a separate file.
	LinkFile
	// LinkPreferRemote references remote assets by their own URI and
	// behaves like LinkFile for everything else.
	LinkPreferRemote
)

// creationCounter hands out monotonic creation indices, used as a stable
// tie-break when no dependency relation applies.
var creationCounter atomic.Uint64

type (
	// Kind is the asset delivery kind, derived from the name suffix.
	Kind string

	// LinkMode selects how Tag references an asset in the page.
	LinkMode int

	// Source is the tagged origin of an asset's text: either inline text
	// embedded at construction time, or a remote URI fetched lazily.
	Source struct {
		text string
		uri  string
	}

	// Asset is an atomic named script or style payload with declared
	// dependencies.
	//
	// An asset's text is rendered at most once and cached on success. For
	// remote assets a failed fetch is not cached, so a later render may
	// retry. Assets are safe for concurrent reads; construction-time fields
	// never change.
	Asset struct {
		name          string
		kind          Kind
		source        Source
		deps          []string
		imports       []string // raw dep entries, "name.js as alias" preserved
		exports       []string
		module        bool
		lazy          bool
		creationIndex uint64
		fetcher       *Fetcher

		mu    sync.Mutex
		cache string
		ok    bool
	}

	// Option configures an Asset at construction.
	Option func(*Asset)
)

// Inline returns a Source carrying embedded text.
func Inline(text string) Source {
	return Source{text: text}
}

// Remote returns a Source that fetches text from uri on first render.
func Remote(uri string) Source {
	return Source{uri: uri}
}

// IsRemote reports whether the source is a remote locator.
func (s Source) IsRemote() bool {
	return s.uri != ""
}

// URI returns the remote locator, or "" for inline sources.
func (s Source) URI() string {
	return s.uri
}

// WithDeps declares the assets this asset must follow in delivery order.
// Script entries may use "name.js as alias" to name the positional argument
// the module factory receives for that dependency.
func WithDeps(deps ...string) Option {
	return func(a *Asset) {
		a.imports = append(a.imports, deps...)
		for _, d := range deps {
			name, _, _ := strings.Cut(d, " as ")
			a.deps = append(a.deps, strings.TrimSpace(name))
		}
	}
}

// WithExports wraps a script asset as a module exporting the given names
// under the loader's private namespace. An empty list still makes a module,
// just one without exported names.
func WithExports(exports ...string) Option {
	return func(a *Asset) {
		a.module = true
		a.exports = append(a.exports, exports...)
	}
}

// WithLazy marks the asset for use-gated delivery: it is only delivered once
// something that actually uses it is requested, not when its owning bundle
// loads.
func WithLazy() Option {
	return func(a *Asset) {
		a.lazy = true
	}
}

// WithFetcher sets the fetcher used for remote sources.
// Defaults to a fetcher with DefaultFetchTimeout.
func WithFetcher(f *Fetcher) Option {
	return func(a *Asset) {
		a.fetcher = f
	}
}

// New creates an Asset. The name must end in ".js" or ".css"; a local asset
// must carry non-empty source text. Violations return InvalidAssetError.
func New(name string, source Source, opts ...Option) (*Asset, error) {
	a := &Asset{
		name:          name,
		source:        source,
		creationIndex: creationCounter.Add(1),
	}
	for _, opt := range opts {
		opt(a)
	}

	kind, ok := kindOf(name)
	if !ok {
		return nil, &InvalidAssetError{Name: name, Reason: "name must end in .js or .css"}
	}
	a.kind = kind

	if !source.IsRemote() && strings.TrimSpace(source.text) == "" {
		return nil, &InvalidAssetError{Name: name, Reason: "local asset needs non-empty source"}
	}
	if a.module && kind != KindScript {
		return nil, &InvalidAssetError{Name: name, Reason: "exports are only valid for script assets"}
	}
	if a.fetcher == nil {
		a.fetcher = NewFetcher(DefaultFetchTimeout)
	}
	return a, nil
}

// MustNew is New for assets built from trusted, compile-time constants.
// It panics on error and is intended for bootstrap asset registration.
func MustNew(name string, source Source, opts ...Option) *Asset {
	a, err := New(name, source, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// Name returns the globally unique asset name, including the kind suffix.
func (a *Asset) Name() string { return a.name }

// Kind returns the delivery kind derived from the name suffix.
func (a *Asset) Kind() Kind { return a.kind }

// Deps returns the declared dependency names, aliases stripped.
func (a *Asset) Deps() []string { return a.deps }

// Exports returns the names a module asset exposes, or nil.
func (a *Asset) Exports() []string { return a.exports }

// IsModule reports whether the asset is wrapped as a loader module.
func (a *Asset) IsModule() bool { return a.module }

// IsLazy reports whether delivery is gated on use rather than load.
func (a *Asset) IsLazy() bool { return a.lazy }

// IsRemote reports whether the asset's source is a remote locator.
func (a *Asset) IsRemote() bool { return a.source.IsRemote() }

// RemoteURI returns the remote locator, or "" for local assets.
func (a *Asset) RemoteURI() string { return a.source.URI() }

// CreationIndex returns the monotonic construction counter value.
func (a *Asset) CreationIndex() uint64 { return a.creationIndex }

// Namespace returns the hierarchical namespace of the asset: the name with
// its kind suffix removed and any "-variant" marker dropped, so both
// "foo.bar.js" and "foo.bar-bundle.js" live in namespace "foo.bar".
func (a *Asset) Namespace() string {
	base := strings.TrimSuffix(a.name, string(a.kind))
	ns, _, _ := strings.Cut(base, "-")
	return ns
}

// Text returns the rendered payload, fetching a remote source on first call.
// The successful result is cached; a FetchError is not, so the next call
// retries the fetch.
func (a *Asset) Text(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ok {
		return a.cache, nil
	}

	body := a.source.text
	if a.source.IsRemote() {
		fetched, err := a.fetcher.Fetch(ctx, a.source.uri)
		if err != nil {
			return "", &FetchError{Name: a.name, URI: a.source.uri, Err: err}
		}
		body = fetched
	}
	if a.module {
		body = wrapModule(a.name, body, a.imports, a.exports)
	}
	a.cache = body
	a.ok = true
	return a.cache, nil
}

// Tag renders the HTML element that includes this asset in a page.
// pathTemplate may contain "{}" as a placeholder for the asset name.
func (a *Asset) Tag(ctx context.Context, pathTemplate string, mode LinkMode) (string, error) {
	path := strings.ReplaceAll(pathTemplate, "{}", a.name)

	ref := path
	if mode == LinkPreferRemote && a.IsRemote() {
		ref = a.source.uri
	}

	switch a.kind {
	case KindScript:
		if mode == LinkEmbed {
			text, err := a.Text(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("<script id='%s'>%s</script>", a.name, text), nil
		}
		return fmt.Sprintf("<script src='%s' id='%s'></script>", ref, a.name), nil
	case KindStyle:
		if mode == LinkEmbed {
			text, err := a.Text(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("<style id='%s'>%s</style>", a.name, text), nil
		}
		return fmt.Sprintf("<link rel='stylesheet' type='text/css' href='%s' id='%s' />", ref, a.name), nil
	default:
		return "", &InvalidAssetError{Name: a.name, Reason: "unknown asset kind"}
	}
}

// kindOf derives the Kind from a name suffix.
func kindOf(name string) (Kind, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, string(KindScript)):
		return KindScript, true
	case strings.HasSuffix(lower, string(KindStyle)):
		return KindStyle, true
	default:
		return "", false
	}
}
