// SPDX-License-Identifier: MPL-2.0

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"assetforge/internal/export"
	"assetforge/internal/ordset"
	"assetforge/pkg/asset"
)

type (
	// Store is the process-wide shared registry of canonical assets,
	// bundles, data blobs and component definitions.
	//
	// All methods are safe for concurrent use: mutations (RegisterShared,
	// AddSharedData, Define, Discover) are serialized behind a write lock,
	// and lookups take a read lock so they never observe a half-applied
	// discovery.
	Store struct {
		logger  *log.Logger
		fetcher *asset.Fetcher

		mu sync.RWMutex

		assetOrder *ordset.Set
		assets     map[string]*asset.Asset
		bundles    map[string]*asset.Bundle

		dataOrder *ordset.Set
		data      map[string][]byte

		catalogOrder *ordset.Set
		catalog      map[string]ComponentDef

		discovered map[string]bool
		assoc      map[string][]*asset.Asset
	}

	// Option configures a Store at construction.
	Option func(*Store)
)

// WithLogger sets the store's logger. Defaults to log.Default().
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithFetcher sets the fetcher handed to discovered remote assets and used
// for eager data fetches.
func WithFetcher(f *asset.Fetcher) Option {
	return func(s *Store) {
		s.fetcher = f
	}
}

// New creates a Store with the three bootstrap assets pre-registered: the
// style reset, the module loader, and the standard-library support module.
func New(opts ...Option) *Store {
	s := &Store{
		logger:       log.Default(),
		assetOrder:   ordset.New(),
		assets:       make(map[string]*asset.Asset),
		bundles:      make(map[string]*asset.Bundle),
		dataOrder:    ordset.New(),
		data:         make(map[string][]byte),
		catalogOrder: ordset.New(),
		catalog:      make(map[string]ComponentDef),
		discovered:   make(map[string]bool),
		assoc:        make(map[string][]*asset.Asset),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		s.fetcher = asset.NewFetcher(asset.DefaultFetchTimeout)
	}
	for _, a := range bootstrapAssets() {
		s.assetOrder.Add(a.Name())
		s.assets[a.Name()] = a
	}
	return s
}

// RegisterShared adds a shared asset. Registering an existing name fails
// with DuplicateNameError, with one controlled exception: a remote asset may
// replace an existing remote asset of the same name.
func (s *Store) RegisterShared(a *asset.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registerLocked(a)
}

func (s *Store) registerLocked(a *asset.Asset) error {
	name := a.Name()
	if s.assetOrder.Has(name) {
		existing := s.assets[name]
		if a.IsRemote() && existing != nil && existing.IsRemote() {
			s.assets[name] = a
			return nil
		}
		return &DuplicateNameError{Name: name, Registry: "shared asset"}
	}
	s.assetOrder.Add(name)
	s.assets[name] = a
	return nil
}

// RegisterSharedBundle adds a shared bundle under its asset name.
func (s *Store) RegisterSharedBundle(b *asset.Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registerBundleLocked(b)
}

func (s *Store) registerBundleLocked(b *asset.Bundle) error {
	name := b.Name()
	if s.assetOrder.Has(name) {
		return &DuplicateNameError{Name: name, Registry: "shared asset"}
	}
	s.assetOrder.Add(name)
	s.bundles[name] = b
	return nil
}

// Lookup returns the shared asset registered under name, or nil. Bundles are
// not returned here; see LookupBundle.
func (s *Store) Lookup(name string) *asset.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assets[name]
}

// LookupBundle returns the shared bundle registered under name, or nil.
func (s *Store) LookupBundle(name string) *asset.Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundles[name]
}

// NamespaceBundle returns the bundle covering ns for the given kind, or nil.
func (s *Store) NamespaceBundle(ns string, kind asset.Kind) *asset.Bundle {
	return s.LookupBundle(BundleName(ns, kind))
}

// AssetNames returns all registered asset and bundle names in insertion order.
func (s *Store) AssetNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assetOrder.Keys()
}

// LookupData returns the shared data blob under name, or nil on miss.
// A miss is not an error; optional resources probe freely.
func (s *Store) LookupData(name string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[name]
}

// DataNames returns all shared data names in insertion order.
func (s *Store) DataNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataOrder.Keys()
}

// AddSharedData registers a shared data blob and returns the stable relative
// path a server maps to the byte stream. Duplicate names fail with
// DuplicateNameError and leave the registry unchanged.
func (s *Store) AddSharedData(name string, blob []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataOrder.Has(name) {
		return "", &DuplicateNameError{Name: name, Registry: "shared data"}
	}
	s.dataOrder.Add(name)
	s.data[name] = blob
	return export.DataDir + "/" + export.SharedScope + "/" + name, nil
}

// AddSharedDataFromURI fetches uri eagerly and registers the result under
// name. Fetch failures are fatal to the call; nothing is registered.
func (s *Store) AddSharedDataFromURI(ctx context.Context, name, uri string) (string, error) {
	body, err := s.fetcher.Fetch(ctx, uri)
	if err != nil {
		return "", &asset.FetchError{Name: name, URI: uri, Err: err}
	}
	return s.AddSharedData(name, []byte(body))
}

// Define registers a component definition for later discovery. Redefining a
// namespace fails with DuplicateNameError.
func (s *Store) Define(def ComponentDef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalogOrder.Has(def.Namespace) {
		return &DuplicateNameError{Name: def.Namespace, Registry: "component definition"}
	}
	s.catalogOrder.Add(def.Namespace)
	s.catalog[def.Namespace] = def
	return nil
}

// Definition returns the component definition for ns, if registered.
func (s *Store) Definition(ns string) (ComponentDef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.catalog[ns]
	return def, ok
}

// Namespaces returns the defined namespaces in definition order.
func (s *Store) Namespaces() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalogOrder.Keys()
}

// IsDiscovered reports whether ns has been materialized into assets.
func (s *Store) IsDiscovered(ns string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.discovered[ns]
}

// AssociateAsset ties an extra shared asset to a namespace. Associated
// assets are delivered alongside the namespace's bundle: non-lazy ones
// immediately before it, lazy ones once the namespace is actually used.
// The asset is also registered as a shared asset if not already present.
func (s *Store) AssociateAsset(ns string, a *asset.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.assetOrder.Has(a.Name()) {
		if err := s.registerLocked(a); err != nil {
			return err
		}
	}
	s.assoc[ns] = append(s.assoc[ns], a)
	return nil
}

// Associated returns the assets associated with ns, in association order.
func (s *Store) Associated(ns string) []*asset.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*asset.Asset, len(s.assoc[ns]))
	copy(out, s.assoc[ns])
	return out
}

// Discover materializes every defined namespace that has not been processed
// yet: the namespace's script/style assets are created and registered, and a
// bundle chain is created or reused for the namespace and each of its
// ancestors, with the leaf assets added to every level.
//
// Discover is idempotent: already-processed namespaces are untouched, so it
// is safe (and cheap) to call on every namespace use.
func (s *Store) Discover(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, ns := range s.catalogOrder.Keys() {
		if s.discovered[ns] {
			continue
		}
		if err := s.discoverOneLocked(ctx, s.catalog[ns]); err != nil {
			return err
		}
		s.discovered[ns] = true
		count++
	}
	if count > 0 {
		s.logger.Info("discovered namespaces", "count", count)
	}
	return nil
}

// discoverOneLocked materializes a single definition. All constructions and
// collision checks happen before any registry mutation, so a failure leaves
// the store unchanged.
func (s *Store) discoverOneLocked(_ context.Context, def ComponentDef) error {
	ns := def.Namespace

	var leaves []*asset.Asset
	if def.Script != "" {
		src := asset.Inline(def.Script)
		if def.ScriptRemote {
			src = asset.Remote(def.Script)
		}
		a, err := asset.New(ns+".js", src,
			asset.WithDeps(def.scriptDeps()...),
			asset.WithExports(def.Exports...),
			asset.WithFetcher(s.fetcher))
		if err != nil {
			return fmt.Errorf("discover %s: %w", ns, err)
		}
		leaves = append(leaves, a)
	}
	if def.Style != "" {
		src := asset.Inline(def.Style)
		if def.StyleRemote {
			src = asset.Remote(def.Style)
		}
		a, err := asset.New(ns+".css", src, asset.WithFetcher(s.fetcher))
		if err != nil {
			return fmt.Errorf("discover %s: %w", ns, err)
		}
		leaves = append(leaves, a)
	}

	for _, leaf := range leaves {
		if s.assetOrder.Has(leaf.Name()) {
			return &DuplicateNameError{Name: leaf.Name(), Registry: "shared asset"}
		}
	}

	// Build or reuse the bundle chain for every namespace prefix, and stage
	// new bundles so a later failure does not leave a partial chain.
	type pending struct {
		bundle *asset.Bundle
		isNew  bool
	}
	var chain []pending
	for _, prefix := range namespacePrefixes(ns) {
		for _, kind := range []asset.Kind{asset.KindScript, asset.KindStyle} {
			name := BundleName(prefix, kind)
			if b, ok := s.bundles[name]; ok {
				chain = append(chain, pending{bundle: b})
				continue
			}
			if s.assetOrder.Has(name) {
				return &DuplicateNameError{Name: name, Registry: "shared asset"}
			}
			b, err := asset.NewBundle(name)
			if err != nil {
				return fmt.Errorf("discover %s: %w", ns, err)
			}
			chain = append(chain, pending{bundle: b, isNew: true})
		}
	}

	// Commit: register leaves, then bundles, then memberships.
	for _, leaf := range leaves {
		s.assetOrder.Add(leaf.Name())
		s.assets[leaf.Name()] = leaf
	}
	for _, p := range chain {
		if p.isNew {
			s.assetOrder.Add(p.bundle.Name())
			s.bundles[p.bundle.Name()] = p.bundle
		}
		for _, leaf := range leaves {
			if leaf.Kind() != p.bundle.Kind() {
				continue
			}
			if err := p.bundle.Add(leaf); err != nil {
				// Chain bundles are ancestors of the leaf namespace, so the
				// prefix rule holds by construction.
				return fmt.Errorf("discover %s: %w", ns, err)
			}
		}
	}
	return nil
}

// Export writes every registered asset's rendered text and every data blob
// under dir using the shared scope layout. When clear is set the directory
// is removed first.
func (s *Store) Export(ctx context.Context, dir string, clear bool) error {
	s.mu.RLock()
	assetNames := s.assetOrder.Keys()
	dataNames := s.dataOrder.Keys()
	s.mu.RUnlock()

	var assetEntries []export.Entry
	for _, name := range assetNames {
		text, err := s.renderByName(ctx, name)
		if err != nil {
			return err
		}
		assetEntries = append(assetEntries, export.Entry{Name: name, Body: []byte(text)})
	}

	var dataEntries []export.Entry
	for _, name := range dataNames {
		dataEntries = append(dataEntries, export.Entry{Name: name, Body: s.LookupData(name)})
	}

	if err := export.Write(dir, export.SharedScope, assetEntries, dataEntries, clear); err != nil {
		return err
	}
	s.logger.Info("exported shared assets and data",
		"dir", dir, "assets", len(assetEntries), "data", len(dataEntries))
	return nil
}

// renderByName renders an asset or bundle registered under name.
func (s *Store) renderByName(ctx context.Context, name string) (string, error) {
	if b := s.LookupBundle(name); b != nil {
		return b.Text(ctx)
	}
	if a := s.Lookup(name); a != nil {
		return a.Text(ctx)
	}
	return "", fmt.Errorf("asset %q not registered", name)
}
