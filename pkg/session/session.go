// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"assetforge/internal/export"
	"assetforge/internal/ordset"
	"assetforge/pkg/asset"
	"assetforge/pkg/store"
)

// DefaultBundleLevel is the default namespace truncation depth for bundle
// selection: used namespaces deeper than this collapse to their ancestor at
// this depth, trading fewer larger bundles for a simpler dependency graph.
const DefaultBundleLevel = 2

// ErrAlreadyServed is the sentinel error wrapped by AlreadyServedError.
var ErrAlreadyServed = errors.New("session already served")

type (
	// AlreadyServedError is returned when the initial document is composed a
	// second time for the same session. A second composition would either
	// silently skip already-loaded content or double-deliver it, so the
	// serve transition fires exactly once per session.
	AlreadyServedError struct {
		ID string
	}

	// Deliverable is anything the session can place in a document: plain
	// assets and bundles both qualify.
	Deliverable interface {
		Name() string
		Kind() asset.Kind
		Text(ctx context.Context) (string, error)
		Tag(ctx context.Context, pathTemplate string, mode asset.LinkMode) (string, error)
	}

	// Session is the per-client overlay. One Session per client connection;
	// its lifetime matches the connection's.
	Session struct {
		id          string
		appName     string
		entry       string
		level       int
		warnMissing bool

		store     *store.Store
		transport Transport
		logger    *log.Logger

		mu sync.Mutex

		used   *ordset.Set
		loaded map[string]bool
		// deliveredBundles tracks truncated bundle namespaces already
		// pushed or composed, keyed by bundle namespace.
		deliveredBundles map[string]bool
		// pushed tracks asset names delivered post-serve, for at-most-once.
		pushed map[string]bool
		// referenced tracks shared asset names this session has delivered;
		// a local asset may shadow a shared name only before that.
		referenced map[string]bool

		localOrder *ordset.Set
		local      map[string]*asset.Asset

		localDataOrder *ordset.Set
		localData      map[string][]byte

		served bool
	}

	// Option configures a Session at construction.
	Option func(*Session)
)

func (e *AlreadyServedError) Error() string {
	return fmt.Sprintf("session %s: initial document already composed", e.ID)
}

// Unwrap returns ErrAlreadyServed for errors.Is() matching.
func (e *AlreadyServedError) Unwrap() error {
	return ErrAlreadyServed
}

// WithTransport sets the transport for post-serve dynamic injection.
// Defaults to a transport that drops pushes.
func WithTransport(t Transport) Option {
	return func(s *Session) {
		s.transport = t
	}
}

// WithLogger sets the session logger. Defaults to log.Default().
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithBundleLevel sets the namespace truncation depth for bundle selection.
// Zero or negative disables truncation. Defaults to DefaultBundleLevel.
func WithBundleLevel(level int) Option {
	return func(s *Session) {
		s.level = level
	}
}

// WithWarnMissingDeps enables a warning log when a used namespace depends
// on a namespace no bundle covers. Off by default: solving a strict subset
// of the full graph is routine, not an error.
func WithWarnMissingDeps(warn bool) Option {
	return func(s *Session) {
		s.warnMissing = warn
	}
}

// WithEntryNamespace names the application entry-point namespace. Bundles
// rooted there sort last in the initial document so entry code runs after
// its dependencies are defined. Defaults to the application name.
func WithEntryNamespace(ns string) Option {
	return func(s *Session) {
		s.entry = ns
	}
}

// New creates a Session over the given shared store.
func New(st *store.Store, appName string, opts ...Option) *Session {
	s := &Session{
		appName:          appName,
		entry:            appName,
		level:            DefaultBundleLevel,
		store:            st,
		transport:        nopTransport{},
		logger:           log.Default(),
		used:             ordset.New(),
		loaded:           make(map[string]bool),
		deliveredBundles: make(map[string]bool),
		pushed:           make(map[string]bool),
		referenced:       make(map[string]bool),
		localOrder:       ordset.New(),
		local:            make(map[string]*asset.Asset),
		localDataOrder:   ordset.New(),
		localData:        make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.id = newSessionID(s.logger)
	return s
}

// ID returns the session's opaque high-entropy token.
func (s *Session) ID() string { return s.id }

// AppName returns the application name this session serves.
func (s *Session) AppName() string { return s.appName }

// Served reports whether the initial document has been composed.
func (s *Session) Served() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.served
}

// UsedNamespaces returns the namespaces in use, in first-use order.
func (s *Session) UsedNamespaces() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used.Keys()
}

// UseNamespace records that the client uses ns, transitively closing over
// the namespace's declared dependencies. Idempotent.
//
// While unserved this is pure bookkeeping. Once served, each newly needed
// namespace is delivered immediately: non-lazy associated assets first in
// dependency order, then the namespace's script and style bundles; lazy
// associated assets are delivered on use regardless of bundle load state.
func (s *Session) UseNamespace(ctx context.Context, ns string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.useNamespaceLocked(ctx, ns)
}

func (s *Session) useNamespaceLocked(ctx context.Context, ns string) error {
	if s.used.Has(ns) {
		return nil
	}
	if !s.store.IsDiscovered(ns) {
		if err := s.store.Discover(ctx); err != nil {
			return err
		}
	}
	s.used.Add(ns)

	if def, ok := s.store.Definition(ns); ok {
		for _, dep := range def.Deps {
			if err := s.useNamespaceLocked(ctx, dep); err != nil {
				return err
			}
		}
	}

	if s.served {
		return s.deliverNamespaceLocked(ctx, ns)
	}
	return nil
}

// deliverNamespaceLocked pushes everything a newly used namespace needs on a
// live client. Dependencies were delivered by the recursive use call, so
// order here matches the order compose would have produced.
func (s *Session) deliverNamespaceLocked(ctx context.Context, ns string) error {
	bundleNS := store.TruncateNamespace(ns, s.level)

	if !s.deliveredBundles[bundleNS] {
		// Same association set compose would put on the page: the bundle
		// namespace's own plus those of every covered used namespace.
		for _, a := range s.associatedForBundleLocked(bundleNS) {
			if !a.IsLazy() {
				if err := s.pushAssetLocked(ctx, a); err != nil {
					return err
				}
			}
		}
		if b := s.store.NamespaceBundle(bundleNS, asset.KindScript); b != nil {
			if err := s.pushDeliverableLocked(ctx, b); err != nil {
				return err
			}
		}
		if b := s.store.NamespaceBundle(bundleNS, asset.KindStyle); b != nil {
			if err := s.pushDeliverableLocked(ctx, b); err != nil {
				return err
			}
		}
		s.deliveredBundles[bundleNS] = true
	} else {
		// The bundle is already on the page, but the newly used namespace
		// may carry associations the page has not seen.
		for _, a := range s.store.Associated(ns) {
			if !a.IsLazy() {
				if err := s.pushAssetLocked(ctx, a); err != nil {
					return err
				}
			}
		}
	}
	s.loaded[ns] = true

	// Lazy associated assets are gated on use, not on load: deliver them for
	// the namespace itself even when its bundle was already on the page.
	for _, a := range s.store.Associated(ns) {
		if a.IsLazy() {
			if err := s.pushAssetLocked(ctx, a); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) pushAssetLocked(ctx context.Context, a *asset.Asset) error {
	return s.pushDeliverableLocked(ctx, a)
}

// pushDeliverableLocked delivers one payload through the transport, exactly
// once per name for the session's lifetime.
func (s *Session) pushDeliverableLocked(ctx context.Context, d Deliverable) error {
	if s.pushed[d.Name()] {
		return nil
	}
	text, err := d.Text(ctx)
	if err != nil {
		return err
	}
	kind := PushScript
	if d.Kind() == asset.KindStyle {
		kind = PushStyle
	}
	s.pushed[d.Name()] = true
	s.referenced[d.Name()] = true
	s.logger.Debug("dynamic injection", "session", s.id, "name", d.Name())
	s.transport.Push(kind, d.Name(), text)
	return nil
}

// AddLocalAsset registers a session-private asset. The name may shadow a
// shared asset only if this session has not yet referenced the shared one;
// duplicate local names always fail with DuplicateNameError.
//
// While unserved the asset is queued for the initial document; once served
// it is delivered immediately via the transport.
func (s *Session) AddLocalAsset(ctx context.Context, a *asset.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := a.Name()
	if s.localOrder.Has(name) {
		return &store.DuplicateNameError{Name: name, Registry: "session asset"}
	}
	if s.referenced[name] {
		return &store.DuplicateNameError{Name: name, Registry: "delivered shared asset"}
	}

	s.localOrder.Add(name)
	s.local[name] = a

	if s.served {
		return s.pushAssetLocked(ctx, a)
	}
	return nil
}

// AddLocalData registers a session-private data blob and returns the
// relative path a server maps to it. Duplicate names fail with
// DuplicateNameError.
func (s *Session) AddLocalData(name string, blob []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.localDataOrder.Has(name) {
		return "", &store.DuplicateNameError{Name: name, Registry: "session data"}
	}
	s.localDataOrder.Add(name)
	s.localData[name] = blob
	return export.DataDir + "/" + s.id + "/" + name, nil
}

// LookupAsset returns the asset visible to this session under name: the
// session-local overlay first, then the shared store. Nil on miss.
func (s *Session) LookupAsset(name string) *asset.Asset {
	s.mu.Lock()
	if a, ok := s.local[name]; ok {
		s.mu.Unlock()
		return a
	}
	s.mu.Unlock()
	return s.store.Lookup(name)
}

// LookupData returns the data blob visible to this session under name,
// local overlay first. Nil on miss.
func (s *Session) LookupData(name string) []byte {
	s.mu.Lock()
	if blob, ok := s.localData[name]; ok {
		s.mu.Unlock()
		return blob
	}
	s.mu.Unlock()
	return s.store.LookupData(name)
}

// IsLocal reports whether name is a session-private asset.
func (s *Session) IsLocal(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localOrder.Has(name)
}

// Export writes the session's private closure (local assets and local data)
// under dir, scoped by the application name when set, the session id
// otherwise. Shared store content is exported separately via Store.Export.
func (s *Session) Export(ctx context.Context, dir string, clear bool) error {
	s.mu.Lock()
	scope := s.appName
	if scope == "" {
		scope = s.id
	}
	assetNames := s.localOrder.Keys()
	dataNames := s.localDataOrder.Keys()
	locals := make(map[string]*asset.Asset, len(s.local))
	for k, v := range s.local {
		locals[k] = v
	}
	data := make(map[string][]byte, len(s.localData))
	for k, v := range s.localData {
		data[k] = v
	}
	s.mu.Unlock()

	var assetEntries []export.Entry
	for _, name := range assetNames {
		text, err := locals[name].Text(ctx)
		if err != nil {
			return err
		}
		assetEntries = append(assetEntries, export.Entry{Name: name, Body: []byte(text)})
	}
	var dataEntries []export.Entry
	for _, name := range dataNames {
		dataEntries = append(dataEntries, export.Entry{Name: name, Body: data[name]})
	}

	if err := export.Write(dir, scope, assetEntries, dataEntries, clear); err != nil {
		return err
	}
	s.logger.Info("exported session assets and data", "scope", scope, "dir", dir)
	return nil
}

// Close releases the session's local assets and data. It never mutates the
// shared store. The served flag is deliberately left alone: a closed session
// cannot be re-served.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local = make(map[string]*asset.Asset)
	s.localOrder = ordset.New()
	s.localData = make(map[string][]byte)
	s.localDataOrder = ordset.New()
}
