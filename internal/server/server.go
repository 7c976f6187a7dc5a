// SPDX-License-Identifier: MPL-2.0

package server

import (
	"net/http"
	"sync"
	"time"

	"assetforge/internal/export"
	"assetforge/pkg/asset"
	"assetforge/pkg/session"
	"assetforge/pkg/store"

	"github.com/charmbracelet/log"
)

const (
	// DefaultAddr is used when Config.Addr is empty.
	DefaultAddr = "localhost:8088"
	// DefaultStartupTimeout bounds how long Start() waits for readiness.
	DefaultStartupTimeout = 5 * time.Second
	// DefaultShutdownTimeout bounds graceful shutdown in Stop().
	DefaultShutdownTimeout = 10 * time.Second
)

type (
	// Config holds immutable configuration for the preview server.
	Config struct {
		// Addr is the address to bind to (default: localhost:8088).
		// Use port 0 to auto-select.
		Addr string
		// AppName names the application being previewed. It becomes the page
		// title and the entry namespace fallback.
		AppName string
		// EntryNamespace is the namespace each new session activates before
		// its page is composed. Empty means AppName.
		EntryNamespace string
		// LinkMode controls how page assets are delivered (default: embed).
		LinkMode asset.LinkMode
		// StyleReset prepends the style reset to every page.
		StyleReset bool
		// BundleLevel truncates bundle namespaces for new sessions.
		// Zero means the session default; negative disables truncation.
		// See session.WithBundleLevel.
		BundleLevel int
		// StartupTimeout is the max time to wait for the server to be ready.
		StartupTimeout time.Duration
		// ShutdownTimeout is the timeout for graceful shutdown.
		ShutdownTimeout time.Duration
	}

	// Server is the preview HTTP server. It owns a registry of live sessions
	// keyed by id; every page load creates a new one against the shared store.
	//
	// A Server instance is single-use: once stopped or failed, create a new one.
	Server struct {
		*base

		cfg   Config
		store *store.Store

		// Initialized during Start() - protected by srvMu for writes
		srvMu sync.Mutex
		srv   *http.Server
		addr  string // Actual bound address (including resolved port)

		// Live sessions by id
		sessMu   sync.RWMutex
		sessions map[string]*session.Session

		logger *log.Logger
	}

	// Option configures a Server.
	Option func(*Server)
)

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a preview server for the given store.
// The server is not started until Start() is called.
func New(st *store.Store, cfg Config, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.EntryNamespace == "" {
		cfg.EntryNamespace = cfg.AppName
	}
	if cfg.BundleLevel == 0 {
		cfg.BundleLevel = session.DefaultBundleLevel
	}
	if cfg.StartupTimeout <= 0 {
		cfg.StartupTimeout = DefaultStartupTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{
		base:     newBase(),
		cfg:      cfg,
		store:    st,
		sessions: make(map[string]*session.Session),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newSession creates and registers a session for one page load.
func (s *Server) newSession() *session.Session {
	opts := []session.Option{
		session.WithEntryNamespace(s.cfg.EntryNamespace),
		session.WithLogger(s.logger),
		session.WithTransport(&session.LogTransport{Logger: s.logger}),
	}
	opts = append(opts, session.WithBundleLevel(s.cfg.BundleLevel))
	sess := session.New(s.store, s.cfg.AppName, opts...)

	s.sessMu.Lock()
	s.sessions[sess.ID()] = sess
	s.sessMu.Unlock()
	return sess
}

// Session returns the live session with the given id, or nil.
func (s *Server) Session(id string) *session.Session {
	s.sessMu.RLock()
	defer s.sessMu.RUnlock()
	return s.sessions[id]
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int {
	s.sessMu.RLock()
	defer s.sessMu.RUnlock()
	return len(s.sessions)
}

// closeSessions closes every live session and empties the registry.
func (s *Server) closeSessions() {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	for id, sess := range s.sessions {
		sess.Close()
		delete(s.sessions, id)
	}
}

// mux builds the route table.
func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	// Asset names may carry slashes (e.g. vendor/lib.js), so the name
	// segment is a wildcard rest-of-path match.
	mux.HandleFunc("GET "+livePathPrefix+"/{scope}/{name...}", s.handleAsset)
	mux.HandleFunc("GET /"+export.DataDir+"/{scope}/{name...}", s.handleData)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}
