// SPDX-License-Identifier: MPL-2.0

package server

import (
	"context"
	"net/http"
	"strings"

	"assetforge/internal/export"
	"assetforge/pkg/session"
)

// livePathPrefix is where asset files are exposed. Pages composed by
// pkg/session link their file-mode assets under this prefix.
const livePathPrefix = "/assets"

// handleIndex serves a freshly composed page. Every load is a new session.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.newSession()

	page, err := s.composePage(r.Context(), sess)
	if err != nil {
		s.logger.Error("page composition failed", "session", sess.ID(), "error", err)
		s.sessMu.Lock()
		delete(s.sessions, sess.ID())
		s.sessMu.Unlock()
		sess.Close()
		http.Error(w, "failed to compose page", http.StatusInternalServerError)
		return
	}

	s.logger.Info("session served", "session", sess.ID(), "remote", r.RemoteAddr)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

// composePage activates the entry namespace and renders the session's page.
func (s *Server) composePage(ctx context.Context, sess *session.Session) (string, error) {
	if s.cfg.EntryNamespace != "" {
		if err := sess.UseNamespace(ctx, s.cfg.EntryNamespace); err != nil {
			return "", err
		}
	}
	return sess.Page(ctx, s.cfg.StyleReset, s.cfg.LinkMode)
}

// handleAsset serves rendered asset text. The shared scope resolves against
// the store (assets first, then bundles); any other scope must be a live
// session id and resolves through its local overlay.
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	scope := r.PathValue("scope")
	name := r.PathValue("name")

	text, ok := s.assetText(r.Context(), scope, name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(name))
	_, _ = w.Write([]byte(text))
}

func (s *Server) assetText(ctx context.Context, scope, name string) (string, bool) {
	if scope != export.SharedScope {
		sess := s.Session(scope)
		if sess == nil {
			return "", false
		}
		if a := sess.LookupAsset(name); a != nil {
			text, err := a.Text(ctx)
			if err != nil {
				s.logger.Error("asset render failed", "name", name, "error", err)
				return "", false
			}
			return text, true
		}
		// Bundles are shared even when requested under a session scope.
	}

	if a := s.store.Lookup(name); a != nil {
		text, err := a.Text(ctx)
		if err != nil {
			s.logger.Error("asset render failed", "name", name, "error", err)
			return "", false
		}
		return text, true
	}
	if b := s.store.LookupBundle(name); b != nil {
		text, err := b.Text(ctx)
		if err != nil {
			s.logger.Error("bundle render failed", "name", name, "error", err)
			return "", false
		}
		return text, true
	}
	return "", false
}

// handleData serves raw data bytes under the _data layout.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	scope := r.PathValue("scope")
	name := r.PathValue("name")

	var blob []byte
	if scope == export.SharedScope {
		blob = s.store.LookupData(name)
	} else if sess := s.Session(scope); sess != nil {
		blob = sess.LookupData(name)
	}
	if blob == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(blob))
	_, _ = w.Write(blob)
}

// handleHealth responds with 200 OK for readiness checks.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func contentTypeFor(name string) string {
	switch {
	case strings.HasSuffix(name, ".js"):
		return "text/javascript; charset=utf-8"
	case strings.HasSuffix(name, ".css"):
		return "text/css; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
