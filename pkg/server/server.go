// Package server exposes the catalog to the gallery UI over a local JSON
// API, alongside the generated static files.
package server

import (
	"net/http"
	"sync"

	"bildesk/pkg/config"
	"bildesk/pkg/exif"
	"bildesk/pkg/library"
	"bildesk/pkg/store"
)

// Server serves the bildesk gallery and its JSON API.
type Server struct {
	c  *config.Config
	st *store.Store
	ec exif.Client

	mu       sync.RWMutex
	assembly *library.Assembly
}

// New creates a new server. ec may be nil when tag editing is disabled.
func New(c *config.Config, st *store.Store, ec exif.Client) *Server {
	return &Server{c: c, st: st, ec: ec}
}

// SetAssembly swaps in a freshly collected assembly. Called after the
// initial scan and after every watcher-triggered rebuild.
func (s *Server) SetAssembly(a *library.Assembly) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assembly = a
}

func (s *Server) current() *library.Assembly {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assembly
}

// Handler returns the full route table, JSON API plus static gallery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/albums", s.AlbumsHandler())
	mux.HandleFunc("GET /api/album", s.AlbumHandler())
	mux.HandleFunc("GET /api/layout", s.LayoutHandler())
	mux.HandleFunc("GET /api/tags", s.TagsHandler())
	mux.HandleFunc("POST /api/tags/edit", s.EditTagsHandler())
	mux.Handle("/", http.FileServer(http.Dir(s.c.OutDir)))
	return mux
}
