package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"k8s.io/klog/v2"

	"bildesk/pkg/layout"
	"bildesk/pkg/library"
	"bildesk/pkg/tags"
)

type albumInfo struct {
	Title string   `json:"title"`
	Path  string   `json:"path"`
	Hier  []string `json:"hier"`
	Count int      `json:"count"`
}

type imageInfo struct {
	RelPath  string   `json:"rel_path"`
	Title    string   `json:"title"`
	Width    int64    `json:"width"`
	Height   int64    `json:"height"`
	Taken    string   `json:"taken,omitempty"`
	TagPaths []string `json:"tag_paths"`
}

// AlbumsHandler lists directory, tag and favorite albums.
func (s *Server) AlbumsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := s.current()
		if a == nil {
			http.Error(w, "catalog not ready", http.StatusServiceUnavailable)
			return
		}

		out := struct {
			Albums    []albumInfo `json:"albums"`
			TagAlbums []albumInfo `json:"tag_albums"`
			Favorites []albumInfo `json:"favorites"`
		}{}
		for _, al := range a.Albums {
			out.Albums = append(out.Albums, infoFor(al))
		}
		for _, al := range a.TagAlbums {
			out.TagAlbums = append(out.TagAlbums, infoFor(al))
		}
		for _, al := range a.Favorites {
			out.Favorites = append(out.Favorites, infoFor(al))
		}
		writeJSON(w, out)
	}
}

// AlbumHandler returns the images of one album, looked up by InPath for
// directory albums or by joined tag path for tag albums.
func (s *Server) AlbumHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := s.current()
		if a == nil {
			http.Error(w, "catalog not ready", http.StatusServiceUnavailable)
			return
		}

		al := s.findAlbum(a, r.URL.Query().Get("path"))
		if al == nil {
			http.Error(w, "album not found", http.StatusNotFound)
			return
		}

		out := struct {
			Title  string      `json:"title"`
			Images []imageInfo `json:"images"`
		}{Title: al.Title}
		for _, i := range al.Images {
			out.Images = append(out.Images, imageInfoFor(i, s.c.Separator))
		}
		writeJSON(w, out)
	}
}

// LayoutHandler computes masonry transforms for an album at a container
// width, so the UI never does layout math.
func (s *Server) LayoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := s.current()
		if a == nil {
			http.Error(w, "catalog not ready", http.StatusServiceUnavailable)
			return
		}

		q := r.URL.Query()
		al := s.findAlbum(a, q.Get("path"))
		if al == nil {
			http.Error(w, "album not found", http.StatusNotFound)
			return
		}

		width := intParam(q.Get("width"), 1024)
		padding := intParam(q.Get("padding"), 8)
		size := intParam(q.Get("size"), 240)

		l := layout.New(len(al.Images), size)
		for idx, img := range al.Images {
			l.SetItemSource(idx, int(img.Width), int(img.Height))
		}

		var height int
		if q.Get("mode") == "columns" {
			height = l.ComputeVertical(width, padding)
		} else {
			height = l.Compute(width, padding)
		}

		writeJSON(w, struct {
			Height int                `json:"height"`
			Items  []layout.Transform `json:"items"`
		}{Height: height, Items: l.Items})
	}
}

// TagsHandler returns every distinct tag path in the catalog with its
// image count, as segment slices ready for tree rendering.
func (s *Server) TagsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := s.st.TagCounts(r.Context())
		if err != nil {
			klog.Errorf("tag counts: %v", err)
			http.Error(w, "tag counts failed", http.StatusInternalServerError)
			return
		}

		type tagNode struct {
			Segments []string `json:"segments"`
			Path     string   `json:"path"`
			Count    int      `json:"count"`
		}
		out := []tagNode{}
		for _, tc := range counts {
			out = append(out, tagNode{
				Segments: []string(tags.Parse(tc.TagPath, s.c.Separator)),
				Path:     tc.TagPath,
				Count:    tc.Count,
			})
		}
		writeJSON(w, out)
	}
}

type editRequest struct {
	Files   []string `json:"files"`
	Op      string   `json:"op"`
	Path    string   `json:"path"`
	NewPath string   `json:"new_path,omitempty"`
}

// EditTagsHandler applies one tag edit (add, remove, rename) across the
// listed files and refreshes their catalog records.
func (s *Server) EditTagsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ec == nil {
			http.Error(w, "tag editing disabled", http.StatusServiceUnavailable)
			return
		}

		var req editRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Files) == 0 || req.Path == "" {
			http.Error(w, "files and path are required", http.StatusBadRequest)
			return
		}

		edit := library.Edit{
			Op:   library.EditOp(req.Op),
			Path: tags.Parse(req.Path, s.c.Separator),
		}
		if req.NewPath != "" {
			edit.NewPath = tags.Parse(req.NewPath, s.c.Separator)
		}

		res := library.Retag(r.Context(), s.ec, req.Files, edit, s.c.Separator, 0)

		for _, path := range res.Updated {
			if err := s.refreshRecord(r.Context(), path); err != nil {
				klog.Warningf("refresh %s after edit: %v", path, err)
			}
		}

		failures := map[string]string{}
		for path, err := range res.Failures {
			failures[path] = err.Error()
		}
		writeJSON(w, struct {
			Updated  []string          `json:"updated"`
			Skipped  []string          `json:"skipped"`
			Failures map[string]string `json:"failures"`
		}{Updated: res.Updated, Skipped: res.Skipped, Failures: failures})
	}
}

func (s *Server) findAlbum(a *library.Assembly, path string) *library.Album {
	if path == "" {
		return a.Recent
	}
	for _, al := range a.Albums {
		if al.InPath == path {
			return al
		}
	}
	// Tag albums are addressed by their joined tag path; Hier carries a
	// leading "tags" marker followed by the path segments.
	for _, al := range a.TagAlbums {
		if len(al.Hier) > 1 && tags.Path(al.Hier[1:]).Join(s.c.Separator) == path {
			return al
		}
	}
	for _, al := range a.Favorites {
		if al.Title == path {
			return al
		}
	}
	return nil
}

// refreshRecord re-reads a file's tag fields and updates its catalog row
// after an edit succeeded.
func (s *Server) refreshRecord(ctx context.Context, path string) error {
	raw, err := s.ec.ReadFields(path)
	if err != nil {
		return err
	}
	paths, err := tags.Normalize(raw, s.c.Separator)
	if err != nil {
		return err
	}

	rec, err := s.st.Get(ctx, path)
	if err != nil {
		return err
	}
	rec.TagPaths = rec.TagPaths[:0]
	for _, p := range paths {
		rec.TagPaths = append(rec.TagPaths, p.Join(s.c.Separator))
	}
	return s.st.Upsert(ctx, *rec)
}

func imageInfoFor(i *library.Image, sep string) imageInfo {
	info := imageInfo{
		RelPath:  i.RelPath,
		Title:    i.Title,
		Width:    i.Width,
		Height:   i.Height,
		TagPaths: []string{},
	}
	if !i.Taken.IsZero() {
		info.Taken = i.Taken.Format("2006-01-02 15:04:05")
	}
	for _, p := range i.TagPaths {
		info.TagPaths = append(info.TagPaths, p.Join(sep))
	}
	return info
}

func infoFor(a *library.Album) albumInfo {
	return albumInfo{
		Title: a.Title,
		Path:  a.InPath,
		Hier:  a.Hier,
		Count: len(a.Images),
	}
}

func intParam(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		klog.Errorf("encode response: %v", err)
	}
}
