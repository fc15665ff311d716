package library

import (
	"time"

	"bildesk/pkg/tags"
)

// ThumbMeta describes a generated thumbnail.
type ThumbMeta struct {
	X       int
	Y       int
	RelPath string
	Path    string
}

// Image represents a photo with its metadata.
type Image struct {
	InPath   string
	OutPath  string
	BasePath string
	ModTime  time.Time
	RelPath  string
	Hier     []string

	Resize map[string]ThumbMeta
	Taken  time.Time

	// TagPaths is the reconciled tag model for the file, merged from the
	// HierarchicalSubject, Subject and Keywords fields.
	TagPaths []tags.Path

	Title       string
	Description string

	Make  string
	Model string

	LensMake  string
	LensModel string

	Aperture    float64
	FocalLength string
	ISO         int64
	Speed       string

	Width  int64
	Height int64
}

// Leaves returns the leaf name of every tag path on the image.
func (i *Image) Leaves() []string {
	out := make([]string, 0, len(i.TagPaths))
	for _, p := range i.TagPaths {
		out = append(out, p.Leaf())
	}
	return out
}

// HasTag reports whether the image carries an exactly equal tag path.
func (i *Image) HasTag(p tags.Path) bool {
	for _, q := range i.TagPaths {
		if q.Equal(p) {
			return true
		}
	}
	return false
}

// Album represents a collection of images.
type Album struct {
	StartTime time.Time
	EndTime   time.Time

	InPath    string
	RelPath   string
	OutPath   string
	ModTime   time.Time
	Hier      []string
	HierLevel int

	Title       string
	Description string

	Images []*Image
	Hidden bool
}
