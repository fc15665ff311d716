package tags

import (
	"slices"
	"strings"
)

// Path is a hierarchical tag path, ordered root to leaf. A single-segment
// path is a flat (non-hierarchical) tag. Segments must be non-empty; the
// separator character must not appear inside a segment name, or joining and
// re-splitting becomes ambiguous. Both are caller responsibilities.
type Path []string

// Parse splits an encoded tag string on sep into a Path.
func Parse(s string, sep string) Path {
	return Path(strings.Split(s, sep))
}

// Leaf returns the last segment, the name the tag goes by in flat fields.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Join encodes the path as a single string with segments joined by sep.
func (p Path) Join(sep string) string {
	return strings.Join(p, sep)
}

// Equal reports whether two paths have identical segment sequences.
// Comparison is exact: case-sensitive, no trimming.
func (p Path) Equal(o Path) bool {
	return slices.Equal(p, o)
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	return Path(slices.Clone(p))
}

func (p Path) String() string {
	return strings.Join(p, "/")
}
