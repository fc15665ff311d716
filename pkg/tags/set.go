package tags

// Set is an ordered set of tag paths for one file. Paths are identified by
// their exact segment sequence: a path that is a prefix of another is still
// an independent member, because the external representation stores one
// full path string per tag assignment rather than a shared tree.
type Set struct {
	paths []Path
}

// NewSet builds a set from paths in order, skipping exact duplicates.
func NewSet(paths ...Path) *Set {
	s := &Set{}
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Contains reports whether an exactly equal path is present.
func (s *Set) Contains(p Path) bool {
	for _, q := range s.paths {
		if q.Equal(p) {
			return true
		}
	}
	return false
}

// Add appends p unless an equal path is already present. Reports whether
// the set changed.
func (s *Set) Add(p Path) bool {
	if len(p) == 0 || s.Contains(p) {
		return false
	}
	s.paths = append(s.paths, p.Clone())
	return true
}

// Remove deletes any path exactly equal to p. Paths that merely extend p
// are untouched: removing ["A"] leaves ["A","B"] in place. Reports whether
// the set changed.
func (s *Set) Remove(p Path) bool {
	kept := s.paths[:0]
	changed := false
	for _, q := range s.paths {
		if q.Equal(p) {
			changed = true
			continue
		}
		kept = append(kept, q)
	}
	s.paths = kept
	return changed
}

// Replace removes old and adds replacement as one logical edit, so a caller
// can serialize the result into a single write. Reports whether the set
// changed.
func (s *Set) Replace(old, replacement Path) bool {
	removed := s.Remove(old)
	added := s.Add(replacement)
	return removed || added
}

// Paths returns the members in insertion order. The slice is a copy.
func (s *Set) Paths() []Path {
	out := make([]Path, 0, len(s.paths))
	for _, p := range s.paths {
		out = append(out, p.Clone())
	}
	return out
}

// Len returns the number of member paths.
func (s *Set) Len() int {
	return len(s.paths)
}
