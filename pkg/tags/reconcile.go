package tags

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed arguments, such as an empty
	// separator. This is a caller bug and not retryable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoWrite signals that serialization produced nothing to write.
	// Callers must skip the write entirely rather than clear the fields.
	ErrNoWrite = errors.New("no tag paths to write")
)

// Normalize merges the three tag fields into one deduplicated, ordered list
// of hierarchical tag paths.
//
// Every encoded string in HierarchicalSubject becomes one path, split on
// sep, in input order. Subject and Keywords are unioned (Subject first,
// then Keywords entries not already seen) into an ordered list of flat tag
// names; a flat name that matches the leaf of any hierarchical path is
// dropped as redundant. Surviving flat names follow the hierarchical paths
// as single-segment paths.
//
// Duplicates within HierarchicalSubject itself are preserved; only the
// cross-field leaf collision is filtered. Leaf matching is exact
// (case-sensitive, untrimmed). Empty or absent fields degrade to empty
// sequences; the only error is an empty separator.
func Normalize(raw RawFields, sep string) ([]Path, error) {
	if sep == "" {
		return nil, fmt.Errorf("%w: empty separator", ErrInvalidInput)
	}

	paths := []Path{}
	leaves := map[string]bool{}
	for _, enc := range Values(raw.HierarchicalSubject) {
		p := Parse(enc, sep)
		paths = append(paths, p)
		leaves[p.Leaf()] = true
	}

	seen := map[string]bool{}
	for _, name := range append(Values(raw.Subject), Values(raw.Keywords)...) {
		if seen[name] {
			continue
		}
		seen[name] = true

		if leaves[name] {
			continue
		}
		paths = append(paths, Path{name})
	}

	return paths, nil
}

// Serialize shapes a list of tag paths into the three field values for a
// whole-field overwrite. HierarchicalSubject carries each path joined with
// sep; Subject and Keywords both carry the leaf names, in path order.
// Hierarchy depth is not recoverable from the flat fields, so a
// serialize/normalize round trip preserves path content but not the
// flat-field provenance of the input.
//
// An empty path list returns ErrNoWrite: issuing a write for it would clear
// every tag on the file, which is never what an empty model means.
func Serialize(paths []Path, sep string) (FieldValues, error) {
	if sep == "" {
		return FieldValues{}, fmt.Errorf("%w: empty separator", ErrInvalidInput)
	}
	if len(paths) == 0 {
		return FieldValues{}, ErrNoWrite
	}

	fv := FieldValues{
		HierarchicalSubject: make([]string, 0, len(paths)),
		Subject:             make([]string, 0, len(paths)),
	}
	for _, p := range paths {
		if len(p) == 0 {
			return FieldValues{}, fmt.Errorf("%w: empty tag path", ErrInvalidInput)
		}
		fv.HierarchicalSubject = append(fv.HierarchicalSubject, p.Join(sep))
		fv.Subject = append(fv.Subject, p.Leaf())
	}
	fv.Keywords = append([]string(nil), fv.Subject...)

	return fv, nil
}
