package tags

import (
	"fmt"
	"strconv"
)

// Metadata field names used for tag storage.
const (
	FieldHierarchicalSubject = "HierarchicalSubject"
	FieldSubject             = "Subject"
	FieldKeywords            = "Keywords"
)

// RawFields holds the three tag-bearing metadata fields as delivered by a
// metadata reader. Each value may be absent (nil), a single scalar (string
// or number), or a slice of scalars, depending on how many values the file
// carries. Values takes care of flattening that irregularity.
type RawFields struct {
	HierarchicalSubject any
	Subject             any
	Keywords            any
}

// FieldValues is the shaped payload for writing the three tag fields back
// to a file. Subject and Keywords always carry the same leaf names.
type FieldValues struct {
	HierarchicalSubject []string
	Subject             []string
	Keywords            []string
}

// Values coerces a raw field value into a string slice: a slice yields one
// string per element, a non-empty scalar yields a one-element slice, and
// anything absent or empty yields nil. Numeric values are kept as their
// decimal representation rather than discarded, since readers deliver
// number-looking tags as numbers.
func Values(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if s == "" {
				continue
			}
			out = append(out, s)
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s := scalar(e)
			if s == "" {
				continue
			}
			out = append(out, s)
		}
		return out
	default:
		s := scalar(v)
		if s == "" {
			return nil
		}
		return []string{s}
	}
}

func scalar(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return fmt.Sprintf("%v", s)
	}
}
