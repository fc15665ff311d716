package exif

import (
	"fmt"

	"bildesk/pkg/tags"
)

// DeltaArgs shapes incremental tag edits as exiftool's signed field-delta
// arguments (-FIELD-=value before -FIELD+=value), touching only the listed
// values in each multi-value field. Use this instead of a whole-field
// overwrite when the file's remaining tags should be left as they are.
func DeltaArgs(add, remove []tags.Path, sep string) ([]string, error) {
	if sep == "" {
		return nil, fmt.Errorf("%w: empty separator", tags.ErrInvalidInput)
	}

	var args []string
	for _, p := range remove {
		if len(p) == 0 {
			return nil, fmt.Errorf("%w: empty tag path", tags.ErrInvalidInput)
		}
		args = append(args,
			fmt.Sprintf("-%s-=%s", tags.FieldHierarchicalSubject, p.Join(sep)),
			fmt.Sprintf("-%s-=%s", tags.FieldSubject, p.Leaf()),
			fmt.Sprintf("-%s-=%s", tags.FieldKeywords, p.Leaf()),
		)
	}
	for _, p := range add {
		if len(p) == 0 {
			return nil, fmt.Errorf("%w: empty tag path", tags.ErrInvalidInput)
		}
		args = append(args,
			fmt.Sprintf("-%s+=%s", tags.FieldHierarchicalSubject, p.Join(sep)),
			fmt.Sprintf("-%s+=%s", tags.FieldSubject, p.Leaf()),
			fmt.Sprintf("-%s+=%s", tags.FieldKeywords, p.Leaf()),
		)
	}

	return args, nil
}
