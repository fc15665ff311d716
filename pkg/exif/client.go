package exif

import (
	"fmt"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"

	"bildesk/pkg/tags"
)

// Client reads and writes tag fields for one file at a time. It exists so
// callers never depend on how the metadata tool's process is managed.
type Client interface {
	ReadFields(path string) (tags.RawFields, error)
	WriteFields(path string, fv tags.FieldValues) error
	Close() error
}

// Tool is the exiftool-backed Client. The underlying worker stays open
// across calls; Close shuts it down.
type Tool struct {
	et *exiftool.Exiftool
}

var _ Client = (*Tool)(nil)

// NewTool starts an exiftool worker.
func NewTool() (*Tool, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("start exiftool: %w", err)
	}
	return &Tool{et: et}, nil
}

// ReadFields extracts the three tag fields from a file. Values are handed
// back exactly as the reader shaped them (scalar, slice, or absent) so the
// tags package can apply its coercion rules.
func (t *Tool) ReadFields(path string) (tags.RawFields, error) {
	fms := t.et.ExtractMetadata(path)
	if len(fms) == 0 {
		return tags.RawFields{}, fmt.Errorf("%w: %s", ErrPartialRead, path)
	}
	fm := fms[0]
	if fm.Err != nil {
		return tags.RawFields{}, fmt.Errorf("%w: %s: %v", ErrPartialRead, path, fm.Err)
	}

	return tags.RawFields{
		HierarchicalSubject: fm.Fields[tags.FieldHierarchicalSubject],
		Subject:             fm.Fields[tags.FieldSubject],
		Keywords:            fm.Fields[tags.FieldKeywords],
	}, nil
}

// WriteFields overwrites the three tag fields on a file. The caller is
// responsible for serializing writes to the same path; two interleaved
// whole-field overwrites lose updates.
func (t *Tool) WriteFields(path string, fv tags.FieldValues) error {
	fms := t.et.ExtractMetadata(path)
	if len(fms) == 0 {
		return fmt.Errorf("%w: %s", ErrPartialRead, path)
	}
	fm := fms[0]
	if fm.Err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPartialRead, path, fm.Err)
	}

	fm.SetStrings(tags.FieldHierarchicalSubject, fv.HierarchicalSubject)
	fm.SetStrings(tags.FieldSubject, fv.Subject)
	fm.SetStrings(tags.FieldKeywords, fv.Keywords)

	fms[0] = fm
	t.et.WriteMetadata(fms)
	if fms[0].Err != nil {
		klog.Warningf("write to %s not confirmed: %v", path, fms[0].Err)
		return fmt.Errorf("%w: %s: %v", ErrWriteNotConfirmed, path, fms[0].Err)
	}

	return nil
}

// Close shuts down the exiftool worker.
func (t *Tool) Close() error {
	return t.et.Close()
}
