package exif

import "errors"

var (
	// ErrPartialRead indicates the reader produced no usable entry for a
	// file. Callers display it as "no tags" but should log it, since it
	// is not the same thing as a file that truly has zero tags.
	ErrPartialRead = errors.New("metadata read returned no usable entry")

	// ErrWriteNotConfirmed indicates a write completed without confirming
	// the expected update. The write may have partially succeeded, so
	// callers log a warning and keep their in-memory state rather than
	// rolling back.
	ErrWriteNotConfirmed = errors.New("metadata write not confirmed")
)
