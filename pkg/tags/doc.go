// Package tags reconciles the three overlapping EXIF/XMP tag fields
// (HierarchicalSubject, Subject, Keywords) into a single model of
// hierarchical tag paths, and shapes that model back into field values
// for writing.
package tags
