// Package model defines the data structures for coverage aggregation.
package model

// Path represents a file system path.
type Path string

// AnnotationFile is a single gcov annotation (.gcov) file materialized in
// the scratch directory for one source file.
type AnnotationFile struct {
	// Name is the base name of the annotation file.
	Name string
	Path Path
	// Source is the path named by the "Source:" record, empty when absent.
	Source  string
	Content []byte
}
