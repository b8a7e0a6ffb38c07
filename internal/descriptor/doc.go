// Package descriptor locates and rewrites the version field of XML build
// descriptors without disturbing any other byte of the document.
package descriptor
