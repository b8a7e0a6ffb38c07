// Package versioning parses and increments the dotted numeric versions stored
// in build descriptors.
package versioning
