// Package textedit replaces the span between two text markers in a file.
//
// The span runs from the first occurrence of the start marker through the end
// of the first end marker found after it. Edits are previewed as unified diffs
// and written back by atomic rename.
package textedit
