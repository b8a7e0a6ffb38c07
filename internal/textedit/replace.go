package textedit

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"

	"github.com/temirov/pombump/internal/repos/filesystem"
)

const (
	markerNotFoundMessageConstant     = "marker not found"
	emptyMarkerMessageConstant        = "marker must not be empty"
	fileIOMessageConstant             = "text file input/output failure"
	missingFilePathMessageConstant    = "file path must not be empty"
	markerNotFoundTemplateConstant    = "%s: %q in %s"
	emptyMarkerTemplateConstant       = "%s %w"
	readFailureTemplateConstant       = "%w: unable to read %s: %v"
	writeFailureTemplateConstant      = "%w: unable to write %s: %v"
	diffFailureTemplateConstant       = "unable to render diff for %s: %w"
	startMarkerRoleConstant           = "start"
	endMarkerRoleConstant             = "end"
	diffContextLinesConstant          = 3
	diffOriginalLabelPrefixConstant   = "a/"
	diffReplacedLabelPrefixConstant   = "b/"
	diffRootPrefixConstant            = "/"
	markerSearchNotFoundIndexConstant = -1
)

// ErrMarkerNotFound indicates a start or end marker absent from the file.
var ErrMarkerNotFound = errors.New(markerNotFoundMessageConstant)

// ErrEmptyMarker indicates a start or end marker with no content.
var ErrEmptyMarker = errors.New(emptyMarkerMessageConstant)

// ErrFileIO indicates the file could not be read or written.
var ErrFileIO = errors.New(fileIOMessageConstant)

// ErrMissingFilePath indicates Options without a file path.
var ErrMissingFilePath = errors.New(missingFilePathMessageConstant)

// MarkerNotFoundError names the marker that could not be located.
type MarkerNotFoundError struct {
	Marker   string
	FilePath string
}

// Error describes the missing marker.
func (markerError MarkerNotFoundError) Error() string {
	return fmt.Sprintf(markerNotFoundTemplateConstant, markerNotFoundMessageConstant, markerError.Marker, markerError.FilePath)
}

// Is reports whether the target is ErrMarkerNotFound.
func (markerError MarkerNotFoundError) Is(target error) bool {
	return target == ErrMarkerNotFound
}

// Options describe a single replacement.
type Options struct {
	FilePath    string
	StartMarker string
	EndMarker   string
	Replacement string
	DryRun      bool
}

// Result reports a replacement. Diff is a unified diff of the change, empty when the
// replacement left the file unchanged.
type Result struct {
	FilePath string
	Replaced bool
	Diff     string
}

// Editor applies marker-bounded replacements to files.
type Editor struct {
	fileSystem afero.Fs
}

// NewEditor constructs an Editor. A nil filesystem selects the operating system filesystem.
func NewEditor(fileSystem afero.Fs) *Editor {
	return &Editor{fileSystem: filesystem.Resolve(fileSystem)}
}

// Replace substitutes the inclusive span between the markers with the replacement text.
// The file is left untouched when DryRun is set.
func (editor *Editor) Replace(options Options) (Result, error) {
	filePath := strings.TrimSpace(options.FilePath)
	if len(filePath) == 0 {
		return Result{}, ErrMissingFilePath
	}
	result := Result{FilePath: filePath}

	if len(options.StartMarker) == 0 {
		return result, fmt.Errorf(emptyMarkerTemplateConstant, startMarkerRoleConstant, ErrEmptyMarker)
	}
	if len(options.EndMarker) == 0 {
		return result, fmt.Errorf(emptyMarkerTemplateConstant, endMarkerRoleConstant, ErrEmptyMarker)
	}

	originalContent, readError := afero.ReadFile(editor.fileSystem, filePath)
	if readError != nil {
		return result, fmt.Errorf(readFailureTemplateConstant, ErrFileIO, filePath, readError)
	}

	updatedContent, spliceError := SpliceBetweenMarkers(string(originalContent), options.StartMarker, options.EndMarker, options.Replacement)
	if spliceError != nil {
		var markerError MarkerNotFoundError
		if errors.As(spliceError, &markerError) {
			markerError.FilePath = filePath
			return result, markerError
		}
		return result, spliceError
	}

	diffText, diffError := renderUnifiedDiff(filePath, string(originalContent), updatedContent)
	if diffError != nil {
		return result, fmt.Errorf(diffFailureTemplateConstant, filePath, diffError)
	}
	result.Diff = diffText

	if options.DryRun {
		return result, nil
	}

	if writeError := filesystem.WriteFileAtomically(editor.fileSystem, filePath, []byte(updatedContent)); writeError != nil {
		return result, fmt.Errorf(writeFailureTemplateConstant, ErrFileIO, filePath, writeError)
	}
	result.Replaced = true
	return result, nil
}

// SpliceBetweenMarkers replaces the first startMarker, everything after it up to the first
// following endMarker, and that endMarker itself. The end marker search begins at the start
// marker's position, so a marker pair that is a single string matches itself.
func SpliceBetweenMarkers(content string, startMarker string, endMarker string, replacement string) (string, error) {
	startIndex := strings.Index(content, startMarker)
	if startIndex == markerSearchNotFoundIndexConstant {
		return "", MarkerNotFoundError{Marker: startMarker}
	}

	relativeEndIndex := strings.Index(content[startIndex:], endMarker)
	if relativeEndIndex == markerSearchNotFoundIndexConstant {
		return "", MarkerNotFoundError{Marker: endMarker}
	}
	spanEnd := startIndex + relativeEndIndex + len(endMarker)

	var builder strings.Builder
	builder.Grow(len(content) - (spanEnd - startIndex) + len(replacement))
	builder.WriteString(content[:startIndex])
	builder.WriteString(replacement)
	builder.WriteString(content[spanEnd:])
	return builder.String(), nil
}

func renderUnifiedDiff(filePath string, originalContent string, updatedContent string) (string, error) {
	if originalContent == updatedContent {
		return "", nil
	}
	labelPath := strings.TrimPrefix(filepath.ToSlash(filePath), diffRootPrefixConstant)
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(originalContent),
		B:        difflib.SplitLines(updatedContent),
		FromFile: diffOriginalLabelPrefixConstant + labelPath,
		ToFile:   diffReplacedLabelPrefixConstant + labelPath,
		Context:  diffContextLinesConstant,
	})
}
