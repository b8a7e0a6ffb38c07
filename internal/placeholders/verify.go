package placeholders

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/temirov/pombump/internal/repos/filesystem"
)

const (
	documentReadMessageConstant       = "unable to read yaml document"
	documentReadErrorTemplateConstant = "%w %s: %v"
	flattenedValueSeparatorConstant   = "\n"
)

// ErrDocumentUnreadable indicates a YAML file that could not be read.
var ErrDocumentUnreadable = errors.New(documentReadMessageConstant)

// VariableReport records the environment files that mention one placeholder.
type VariableReport struct {
	Placeholder Placeholder
	FoundIn     []string
}

// Found reports whether any environment file mentions the placeholder.
func (variableReport VariableReport) Found() bool {
	return len(variableReport.FoundIn) > 0
}

// SkippedFile is an environment file that could not be loaded.
type SkippedFile struct {
	Path    string
	Failure error
}

// VerificationReport summarises a verification run.
type VerificationReport struct {
	TotalFiles     int
	ProcessedFiles int
	Variables      []VariableReport
	Skipped        []SkippedFile
}

// FoundCount counts placeholders mentioned by at least one file.
func (report VerificationReport) FoundCount() int {
	foundCount := 0
	for _, variableReport := range report.Variables {
		if variableReport.Found() {
			foundCount++
		}
	}
	return foundCount
}

// MissingCount counts placeholders no file mentions.
func (report VerificationReport) MissingCount() int {
	return len(report.Variables) - report.FoundCount()
}

// Verifier loads YAML files from a filesystem.
type Verifier struct {
	fileSystem afero.Fs
}

// NewVerifier constructs a Verifier. A nil filesystem selects the operating system filesystem.
func NewVerifier(fileSystem afero.Fs) *Verifier {
	return &Verifier{fileSystem: filesystem.Resolve(fileSystem)}
}

// ExtractFile reads the application file at filePath and extracts its placeholders.
func (verifier *Verifier) ExtractFile(filePath string) ([]Placeholder, error) {
	content, readError := afero.ReadFile(verifier.fileSystem, filePath)
	if readError != nil {
		return nil, fmt.Errorf(documentReadErrorTemplateConstant, ErrDocumentUnreadable, filePath, readError)
	}
	return Extract(content)
}

// Verify searches every environment file for each placeholder name. A name counts as found
// when it occurs within any key or scalar value of the file. Files that cannot be read or
// parsed are recorded as skipped and are not counted as processed.
func (verifier *Verifier) Verify(placeholders []Placeholder, environmentFiles []string) VerificationReport {
	report := VerificationReport{
		TotalFiles: len(environmentFiles),
		Variables:  make([]VariableReport, 0, len(placeholders)),
	}
	for _, placeholder := range placeholders {
		report.Variables = append(report.Variables, VariableReport{Placeholder: placeholder})
	}

	for _, environmentFile := range environmentFiles {
		flattenedContent, loadError := verifier.loadFlattened(environmentFile)
		if loadError != nil {
			report.Skipped = append(report.Skipped, SkippedFile{Path: environmentFile, Failure: loadError})
			continue
		}
		report.ProcessedFiles++

		for variableIndex := range report.Variables {
			if strings.Contains(flattenedContent, report.Variables[variableIndex].Placeholder.Name) {
				report.Variables[variableIndex].FoundIn = append(report.Variables[variableIndex].FoundIn, environmentFile)
			}
		}
	}
	return report
}

func (verifier *Verifier) loadFlattened(filePath string) (string, error) {
	content, readError := afero.ReadFile(verifier.fileSystem, filePath)
	if readError != nil {
		return "", fmt.Errorf(documentReadErrorTemplateConstant, ErrDocumentUnreadable, filePath, readError)
	}
	var root yaml.Node
	if unmarshalError := yaml.Unmarshal(content, &root); unmarshalError != nil {
		return "", fmt.Errorf(documentParseErrorTemplateConstant, ErrDocumentParse, unmarshalError)
	}
	return strings.Join(flattenScalars(&root, map[*yaml.Node]bool{}, nil), flattenedValueSeparatorConstant), nil
}
