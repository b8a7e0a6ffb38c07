package envdiff

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/pombump/internal/repos/shared"
)

const (
	baseUnavailableMessageConstant       = "base environment file is empty or unreadable"
	baseUnavailableErrorTemplateConstant = "%w: %s"
	comparisonEmptyMessageConstant       = "environment file has no variables"
	separatorWidthConstant               = 50
	separatorCharacterConstant           = "-"
	baseHeaderTemplateConstant           = "Base file: %s\n"
	baseCountTemplateConstant            = "Variables in base file: %d\n"
	baseErrorTemplateConstant            = "Error: base file %s is empty or could not be read\n"
	comparisonHeaderTemplateConstant     = "\nComparing file: %s\n%s\n"
	comparisonErrorTemplateConstant      = "Error: file %s could not be read\n"
	identicalMessageConstant             = "File is identical to the base file\n"
	missingHeaderConstant                = "Missing variables:\n"
	missingEntryTemplateConstant         = "  - %s (expected value: %s)\n"
	changedHeaderConstant                = "Changed values:\n"
	changedEntryTemplateConstant         = "  - %s:\n    base: %s\n    actual: %s\n"
	extraHeaderConstant                  = "Extra variables:\n"
	extraEntryTemplateConstant           = "  - %s=%s\n"
	summaryTemplateConstant              = "Summary:\n  Variables in base file: %d\n  Variables in this file: %d\n  Missing: %d\n  Changed: %d\n  Extra: %d\n"
)

// ErrBaseUnavailable indicates a base file that is empty or could not be read.
var ErrBaseUnavailable = errors.New(baseUnavailableMessageConstant)

// ErrComparisonEmpty indicates a comparison file without any variables.
var ErrComparisonEmpty = errors.New(comparisonEmptyMessageConstant)

// FileReport describes one comparison file. Failure is set when the file could not be compared.
type FileReport struct {
	Path       string
	Variables  int
	Difference Difference
	Failure    error
}

// Report collects the outcome of comparing several files against one base.
type Report struct {
	BasePath      string
	BaseVariables int
	Files         []FileReport
}

// Reporter prints environment comparisons.
type Reporter struct {
	loader Loader
	output shared.Reporter
}

// NewReporter constructs a Reporter that loads files with loader and prints to output.
func NewReporter(loader Loader, output shared.Reporter) *Reporter {
	if output == nil {
		output = shared.NewDiscardReporter()
	}
	return &Reporter{loader: loader, output: output}
}

// Report compares every file against basePath. An empty or unreadable base aborts the
// report; an empty or unreadable comparison file is recorded and skipped.
func (reporter *Reporter) Report(basePath string, comparisonPaths []string) (Report, error) {
	report := Report{BasePath: basePath}

	base, loadError := reporter.loader.LoadEnvironmentFile(basePath)
	if loadError != nil || base.Len() == 0 {
		reporter.output.Printf(baseErrorTemplateConstant, basePath)
		if loadError != nil {
			return report, errors.Join(fmt.Errorf(baseUnavailableErrorTemplateConstant, ErrBaseUnavailable, basePath), loadError)
		}
		return report, fmt.Errorf(baseUnavailableErrorTemplateConstant, ErrBaseUnavailable, basePath)
	}
	report.BaseVariables = base.Len()

	reporter.output.Printf(baseHeaderTemplateConstant, basePath)
	reporter.output.Printf(baseCountTemplateConstant, base.Len())

	for _, comparisonPath := range comparisonPaths {
		report.Files = append(report.Files, reporter.reportFile(base, comparisonPath))
	}
	return report, nil
}

func (reporter *Reporter) reportFile(base OrderedEnvironment, comparisonPath string) FileReport {
	fileReport := FileReport{Path: comparisonPath}
	reporter.output.Printf(comparisonHeaderTemplateConstant, comparisonPath, strings.Repeat(separatorCharacterConstant, separatorWidthConstant))

	comparison, loadError := reporter.loader.LoadEnvironmentFile(comparisonPath)
	if loadError == nil && comparison.Len() == 0 {
		loadError = ErrComparisonEmpty
	}
	if loadError != nil {
		fileReport.Failure = loadError
		reporter.output.Printf(comparisonErrorTemplateConstant, comparisonPath)
		return fileReport
	}

	fileReport.Variables = comparison.Len()
	fileReport.Difference = Compare(base, comparison)

	if fileReport.Difference.Identical() {
		reporter.output.Printf(identicalMessageConstant)
	}
	if len(fileReport.Difference.Missing) > 0 {
		reporter.output.Printf(missingHeaderConstant)
		for _, missingEntry := range fileReport.Difference.Missing {
			reporter.output.Printf(missingEntryTemplateConstant, missingEntry.Key, missingEntry.Value)
		}
	}
	if len(fileReport.Difference.Changed) > 0 {
		reporter.output.Printf(changedHeaderConstant)
		for _, changedEntry := range fileReport.Difference.Changed {
			reporter.output.Printf(changedEntryTemplateConstant, changedEntry.Key, changedEntry.BaseValue, changedEntry.ActualValue)
		}
	}
	if len(fileReport.Difference.Extra) > 0 {
		reporter.output.Printf(extraHeaderConstant)
		for _, extraEntry := range fileReport.Difference.Extra {
			reporter.output.Printf(extraEntryTemplateConstant, extraEntry.Key, extraEntry.Value)
		}
	}

	reporter.output.Printf(
		summaryTemplateConstant,
		base.Len(),
		comparison.Len(),
		len(fileReport.Difference.Missing),
		len(fileReport.Difference.Changed),
		len(fileReport.Difference.Extra),
	)
	return fileReport
}
