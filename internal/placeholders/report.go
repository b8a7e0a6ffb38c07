package placeholders

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const (
	extractedHeaderConstant          = "Placeholders found:\n"
	extractedEntryTemplateConstant   = "- %s (at: %s)"
	extractedDefaultTemplateConstant = " | default: %s"
	reportHeaderConstant             = "\n=== Placeholder verification report ===\n"
	totalFilesTemplateConstant       = "Environment files: %d\n"
	processedFilesTemplateConstant   = "Files processed: %d\n"
	skippedFileTemplateConstant      = "Skipped %s: %v\n"
	variableHeaderTemplateConstant   = "\nVariable: %s\n"
	variablePathTemplateConstant     = "  Path: %s\n"
	variableDefaultTemplateConstant  = "  Default: %s\n"
	foundStatusTemplateConstant      = "found in %d file(s)"
	missingStatusConstant            = "not found in any environment file"
	statusLineTemplateConstant       = "  Status: %s\n"
	foundFileTemplateConstant        = "    - %s\n"
	summaryHeaderConstant            = "\n=== Summary ===\n"
	summaryTemplateConstant          = "Total variables: %d\nFound: %d\nNot found: %d\n"
	lineEndingConstant               = "\n"
)

// ReportPrinter renders extraction and verification results.
type ReportPrinter struct {
	output       io.Writer
	foundColor   *color.Color
	missingColor *color.Color
}

// NewReportPrinter constructs a ReportPrinter. Status markers are coloured only when colorEnabled is set.
func NewReportPrinter(output io.Writer, colorEnabled bool) *ReportPrinter {
	foundColor := color.New(color.FgGreen)
	missingColor := color.New(color.FgRed, color.Bold)
	if colorEnabled {
		foundColor.EnableColor()
		missingColor.EnableColor()
	} else {
		foundColor.DisableColor()
		missingColor.DisableColor()
	}
	return &ReportPrinter{output: output, foundColor: foundColor, missingColor: missingColor}
}

// PrintPlaceholders lists extracted placeholders.
func (printer *ReportPrinter) PrintPlaceholders(placeholders []Placeholder) {
	fmt.Fprint(printer.output, extractedHeaderConstant)
	for _, placeholder := range placeholders {
		fmt.Fprintf(printer.output, extractedEntryTemplateConstant, placeholder.Name, placeholder.Path)
		if placeholder.HasDefault {
			fmt.Fprintf(printer.output, extractedDefaultTemplateConstant, placeholder.Default)
		}
		fmt.Fprint(printer.output, lineEndingConstant)
	}
}

// PrintReport renders per-variable verification results followed by a summary.
func (printer *ReportPrinter) PrintReport(report VerificationReport) {
	fmt.Fprint(printer.output, reportHeaderConstant)
	fmt.Fprintf(printer.output, totalFilesTemplateConstant, report.TotalFiles)
	fmt.Fprintf(printer.output, processedFilesTemplateConstant, report.ProcessedFiles)
	for _, skippedFile := range report.Skipped {
		fmt.Fprintf(printer.output, skippedFileTemplateConstant, skippedFile.Path, skippedFile.Failure)
	}

	for _, variableReport := range report.Variables {
		fmt.Fprintf(printer.output, variableHeaderTemplateConstant, variableReport.Placeholder.Name)
		fmt.Fprintf(printer.output, variablePathTemplateConstant, variableReport.Placeholder.Path)
		if variableReport.Placeholder.HasDefault {
			fmt.Fprintf(printer.output, variableDefaultTemplateConstant, variableReport.Placeholder.Default)
		}
		if !variableReport.Found() {
			fmt.Fprintf(printer.output, statusLineTemplateConstant, printer.missingColor.Sprint(missingStatusConstant))
			continue
		}
		fmt.Fprintf(printer.output, statusLineTemplateConstant, printer.foundColor.Sprintf(foundStatusTemplateConstant, len(variableReport.FoundIn)))
		for _, foundFile := range variableReport.FoundIn {
			fmt.Fprintf(printer.output, foundFileTemplateConstant, foundFile)
		}
	}

	fmt.Fprint(printer.output, summaryHeaderConstant)
	fmt.Fprintf(printer.output, summaryTemplateConstant, len(report.Variables), report.FoundCount(), report.MissingCount())
}
