package replace

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pombump/internal/textedit"
)

const (
	commandUseConstant                = "replace <file> <start-marker> <end-marker> <replacement>"
	commandShortDescriptionConstant   = "Replace the text between two markers in a file"
	commandLongDescriptionConstant    = "replace locates the first start marker, then the first end marker at or after it, and substitutes the whole span including both markers with the replacement text."
	commandExampleConstant            = "pombump replace README.md '<!-- version -->' '<!-- /version -->' '<!-- version -->1.2.4<!-- /version -->'"
	dryRunFlagNameConstant            = "dry-run"
	dryRunFlagUsageConstant           = "Print the unified diff without writing the file"
	expectedArgumentCountConstant     = 4
	completedTemplateConstant         = "Replacement completed in %s\n"
	plannedTemplateConstant           = "Replacement planned in %s\n"
	failedTemplateConstant            = "Replacement failed in %s: %v\n"
	replacementFailedMessageConstant  = "replacement failed"
	replacementFailedTemplateConstant = "%w: %s"
	logMessageReplacementConstant     = "replacing marker span"
	logMessageFailureConstant         = "replacement failed"
	logFieldFileConstant              = "file"
	logFieldStartMarkerConstant       = "start_marker"
	logFieldEndMarkerConstant         = "end_marker"
	logFieldDryRunConstant            = "dry_run"
)

// ErrReplacementFailed indicates that the file could not be updated.
var ErrReplacementFailed = errors.New(replacementFailedMessageConstant)

// CommandBuilder assembles the replace command.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
	FileSystem     afero.Fs
}

// Build constructs the replace command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.ExactArgs(expectedArgumentCountConstant),
		RunE:    builder.run,
	}

	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := resolveLogger(builder.LoggerProvider)
	dryRun, _ := command.Flags().GetBool(dryRunFlagNameConstant)

	options := textedit.Options{
		FilePath:    arguments[0],
		StartMarker: arguments[1],
		EndMarker:   arguments[2],
		Replacement: arguments[3],
		DryRun:      dryRun,
	}
	logger.Debug(
		logMessageReplacementConstant,
		zap.String(logFieldFileConstant, options.FilePath),
		zap.String(logFieldStartMarkerConstant, options.StartMarker),
		zap.String(logFieldEndMarkerConstant, options.EndMarker),
		zap.Bool(logFieldDryRunConstant, options.DryRun),
	)

	output := command.OutOrStdout()
	result, replaceError := textedit.NewEditor(builder.FileSystem).Replace(options)
	if replaceError != nil {
		logger.Warn(logMessageFailureConstant, zap.String(logFieldFileConstant, options.FilePath), zap.Error(replaceError))
		fmt.Fprintf(output, failedTemplateConstant, options.FilePath, replaceError)
		return fmt.Errorf(replacementFailedTemplateConstant, ErrReplacementFailed, options.FilePath)
	}

	if options.DryRun {
		fmt.Fprint(output, result.Diff)
		fmt.Fprintf(output, plannedTemplateConstant, result.FilePath)
		return nil
	}

	fmt.Fprintf(output, completedTemplateConstant, result.FilePath)
	return nil
}
