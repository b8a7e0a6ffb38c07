package envdiff

import (
	"errors"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pombump/internal/envdiff"
	"github.com/temirov/pombump/internal/repos/shared"
)

const (
	commandUseConstant                    = "env-diff <base> <file...>"
	commandShortDescriptionConstant       = "Compare KEY=VALUE environment files against a base file"
	commandLongDescriptionConstant        = "env-diff loads a base environment file and reports, for every other file, the variables it is missing, the values that differ, and the variables the base does not define."
	commandExampleConstant                = "pombump env-diff .env.example .env.staging .env.production"
	missingBaseMessageConstant            = "no base environment file; pass it as the first argument or configure tools.env_diff.base"
	missingComparisonFilesMessageConstant = "no environment files to compare; pass them after the base file or configure tools.env_diff.files"
	logMessageComparisonConstant          = "comparing environment files"
	logMessageFileFailureConstant         = "environment file skipped"
	logFieldBaseConstant                  = "base"
	logFieldFilesConstant                 = "files"
	logFieldFileConstant                  = "file"
)

// ErrMissingBase indicates that no base file was named.
var ErrMissingBase = errors.New(missingBaseMessageConstant)

// ErrMissingComparisonFiles indicates that no file was named for comparison.
var ErrMissingComparisonFiles = errors.New(missingComparisonFilesMessageConstant)

// CommandBuilder assembles the env-diff command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	FileSystem            afero.Fs
}

// Build constructs the env-diff command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.ArbitraryArgs,
		RunE:    builder.run,
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration(arguments)
	if len(configuration.Base) == 0 {
		if helpError := displayCommandHelp(command); helpError != nil {
			return helpError
		}
		return ErrMissingBase
	}
	if len(configuration.Files) == 0 {
		if helpError := displayCommandHelp(command); helpError != nil {
			return helpError
		}
		return ErrMissingComparisonFiles
	}

	logger := resolveLogger(builder.LoggerProvider)
	logger.Debug(
		logMessageComparisonConstant,
		zap.String(logFieldBaseConstant, configuration.Base),
		zap.Strings(logFieldFilesConstant, configuration.Files),
	)

	reporter := envdiff.NewReporter(envdiff.NewLoader(builder.FileSystem), shared.NewWriterReporter(command.OutOrStdout()))
	report, reportError := reporter.Report(configuration.Base, configuration.Files)
	if reportError != nil {
		return reportError
	}

	for _, fileReport := range report.Files {
		if fileReport.Failure != nil {
			logger.Warn(logMessageFileFailureConstant, zap.String(logFieldFileConstant, fileReport.Path), zap.Error(fileReport.Failure))
		}
	}
	return nil
}

// resolveConfiguration lets positional arguments replace the configured base and files.
func (builder *CommandBuilder) resolveConfiguration(arguments []string) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	if len(arguments) > 0 {
		configuration.Base = arguments[0]
		configuration.Files = append([]string{}, arguments[1:]...)
	}
	return configuration.Sanitize()
}
