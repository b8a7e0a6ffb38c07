package placeholders

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pombump/internal/placeholders"
)

const (
	commandUseConstant                   = "placeholders <application.yml> [environment-file...]"
	commandShortDescriptionConstant      = "List ${NAME:default} placeholders and check environment files for them"
	commandLongDescriptionConstant       = "placeholders extracts every ${NAME} or ${NAME:default} placeholder from an application YAML file together with its dotted key path. When environment files are given, each placeholder name is searched for in every file and a found/not-found report is printed."
	commandExampleConstant               = "pombump placeholders src/main/resources/application.yml deploy/dev.yml deploy/prod.yml"
	missingApplicationMessageConstant    = "no application file; pass it as the first argument or configure tools.placeholders.application"
	logMessageExtractionConstant         = "extracting placeholders"
	logMessageSkippedEnvironmentConstant = "environment file skipped"
	logFieldApplicationConstant          = "application"
	logFieldEnvironmentsConstant         = "environments"
	logFieldPlaceholderCountConstant     = "placeholder_count"
	logFieldFileConstant                 = "file"
)

// ErrMissingApplication indicates that no application file was named.
var ErrMissingApplication = errors.New(missingApplicationMessageConstant)

// CommandBuilder assembles the placeholders command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	ColorProvider         func() bool
	FileSystem            afero.Fs
}

// Build constructs the placeholders command.
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
	if len(configuration.Application) == 0 {
		if helpError := displayCommandHelp(command); helpError != nil {
			return helpError
		}
		return ErrMissingApplication
	}

	logger := resolveLogger(builder.LoggerProvider)
	verifier := placeholders.NewVerifier(builder.FileSystem)
	extracted, extractError := verifier.ExtractFile(configuration.Application)
	if extractError != nil {
		return extractError
	}
	logger.Debug(
		logMessageExtractionConstant,
		zap.String(logFieldApplicationConstant, configuration.Application),
		zap.Strings(logFieldEnvironmentsConstant, configuration.Environments),
		zap.Int(logFieldPlaceholderCountConstant, len(extracted)),
	)

	printer := placeholders.NewReportPrinter(command.OutOrStdout(), builder.colorEnabled())
	printer.PrintPlaceholders(extracted)
	if len(configuration.Environments) == 0 {
		return nil
	}

	report := verifier.Verify(extracted, configuration.Environments)
	for _, skippedFile := range report.Skipped {
		logger.Warn(logMessageSkippedEnvironmentConstant, zap.String(logFieldFileConstant, skippedFile.Path), zap.Error(skippedFile.Failure))
	}
	printer.PrintReport(report)
	return nil
}

func (builder *CommandBuilder) colorEnabled() bool {
	if builder.ColorProvider == nil {
		return !color.NoColor
	}
	return builder.ColorProvider()
}

// resolveConfiguration lets positional arguments replace the configured files.
func (builder *CommandBuilder) resolveConfiguration(arguments []string) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	if len(arguments) > 0 {
		configuration.Application = arguments[0]
		configuration.Environments = append([]string{}, arguments[1:]...)
	}
	return configuration.Sanitize()
}
