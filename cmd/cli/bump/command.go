package bump

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pombump/internal/bump"
	"github.com/temirov/pombump/internal/repos/dependencies"
	"github.com/temirov/pombump/internal/repos/shared"
	"github.com/temirov/pombump/internal/utils"
)

const (
	commandUseConstant                        = "bump [repository...]"
	commandShortDescriptionConstant           = "Bump the patch version of every pom.xml in a list of repositories"
	commandLongDescriptionConstant            = "bump clones each repository, increments the patch component of every descriptor version it finds, and pushes the change on a new release/version-<version>-<date> branch. Append @branch or #branch to a repository URL to work from a branch other than main. Repositories are processed in order and a failure in one does not stop the others."
	commandExampleConstant                    = "pombump bump https://github.com/acme/inventory.git git@github.com:acme/billing.git#develop --workspace ~/clones"
	workspaceFlagNameConstant                 = "workspace"
	workspaceFlagUsageConstant                = "Directory that receives one clone per repository"
	descriptorFlagNameConstant                = "descriptor"
	descriptorFlagUsageConstant               = "Descriptor file name to search for"
	remoteFlagNameConstant                    = "remote"
	remoteFlagUsageConstant                   = "Remote that receives release branches"
	dryRunFlagNameConstant                    = "dry-run"
	dryRunFlagUsageConstant                   = "Clone and report planned bumps without writing, committing, or pushing"
	missingRepositoriesMessageConstant        = "no repositories to bump; pass repository URLs as arguments or configure tools.bump.repositories"
	workspacePreparationErrorTemplateConstant = "unable to prepare workspace %s: %w"
	sourceControlErrorTemplateConstant        = "unable to construct source control: %w"
	workflowErrorTemplateConstant             = "unable to construct bump workflow: %w"
	batchRunnerErrorTemplateConstant          = "unable to construct batch runner: %w"
	workspaceDirectoryPermissionsConstant     = 0o755
	logMessageConfigurationResolvedConstant   = "bump configuration resolved"
	logFieldConfigFileConstant                = "config_file"
	logFieldRepositoriesConstant              = "repositories"
	logFieldWorkspaceConstant                 = "workspace"
	logFieldDescriptorConstant                = "descriptor_file_name"
	logFieldRemoteConstant                    = "remote"
	logFieldDryRunConstant                    = "dry_run"
)

// ErrMissingRepositories indicates that neither arguments nor configuration named a repository.
var ErrMissingRepositories = errors.New(missingRepositoriesMessageConstant)

// CommandBuilder assembles the bump command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	GitExecutor                  shared.GitExecutor
	FileSystem                   afero.Fs
	Clock                        shared.Clock
}

// Build constructs the bump command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.ArbitraryArgs,
		RunE:    builder.run,
	}

	command.Flags().String(workspaceFlagNameConstant, "", workspaceFlagUsageConstant)
	command.Flags().String(descriptorFlagNameConstant, "", descriptorFlagUsageConstant)
	command.Flags().String(remoteFlagNameConstant, "", remoteFlagUsageConstant)
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration(command)

	references := sanitizeReferences(arguments)
	if len(references) == 0 {
		references = configuration.Repositories
	}
	if len(references) == 0 {
		if helpError := displayCommandHelp(command); helpError != nil {
			return helpError
		}
		return ErrMissingRepositories
	}

	logger := resolveLogger(builder.LoggerProvider)
	configurationFilePath, _ := utils.ConfigurationFilePath(command.Context())
	logger.Debug(
		logMessageConfigurationResolvedConstant,
		zap.String(logFieldConfigFileConstant, configurationFilePath),
		zap.Strings(logFieldRepositoriesConstant, references),
		zap.String(logFieldWorkspaceConstant, configuration.Workspace),
		zap.String(logFieldDescriptorConstant, configuration.DescriptorFileName),
		zap.String(logFieldRemoteConstant, configuration.Remote),
		zap.Bool(logFieldDryRunConstant, configuration.DryRun),
	)

	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)
	if mkdirError := fileSystem.MkdirAll(configuration.Workspace, workspaceDirectoryPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(workspacePreparationErrorTemplateConstant, configuration.Workspace, mkdirError)
	}

	consoleLogger := resolveConsoleLogger(builder.ConsoleLoggerProvider, builder.HumanReadableLoggingProvider)
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, consoleLogger)
	if executorError != nil {
		return executorError
	}

	sourceControl, sourceControlError := bump.NewGitSourceControl(gitExecutor)
	if sourceControlError != nil {
		return fmt.Errorf(sourceControlErrorTemplateConstant, sourceControlError)
	}

	reporter := shared.NewWriterReporter(command.OutOrStdout())
	workflow, workflowError := bump.NewWorkflow(bump.WorkflowDependencies{
		SourceControl: sourceControl,
		FileSystem:    fileSystem,
		Clock:         builder.Clock,
		Reporter:      reporter,
		Logger:        logger,
	})
	if workflowError != nil {
		return fmt.Errorf(workflowErrorTemplateConstant, workflowError)
	}

	runner, runnerError := bump.NewBatchRunner(bump.BatchDependencies{
		Processor: workflow,
		Reporter:  reporter,
		Logger:    logger,
	})
	if runnerError != nil {
		return fmt.Errorf(batchRunnerErrorTemplateConstant, runnerError)
	}

	runner.Run(command.Context(), bump.BatchOptions{
		References: references,
		Workflow: bump.WorkflowOptions{
			WorkspaceDirectory: configuration.Workspace,
			DescriptorFileName: configuration.DescriptorFileName,
			RemoteName:         configuration.Remote,
			DryRun:             configuration.DryRun,
		},
	})
	return nil
}

// resolveConfiguration merges configured values with explicitly set flags.
func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	if command != nil {
		if command.Flags().Changed(workspaceFlagNameConstant) {
			configuration.Workspace, _ = command.Flags().GetString(workspaceFlagNameConstant)
		}
		if command.Flags().Changed(descriptorFlagNameConstant) {
			configuration.DescriptorFileName, _ = command.Flags().GetString(descriptorFlagNameConstant)
		}
		if command.Flags().Changed(remoteFlagNameConstant) {
			configuration.Remote, _ = command.Flags().GetString(remoteFlagNameConstant)
		}
		if command.Flags().Changed(dryRunFlagNameConstant) {
			configuration.DryRun, _ = command.Flags().GetBool(dryRunFlagNameConstant)
		}
	}

	return configuration.Sanitize()
}
