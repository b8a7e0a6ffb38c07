package bump

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/pombump/internal/descriptor"
	"github.com/temirov/pombump/internal/gitrepo"
	"github.com/temirov/pombump/internal/repos/dependencies"
	"github.com/temirov/pombump/internal/repos/shared"
	"github.com/temirov/pombump/internal/versioning"
)

const (
	// DefaultDescriptorFileNameConstant is the build descriptor searched for when none is configured.
	DefaultDescriptorFileNameConstant = "pom.xml"
	// DefaultWorkspaceDirectoryConstant is the directory receiving clones when none is configured.
	DefaultWorkspaceDirectoryConstant = "."

	releaseBranchTemplateConstant       = "release/version-%s-%s"
	releaseBranchDateLayoutConstant     = "20060102"
	commitMessageTemplateConstant       = "Bump project version to %s"
	sourceControlMissingMessageConstant = "source control not configured"

	cloningMessageTemplateConstant           = "Cloning repository %s\n"
	versionUpdatedMessageTemplateConstant    = "Version updated: %s -> %s (%s)\n"
	versionPlannedMessageTemplateConstant    = "Version would be updated: %s -> %s (%s)\n"
	descriptorSkippedMessageTemplateConstant = "Skipped %s: no version field\n"
	descriptorFailedMessageTemplateConstant  = "Failed to update %s: %v\n"
	repositoryUpdatedMessageTemplateConstant = "Repository %s updated with new branch: %s\n"
	repositoryPlannedMessageTemplateConstant = "Repository %s would be updated with new branch: %s\n"
	noUpdateNeededMessageTemplateConstant    = "No update needed for %s\n"
	repositoryFailedMessageTemplateConstant  = "Repository %s failed: %v\n"

	logMessageRepositoryStartedConstant  = "repository processing started"
	logMessageDescriptorSkippedConstant  = "descriptor has no version field"
	logMessageDescriptorFailedConstant   = "descriptor update failed"
	logMessageDescriptorUpdatedConstant  = "descriptor version updated"
	logMessageRepositoryFinishedConstant = "repository processing finished"
	logMessageRepositoryFailedConstant   = "repository processing failed"
	logFieldRepositoryConstant           = "repository"
	logFieldCloneURLConstant             = "clone_url"
	logFieldBranchConstant               = "branch"
	logFieldDescriptorConstant           = "descriptor"
	logFieldOldVersionConstant           = "old_version"
	logFieldNewVersionConstant           = "new_version"
	logFieldReleaseBranchConstant        = "release_branch"
	logFieldStageConstant                = "stage"
	logFieldUpdatedConstant              = "updated"
	logFieldDryRunConstant               = "dry_run"
)

// ErrSourceControlNotConfigured indicates the workflow was constructed without a SourceControl.
var ErrSourceControlNotConfigured = errors.New(sourceControlMissingMessageConstant)

// DescriptorEditor reads and rewrites descriptor version fields.
type DescriptorEditor interface {
	FindVersionField(descriptorPath string) (descriptor.VersionField, error)
	WriteVersion(field descriptor.VersionField, newValue string) error
}

// DescriptorDiscoverer lists descriptor files below repository roots.
type DescriptorDiscoverer interface {
	DiscoverDescriptors(roots []string, descriptorFileName string) ([]string, error)
}

// WorkflowDependencies enumerates collaborators required by the workflow.
// Only SourceControl is mandatory; the rest default to operating-system backed implementations.
type WorkflowDependencies struct {
	SourceControl        SourceControl
	FileSystem           afero.Fs
	DescriptorEditor     DescriptorEditor
	DescriptorDiscoverer DescriptorDiscoverer
	Clock                shared.Clock
	Reporter             shared.Reporter
	Logger               *zap.Logger
}

// WorkflowOptions configure how a repository is processed.
type WorkflowOptions struct {
	WorkspaceDirectory string
	DescriptorFileName string
	RemoteName         string
	DryRun             bool
}

// Workflow bumps the descriptors of one repository at a time.
type Workflow struct {
	sourceControl SourceControl
	editor        DescriptorEditor
	discoverer    DescriptorDiscoverer
	clock         shared.Clock
	reporter      shared.Reporter
	logger        *zap.Logger
}

// NewWorkflow constructs a Workflow from the provided dependencies.
func NewWorkflow(workflowDependencies WorkflowDependencies) (*Workflow, error) {
	if workflowDependencies.SourceControl == nil {
		return nil, ErrSourceControlNotConfigured
	}

	fileSystem := dependencies.ResolveFileSystem(workflowDependencies.FileSystem)

	workflow := &Workflow{
		sourceControl: workflowDependencies.SourceControl,
		editor:        workflowDependencies.DescriptorEditor,
		discoverer:    workflowDependencies.DescriptorDiscoverer,
		clock:         workflowDependencies.Clock,
		reporter:      workflowDependencies.Reporter,
		logger:        workflowDependencies.Logger,
	}
	if workflow.editor == nil {
		workflow.editor = descriptor.NewEditor(fileSystem)
	}
	if workflow.discoverer == nil {
		workflow.discoverer = dependencies.ResolveDescriptorDiscoverer(fileSystem)
	}
	if workflow.clock == nil {
		workflow.clock = shared.SystemClock{}
	}
	if workflow.reporter == nil {
		workflow.reporter = shared.NewDiscardReporter()
	}
	if workflow.logger == nil {
		workflow.logger = zap.NewNop()
	}
	return workflow, nil
}

// Sanitize fills defaults for empty options.
func (options WorkflowOptions) Sanitize() WorkflowOptions {
	sanitized := options
	sanitized.WorkspaceDirectory = strings.TrimSpace(sanitized.WorkspaceDirectory)
	if len(sanitized.WorkspaceDirectory) == 0 {
		sanitized.WorkspaceDirectory = DefaultWorkspaceDirectoryConstant
	}
	sanitized.DescriptorFileName = strings.TrimSpace(sanitized.DescriptorFileName)
	if len(sanitized.DescriptorFileName) == 0 {
		sanitized.DescriptorFileName = DefaultDescriptorFileNameConstant
	}
	sanitized.RemoteName = strings.TrimSpace(sanitized.RemoteName)
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = shared.OriginRemoteNameConstant
	}
	return sanitized
}

// ReleaseBranchName formats the branch that carries a bump to newVersion on the given clock's date.
func ReleaseBranchName(newVersion string, clock shared.Clock) string {
	return fmt.Sprintf(releaseBranchTemplateConstant, newVersion, clock.Now().Format(releaseBranchDateLayoutConstant))
}

// CommitMessage formats the commit message recording a bump to newVersion.
func CommitMessage(newVersion string) string {
	return fmt.Sprintf(commitMessageTemplateConstant, newVersion)
}

// Process clones the repository, bumps every descriptor, and publishes a release branch when
// anything changed. Failures are recorded on the returned result.
func (workflow *Workflow) Process(executionContext context.Context, reference gitrepo.RepositoryReference, options WorkflowOptions) WorkflowResult {
	sanitizedOptions := options.Sanitize()
	result := WorkflowResult{
		RepositoryName: reference.Name,
		RawReference:   reference.RawURL,
		CloneURL:       reference.CloneURL,
		Branch:         reference.Branch,
		DryRun:         sanitizedOptions.DryRun,
	}

	workflow.logger.Info(
		logMessageRepositoryStartedConstant,
		zap.String(logFieldRepositoryConstant, reference.Name),
		zap.String(logFieldCloneURLConstant, reference.CloneURL),
		zap.String(logFieldBranchConstant, reference.Branch),
		zap.Bool(logFieldDryRunConstant, sanitizedOptions.DryRun),
	)

	repositoryPath := filepath.Join(sanitizedOptions.WorkspaceDirectory, reference.Name)

	workflow.reporter.Printf(cloningMessageTemplateConstant, reference.CloneURL)
	if cloneError := workflow.sourceControl.Clone(executionContext, reference.CloneURL, repositoryPath); cloneError != nil {
		return workflow.fail(result, StageCloning, cloneError)
	}

	if checkoutError := workflow.sourceControl.Checkout(executionContext, repositoryPath, reference.Branch); checkoutError != nil {
		return workflow.fail(result, StageCheckout, checkoutError)
	}

	descriptorPaths, scanError := workflow.discoverer.DiscoverDescriptors([]string{repositoryPath}, sanitizedOptions.DescriptorFileName)
	if scanError != nil {
		return workflow.fail(result, StageScanning, scanError)
	}

	for _, descriptorPath := range descriptorPaths {
		outcome := workflow.updateDescriptor(reference.Name, descriptorPath, sanitizedOptions.DryRun)
		result.Descriptors = append(result.Descriptors, outcome)
		if outcome.Failure == nil && !outcome.Skipped {
			result.OldVersion = outcome.OldVersion
			result.NewVersion = outcome.NewVersion
		}
	}

	if len(result.NewVersion) == 0 {
		workflow.reporter.Printf(noUpdateNeededMessageTemplateConstant, reference.Name)
		workflow.logFinished(result)
		return result
	}

	result.ReleaseBranch = ReleaseBranchName(result.NewVersion, workflow.clock)
	if sanitizedOptions.DryRun {
		workflow.reporter.Printf(repositoryPlannedMessageTemplateConstant, reference.Name, result.ReleaseBranch)
		workflow.logFinished(result)
		return result
	}

	if branchError := workflow.sourceControl.CreateBranch(executionContext, repositoryPath, result.ReleaseBranch); branchError != nil {
		return workflow.fail(result, StageBranching, branchError)
	}

	if commitError := workflow.sourceControl.CommitAll(executionContext, repositoryPath, CommitMessage(result.NewVersion)); commitError != nil {
		return workflow.fail(result, StageCommitting, commitError)
	}

	if pushError := workflow.sourceControl.Push(executionContext, repositoryPath, sanitizedOptions.RemoteName, result.ReleaseBranch); pushError != nil {
		return workflow.fail(result, StagePushing, pushError)
	}

	result.Updated = true
	workflow.reporter.Printf(repositoryUpdatedMessageTemplateConstant, reference.Name, result.ReleaseBranch)
	workflow.logFinished(result)
	return result
}

func (workflow *Workflow) updateDescriptor(repositoryName string, descriptorPath string, dryRun bool) DescriptorOutcome {
	outcome := DescriptorOutcome{Path: descriptorPath}

	versionField, findError := workflow.editor.FindVersionField(descriptorPath)
	if errors.Is(findError, descriptor.ErrVersionFieldNotFound) {
		outcome.Skipped = true
		workflow.reporter.Printf(descriptorSkippedMessageTemplateConstant, descriptorPath)
		workflow.logger.Debug(logMessageDescriptorSkippedConstant, zap.String(logFieldRepositoryConstant, repositoryName), zap.String(logFieldDescriptorConstant, descriptorPath))
		return outcome
	}
	if findError != nil {
		return workflow.failDescriptor(repositoryName, outcome, findError)
	}

	outcome.OldVersion = versionField.Value
	currentVersion, parseError := versioning.Parse(versionField.Value)
	if parseError != nil {
		return workflow.failDescriptor(repositoryName, outcome, parseError)
	}
	nextVersion, incrementError := versioning.Increment(currentVersion)
	if incrementError != nil {
		return workflow.failDescriptor(repositoryName, outcome, incrementError)
	}
	outcome.NewVersion = nextVersion.String()

	if dryRun {
		workflow.reporter.Printf(versionPlannedMessageTemplateConstant, outcome.OldVersion, outcome.NewVersion, descriptorPath)
		return outcome
	}

	if writeError := workflow.editor.WriteVersion(versionField, outcome.NewVersion); writeError != nil {
		outcome.NewVersion = ""
		return workflow.failDescriptor(repositoryName, outcome, writeError)
	}

	outcome.Updated = true
	workflow.reporter.Printf(versionUpdatedMessageTemplateConstant, outcome.OldVersion, outcome.NewVersion, descriptorPath)
	workflow.logger.Info(
		logMessageDescriptorUpdatedConstant,
		zap.String(logFieldRepositoryConstant, repositoryName),
		zap.String(logFieldDescriptorConstant, descriptorPath),
		zap.String(logFieldOldVersionConstant, outcome.OldVersion),
		zap.String(logFieldNewVersionConstant, outcome.NewVersion),
	)
	return outcome
}

func (workflow *Workflow) failDescriptor(repositoryName string, outcome DescriptorOutcome, failure error) DescriptorOutcome {
	outcome.Failure = failure
	workflow.reporter.Printf(descriptorFailedMessageTemplateConstant, outcome.Path, failure)
	workflow.logger.Warn(logMessageDescriptorFailedConstant, zap.String(logFieldRepositoryConstant, repositoryName), zap.String(logFieldDescriptorConstant, outcome.Path), zap.Error(failure))
	return outcome
}

func (workflow *Workflow) fail(result WorkflowResult, stage Stage, cause error) WorkflowResult {
	result.FailedStage = stage
	result.Failure = WorkflowError{Stage: stage, RepositoryName: result.RepositoryName, Cause: cause}
	workflow.reporter.Printf(repositoryFailedMessageTemplateConstant, result.RepositoryName, result.Failure)
	workflow.logger.Warn(
		logMessageRepositoryFailedConstant,
		zap.String(logFieldRepositoryConstant, result.RepositoryName),
		zap.String(logFieldStageConstant, string(stage)),
		zap.Error(cause),
	)
	return result
}

func (workflow *Workflow) logFinished(result WorkflowResult) {
	workflow.logger.Info(
		logMessageRepositoryFinishedConstant,
		zap.String(logFieldRepositoryConstant, result.RepositoryName),
		zap.Bool(logFieldUpdatedConstant, result.Updated),
		zap.String(logFieldOldVersionConstant, result.OldVersion),
		zap.String(logFieldNewVersionConstant, result.NewVersion),
		zap.String(logFieldReleaseBranchConstant, result.ReleaseBranch),
		zap.Bool(logFieldDryRunConstant, result.DryRun),
	)
}
