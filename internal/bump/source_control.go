package bump

import (
	"context"
	"errors"

	"github.com/temirov/pombump/internal/execshell"
	"github.com/temirov/pombump/internal/repos/shared"
)

const (
	gitExecutorMissingMessageConstant = "git executor not configured"
	gitCloneSubcommandConstant        = "clone"
	gitEndOfOptionsConstant           = "--"
	gitCheckoutSubcommandConstant     = "checkout"
	gitCreateBranchFlagConstant       = "-b"
	gitAddSubcommandConstant          = "add"
	gitAddAllPathspecConstant         = "."
	gitCommitSubcommandConstant       = "commit"
	gitCommitMessageFlagConstant      = "-m"
	gitPushSubcommandConstant         = "push"
	gitSetUpstreamFlagConstant        = "--set-upstream"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// SourceControl is the version-control capability the workflow depends on.
type SourceControl interface {
	// Clone copies cloneURL into destination, which must not already hold a repository.
	Clone(executionContext context.Context, cloneURL string, destination string) error
	// Checkout switches repositoryPath to an existing branch.
	Checkout(executionContext context.Context, repositoryPath string, branchName string) error
	// CreateBranch creates branchName at HEAD and switches to it.
	CreateBranch(executionContext context.Context, repositoryPath string, branchName string) error
	// CommitAll stages every change in the working tree and commits it.
	CommitAll(executionContext context.Context, repositoryPath string, message string) error
	// Push publishes branchName to remoteName and records it as the upstream.
	Push(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
}

// GitSourceControl implements SourceControl with the git command-line client.
type GitSourceControl struct {
	executor shared.GitExecutor
}

// NewGitSourceControl constructs a GitSourceControl.
func NewGitSourceControl(executor shared.GitExecutor) (*GitSourceControl, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &GitSourceControl{executor: executor}, nil
}

// Clone runs git clone. The URL follows "--" so it is never read as an option.
func (sourceControl *GitSourceControl) Clone(executionContext context.Context, cloneURL string, destination string) error {
	return sourceControl.run(executionContext, "", gitCloneSubcommandConstant, gitEndOfOptionsConstant, cloneURL, destination)
}

// Checkout runs git checkout.
func (sourceControl *GitSourceControl) Checkout(executionContext context.Context, repositoryPath string, branchName string) error {
	return sourceControl.run(executionContext, repositoryPath, gitCheckoutSubcommandConstant, branchName)
}

// CreateBranch runs git checkout -b.
func (sourceControl *GitSourceControl) CreateBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	return sourceControl.run(executionContext, repositoryPath, gitCheckoutSubcommandConstant, gitCreateBranchFlagConstant, branchName)
}

// CommitAll runs git add . followed by git commit -m.
func (sourceControl *GitSourceControl) CommitAll(executionContext context.Context, repositoryPath string, message string) error {
	if addError := sourceControl.run(executionContext, repositoryPath, gitAddSubcommandConstant, gitAddAllPathspecConstant); addError != nil {
		return addError
	}
	return sourceControl.run(executionContext, repositoryPath, gitCommitSubcommandConstant, gitCommitMessageFlagConstant, message)
}

// Push runs git push --set-upstream.
func (sourceControl *GitSourceControl) Push(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	return sourceControl.run(executionContext, repositoryPath, gitPushSubcommandConstant, gitSetUpstreamFlagConstant, remoteName, branchName)
}

func (sourceControl *GitSourceControl) run(executionContext context.Context, workingDirectory string, arguments ...string) error {
	_, executionError := sourceControl.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: shared.NonInteractiveGitEnvironment(),
	})
	return executionError
}
