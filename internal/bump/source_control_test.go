package bump_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pombump/internal/bump"
	"github.com/temirov/pombump/internal/execshell"
)

const (
	testRepositoryPathConstant = "/workspace/service"
	testReleaseBranchConstant  = "release/version-1.0.1-20240115"
)

type recordingGitExecutor struct {
	recordedDetails []execshell.CommandDetails
	failingCommand  string
	failure         error
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	if len(details.Arguments) > 0 && details.Arguments[0] == executor.failingCommand {
		return execshell.ExecutionResult{}, executor.failure
	}
	return execshell.ExecutionResult{}, nil
}

func TestNewGitSourceControlRequiresExecutor(testInstance *testing.T) {
	sourceControl, creationError := bump.NewGitSourceControl(nil)
	require.ErrorIs(testInstance, creationError, bump.ErrGitExecutorNotConfigured)
	require.Nil(testInstance, sourceControl)
}

func TestGitSourceControlCommands(testInstance *testing.T) {
	testCases := []struct {
		name                     string
		operation                func(sourceControl *bump.GitSourceControl) error
		expectedArguments        [][]string
		expectedWorkingDirectory string
	}{
		{
			name: "clone",
			operation: func(sourceControl *bump.GitSourceControl) error {
				return sourceControl.Clone(context.Background(), serviceCloneURLConstant, testRepositoryPathConstant)
			},
			expectedArguments: [][]string{{"clone", "--", serviceCloneURLConstant, testRepositoryPathConstant}},
		},
		{
			name: "clone_option_like_reference",
			operation: func(sourceControl *bump.GitSourceControl) error {
				return sourceControl.Clone(context.Background(), "--upload-pack=touch /tmp/upload-marker", testRepositoryPathConstant)
			},
			expectedArguments: [][]string{{"clone", "--", "--upload-pack=touch /tmp/upload-marker", testRepositoryPathConstant}},
		},
		{
			name: "checkout",
			operation: func(sourceControl *bump.GitSourceControl) error {
				return sourceControl.Checkout(context.Background(), testRepositoryPathConstant, "develop")
			},
			expectedArguments:        [][]string{{"checkout", "develop"}},
			expectedWorkingDirectory: testRepositoryPathConstant,
		},
		{
			name: "create_branch",
			operation: func(sourceControl *bump.GitSourceControl) error {
				return sourceControl.CreateBranch(context.Background(), testRepositoryPathConstant, testReleaseBranchConstant)
			},
			expectedArguments:        [][]string{{"checkout", "-b", testReleaseBranchConstant}},
			expectedWorkingDirectory: testRepositoryPathConstant,
		},
		{
			name: "commit_all",
			operation: func(sourceControl *bump.GitSourceControl) error {
				return sourceControl.CommitAll(context.Background(), testRepositoryPathConstant, expectedCommitMessageConstant)
			},
			expectedArguments:        [][]string{{"add", "."}, {"commit", "-m", expectedCommitMessageConstant}},
			expectedWorkingDirectory: testRepositoryPathConstant,
		},
		{
			name: "push",
			operation: func(sourceControl *bump.GitSourceControl) error {
				return sourceControl.Push(context.Background(), testRepositoryPathConstant, "origin", testReleaseBranchConstant)
			},
			expectedArguments:        [][]string{{"push", "--set-upstream", "origin", testReleaseBranchConstant}},
			expectedWorkingDirectory: testRepositoryPathConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingGitExecutor{}
			sourceControl, creationError := bump.NewGitSourceControl(executor)
			require.NoError(testInstance, creationError)

			require.NoError(testInstance, testCase.operation(sourceControl))
			require.Len(testInstance, executor.recordedDetails, len(testCase.expectedArguments))
			for detailsIndex, details := range executor.recordedDetails {
				require.Equal(testInstance, testCase.expectedArguments[detailsIndex], details.Arguments)
				require.Equal(testInstance, testCase.expectedWorkingDirectory, details.WorkingDirectory)
				require.Equal(testInstance, map[string]string{"GIT_TERMINAL_PROMPT": "0"}, details.EnvironmentVariables)
			}
		})
	}
}

func TestGitSourceControlCommitStopsWhenStagingFails(testInstance *testing.T) {
	stagingFailure := errors.New("index.lock exists")
	executor := &recordingGitExecutor{failingCommand: "add", failure: stagingFailure}
	sourceControl, creationError := bump.NewGitSourceControl(executor)
	require.NoError(testInstance, creationError)

	commitError := sourceControl.CommitAll(context.Background(), testRepositoryPathConstant, expectedCommitMessageConstant)
	require.ErrorIs(testInstance, commitError, stagingFailure)
	require.Len(testInstance, executor.recordedDetails, 1)
}
