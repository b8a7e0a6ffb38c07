package bump_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	bumpcmd "github.com/temirov/pombump/cmd/cli/bump"
	"github.com/temirov/pombump/internal/bump"
	"github.com/temirov/pombump/internal/execshell"
)

const (
	testWorkspaceConstant         = "/clones"
	testInventoryURLConstant      = "https://git.example.com/acme/inventory.git"
	testBillingURLConstant        = "git@git.example.com:acme/billing.git#develop"
	testBillingCloneURLConstant   = "git@git.example.com:acme/billing.git"
	testDescriptorContentConstant = "<project xmlns=\"http://maven.apache.org/POM/4.0.0\">\n  <version>4.2.9</version>\n</project>\n"
	testReleaseBranchConstant     = "release/version-4.2.10-20240115"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time {
	return time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
}

// cloningGitExecutor records git invocations and seeds a descriptor into every clone destination.
type cloningGitExecutor struct {
	fileSystem      afero.Fs
	recordedDetails []execshell.CommandDetails
	failingClones   map[string]error
}

func (executor *cloningGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	if len(details.Arguments) == 4 && details.Arguments[0] == "clone" {
		if cloneFailure, failing := executor.failingClones[details.Arguments[2]]; failing {
			return execshell.ExecutionResult{}, cloneFailure
		}
		destination := details.Arguments[3]
		if writeError := afero.WriteFile(executor.fileSystem, filepath.Join(destination, "pom.xml"), []byte(testDescriptorContentConstant), 0o644); writeError != nil {
			return execshell.ExecutionResult{}, writeError
		}
	}
	return execshell.ExecutionResult{}, nil
}

func (executor *cloningGitExecutor) commandLines() []string {
	lines := make([]string, 0, len(executor.recordedDetails))
	for _, details := range executor.recordedDetails {
		lines = append(lines, strings.Join(details.Arguments, " ")+" @ "+details.WorkingDirectory)
	}
	return lines
}

func newCommandFixture(testInstance *testing.T, configuration bumpcmd.CommandConfiguration, logger *zap.Logger) (*cloningGitExecutor, afero.Fs, *bumpcmd.CommandBuilder) {
	testInstance.Helper()
	fileSystem := afero.NewMemMapFs()
	executor := &cloningGitExecutor{fileSystem: fileSystem, failingClones: map[string]error{}}
	builder := &bumpcmd.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return logger },
		ConfigurationProvider: func() bumpcmd.CommandConfiguration {
			return configuration
		},
		GitExecutor: executor,
		FileSystem:  fileSystem,
		Clock:       fixedClock{},
	}
	return executor, fileSystem, builder
}

func executeCommand(testInstance *testing.T, builder *bumpcmd.CommandBuilder, arguments ...string) (string, error) {
	testInstance.Helper()
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var outputBuffer bytes.Buffer
	command.SetOut(&outputBuffer)
	command.SetErr(&outputBuffer)
	command.SetContext(context.Background())
	command.SetArgs(arguments)

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestBumpCommandProcessesArgumentsInOrder(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zap.DebugLevel)
	executor, fileSystem, builder := newCommandFixture(testInstance, bumpcmd.CommandConfiguration{
		Repositories: []string{"https://git.example.com/acme/ignored.git"},
		Workspace:    testWorkspaceConstant,
	}, zap.New(observerCore))

	output, executionError := executeCommand(testInstance, builder, testInventoryURLConstant, testBillingURLConstant)
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, []string{
		"clone -- " + testInventoryURLConstant + " /clones/inventory @ ",
		"checkout main @ /clones/inventory",
		"checkout -b " + testReleaseBranchConstant + " @ /clones/inventory",
		"add . @ /clones/inventory",
		"commit -m Bump project version to 4.2.10 @ /clones/inventory",
		"push --set-upstream origin " + testReleaseBranchConstant + " @ /clones/inventory",
		"clone -- " + testBillingCloneURLConstant + " /clones/billing @ ",
		"checkout develop @ /clones/billing",
		"checkout -b " + testReleaseBranchConstant + " @ /clones/billing",
		"add . @ /clones/billing",
		"commit -m Bump project version to 4.2.10 @ /clones/billing",
		"push --set-upstream origin " + testReleaseBranchConstant + " @ /clones/billing",
	}, executor.commandLines())

	for _, repositoryName := range []string{"inventory", "billing"} {
		content, readError := afero.ReadFile(fileSystem, filepath.Join(testWorkspaceConstant, repositoryName, "pom.xml"))
		require.NoError(testInstance, readError)
		require.Contains(testInstance, string(content), "<version>4.2.10</version>")
		require.Contains(testInstance, output, "Repository "+repositoryName+" updated with new branch: "+testReleaseBranchConstant+"\n")
	}
	require.Contains(testInstance, output, "Processed 2 repositories: 2 updated, 0 failed\n")

	resolvedEntries := observedLogs.FilterMessage("bump configuration resolved").All()
	require.Len(testInstance, resolvedEntries, 1)
	require.Equal(testInstance, []any{testInventoryURLConstant, testBillingURLConstant}, resolvedEntries[0].ContextMap()["repositories"])
}

func TestBumpCommandFlagsOverrideConfiguration(testInstance *testing.T) {
	executor, fileSystem, builder := newCommandFixture(testInstance, bumpcmd.CommandConfiguration{
		Repositories: []string{testInventoryURLConstant},
		Workspace:    testWorkspaceConstant,
		Remote:       "origin",
	}, zap.NewNop())

	output, executionError := executeCommand(testInstance, builder, "--workspace", "/scratch", "--remote", "upstream", "--dry-run")
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, []string{
		"clone -- " + testInventoryURLConstant + " /scratch/inventory @ ",
		"checkout main @ /scratch/inventory",
	}, executor.commandLines())

	content, readError := afero.ReadFile(fileSystem, "/scratch/inventory/pom.xml")
	require.NoError(testInstance, readError)
	require.Equal(testInstance, testDescriptorContentConstant, string(content))
	require.Contains(testInstance, output, "Repository inventory would be updated with new branch: "+testReleaseBranchConstant+"\n")
	require.Contains(testInstance, output, "planned")
}

func TestBumpCommandRequiresRepositories(testInstance *testing.T) {
	_, _, builder := newCommandFixture(testInstance, bumpcmd.CommandConfiguration{Repositories: []string{" ", ""}}, zap.NewNop())

	output, executionError := executeCommand(testInstance, builder)
	require.ErrorIs(testInstance, executionError, bumpcmd.ErrMissingRepositories)
	require.Contains(testInstance, output, "Usage:")
}

func TestBumpCommandPerRepositoryFailuresDoNotFailCommand(testInstance *testing.T) {
	executor, _, builder := newCommandFixture(testInstance, bumpcmd.CommandConfiguration{Workspace: testWorkspaceConstant}, zap.NewNop())
	executor.failingClones[testInventoryURLConstant] = errors.New("repository not found")

	output, executionError := executeCommand(testInstance, builder, testInventoryURLConstant, testBillingURLConstant)
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, "Repository inventory failed: inventory: repository clone failed: repository not found\n")
	require.Contains(testInstance, output, "Processed 2 repositories: 1 updated, 1 failed\n")
	require.Contains(testInstance, output, "failed: "+string(bump.StageCloning))
}
