package bump_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

const (
	testWorkspaceDirectoryConstant = "/workspace"
	testBranchesCommentPrefix      = "branches:"
	testDefaultBranchConstant      = "main"
	gitMetadataDirectoryConstant   = ".git"
)

var errFakeDestinationExists = errors.New("destination path already exists and is not an empty directory")

type fixedClock struct {
	instant time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.instant
}

func newFixedClock() fixedClock {
	return fixedClock{instant: time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)}
}

type fakeCommit struct {
	Message string
	Files   map[string]string
}

type fakeClone struct {
	cloneURL      string
	currentBranch string
	localBranches map[string][]fakeCommit
}

type fakePush struct {
	RepositoryPath string
	RemoteName     string
	BranchName     string
}

// fakeRemote serves repositories described by txtar archives into an afero filesystem.
type fakeRemote struct {
	fileSystem    afero.Fs
	archives      map[string]*txtar.Archive
	cloneFailures map[string]error
	pushFailure   error
	clonedURLs    []string
	clones        map[string]*fakeClone
	upstream      map[string]map[string][]fakeCommit
	pushes        []fakePush
}

func newFakeRemote(fileSystem afero.Fs) *fakeRemote {
	return &fakeRemote{
		fileSystem:    fileSystem,
		archives:      map[string]*txtar.Archive{},
		cloneFailures: map[string]error{},
		clones:        map[string]*fakeClone{},
		upstream:      map[string]map[string][]fakeCommit{},
	}
}

func (remote *fakeRemote) addRepository(cloneURL string, archiveText string) {
	remote.archives[cloneURL] = txtar.Parse([]byte(archiveText))
}

func (remote *fakeRemote) remoteBranches(cloneURL string) []string {
	archive := remote.archives[cloneURL]
	for _, commentLine := range strings.Split(string(archive.Comment), "\n") {
		trimmedLine := strings.TrimSpace(commentLine)
		if strings.HasPrefix(trimmedLine, testBranchesCommentPrefix) {
			return strings.Fields(strings.TrimPrefix(trimmedLine, testBranchesCommentPrefix))
		}
	}
	return []string{testDefaultBranchConstant}
}

func (remote *fakeRemote) Clone(_ context.Context, cloneURL string, destination string) error {
	if cloneFailure, failing := remote.cloneFailures[cloneURL]; failing {
		return cloneFailure
	}
	archive, known := remote.archives[cloneURL]
	if !known {
		return fmt.Errorf("repository %s not found", cloneURL)
	}
	if _, statError := remote.fileSystem.Stat(destination); statError == nil {
		return errFakeDestinationExists
	}

	for _, archiveFile := range archive.Files {
		filePath := filepath.Join(destination, archiveFile.Name)
		if mkdirError := remote.fileSystem.MkdirAll(filepath.Dir(filePath), 0o755); mkdirError != nil {
			return mkdirError
		}
		if writeError := afero.WriteFile(remote.fileSystem, filePath, archiveFile.Data, 0o644); writeError != nil {
			return writeError
		}
	}
	if mkdirError := remote.fileSystem.MkdirAll(filepath.Join(destination, gitMetadataDirectoryConstant), 0o755); mkdirError != nil {
		return mkdirError
	}

	remote.clonedURLs = append(remote.clonedURLs, cloneURL)
	remote.clones[destination] = &fakeClone{
		cloneURL:      cloneURL,
		currentBranch: testDefaultBranchConstant,
		localBranches: map[string][]fakeCommit{testDefaultBranchConstant: nil},
	}
	return nil
}

func (remote *fakeRemote) Checkout(_ context.Context, repositoryPath string, branchName string) error {
	clone, known := remote.clones[repositoryPath]
	if !known {
		return fmt.Errorf("%s is not a repository", repositoryPath)
	}
	if _, local := clone.localBranches[branchName]; local {
		clone.currentBranch = branchName
		return nil
	}
	for _, remoteBranch := range remote.remoteBranches(clone.cloneURL) {
		if remoteBranch == branchName {
			clone.localBranches[branchName] = nil
			clone.currentBranch = branchName
			return nil
		}
	}
	return fmt.Errorf("pathspec %q did not match any file(s) known to git", branchName)
}

func (remote *fakeRemote) CreateBranch(_ context.Context, repositoryPath string, branchName string) error {
	clone := remote.clones[repositoryPath]
	if _, exists := clone.localBranches[branchName]; exists {
		return fmt.Errorf("a branch named %q already exists", branchName)
	}
	clone.localBranches[branchName] = append([]fakeCommit(nil), clone.localBranches[clone.currentBranch]...)
	clone.currentBranch = branchName
	return nil
}

func (remote *fakeRemote) CommitAll(_ context.Context, repositoryPath string, message string) error {
	clone := remote.clones[repositoryPath]
	snapshot := map[string]string{}
	walkError := afero.Walk(remote.fileSystem, repositoryPath, func(path string, fileInfo os.FileInfo, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if fileInfo.IsDir() {
			if fileInfo.Name() == gitMetadataDirectoryConstant {
				return filepath.SkipDir
			}
			return nil
		}
		content, readError := afero.ReadFile(remote.fileSystem, path)
		if readError != nil {
			return readError
		}
		relativePath, relativeError := filepath.Rel(repositoryPath, path)
		if relativeError != nil {
			return relativeError
		}
		snapshot[relativePath] = string(content)
		return nil
	})
	if walkError != nil {
		return walkError
	}
	clone.localBranches[clone.currentBranch] = append(clone.localBranches[clone.currentBranch], fakeCommit{Message: message, Files: snapshot})
	return nil
}

func (remote *fakeRemote) Push(_ context.Context, repositoryPath string, remoteName string, branchName string) error {
	if remote.pushFailure != nil {
		return remote.pushFailure
	}
	clone := remote.clones[repositoryPath]
	if remote.upstream[clone.cloneURL] == nil {
		remote.upstream[clone.cloneURL] = map[string][]fakeCommit{}
	}
	remote.upstream[clone.cloneURL][branchName] = append([]fakeCommit(nil), clone.localBranches[branchName]...)
	remote.pushes = append(remote.pushes, fakePush{RepositoryPath: repositoryPath, RemoteName: remoteName, BranchName: branchName})
	return nil
}

func (remote *fakeRemote) localBranchNames(repositoryPath string) []string {
	clone := remote.clones[repositoryPath]
	branchNames := make([]string, 0, len(clone.localBranches))
	for branchName := range clone.localBranches {
		branchNames = append(branchNames, branchName)
	}
	sort.Strings(branchNames)
	return branchNames
}

func readWorkspaceFile(testInstance *testing.T, fileSystem afero.Fs, relativePath string) string {
	testInstance.Helper()
	content, readError := afero.ReadFile(fileSystem, filepath.Join(testWorkspaceDirectoryConstant, relativePath))
	require.NoError(testInstance, readError)
	return string(content)
}
