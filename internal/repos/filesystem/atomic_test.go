package filesystem_test

import (
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/temirov/pombump/internal/repos/filesystem"
)

const (
	testTargetDirectoryConstant = "/workspace/service"
	testTargetPathConstant      = testTargetDirectoryConstant + "/pom.xml"
)

func TestWriteFileAtomicallyReplacesContent(testInstance *testing.T) {
	testCases := []struct {
		name                string
		existingContent     []byte
		existingPermissions fs.FileMode
		expectedPermissions fs.FileMode
	}{
		{
			name:                "replaces_existing_file",
			existingContent:     []byte("old"),
			existingPermissions: 0o600,
			expectedPermissions: 0o600,
		},
		{
			name:                "creates_missing_file",
			expectedPermissions: 0o644,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fileSystem := afero.NewMemMapFs()
			require.NoError(testInstance, fileSystem.MkdirAll(testTargetDirectoryConstant, 0o755))
			if testCase.existingContent != nil {
				require.NoError(testInstance, afero.WriteFile(fileSystem, testTargetPathConstant, testCase.existingContent, testCase.existingPermissions))
			}

			writeError := filesystem.WriteFileAtomically(fileSystem, testTargetPathConstant, []byte("new"))
			require.NoError(testInstance, writeError)

			content, readError := afero.ReadFile(fileSystem, testTargetPathConstant)
			require.NoError(testInstance, readError)
			require.Equal(testInstance, "new", string(content))

			fileInfo, statError := fileSystem.Stat(testTargetPathConstant)
			require.NoError(testInstance, statError)
			require.Equal(testInstance, testCase.expectedPermissions, fileInfo.Mode().Perm())

			directoryEntries, listError := afero.ReadDir(fileSystem, testTargetDirectoryConstant)
			require.NoError(testInstance, listError)
			require.Len(testInstance, directoryEntries, 1)
		})
	}
}

func TestWriteFileAtomicallyFailsOnReadOnlyFilesystem(testInstance *testing.T) {
	baseFileSystem := afero.NewMemMapFs()
	require.NoError(testInstance, afero.WriteFile(baseFileSystem, testTargetPathConstant, []byte("old"), 0o644))

	writeError := filesystem.WriteFileAtomically(afero.NewReadOnlyFs(baseFileSystem), testTargetPathConstant, []byte("new"))
	require.Error(testInstance, writeError)

	content, readError := afero.ReadFile(baseFileSystem, testTargetPathConstant)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "old", string(content))
}

func TestResolveDefaultsToOperatingSystem(testInstance *testing.T) {
	memoryFileSystem := afero.NewMemMapFs()
	require.Same(testInstance, memoryFileSystem, filesystem.Resolve(memoryFileSystem))
	require.IsType(testInstance, &afero.OsFs{}, filesystem.Resolve(nil))
}
