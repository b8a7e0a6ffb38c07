package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	stagingFilePatternTemplateConstant = ".%s.staging-*"
	defaultFilePermissionsConstant     = fs.FileMode(0o644)
	stagingCreateErrorTemplateConstant = "unable to stage %s: %w"
	stagingWriteErrorTemplateConstant  = "unable to write staged content for %s: %w"
	stagingChmodErrorTemplateConstant  = "unable to apply permissions to staged %s: %w"
	renameErrorTemplateConstant        = "unable to replace %s: %w"
)

// Resolve returns the provided filesystem or the operating system filesystem.
func Resolve(existing afero.Fs) afero.Fs {
	if existing != nil {
		return existing
	}
	return afero.NewOsFs()
}

// WriteFileAtomically stages data next to targetPath and renames it into place,
// keeping the permissions of any file it replaces.
func WriteFileAtomically(fileSystem afero.Fs, targetPath string, data []byte) error {
	permissions := defaultFilePermissionsConstant
	if existingInfo, statError := fileSystem.Stat(targetPath); statError == nil {
		permissions = existingInfo.Mode().Perm()
	}

	stagingFile, createError := afero.TempFile(fileSystem, filepath.Dir(targetPath), fmt.Sprintf(stagingFilePatternTemplateConstant, filepath.Base(targetPath)))
	if createError != nil {
		return fmt.Errorf(stagingCreateErrorTemplateConstant, targetPath, createError)
	}
	stagingPath := stagingFile.Name()

	_, writeError := stagingFile.Write(data)
	closeError := stagingFile.Close()
	if combinedError := errors.Join(writeError, closeError); combinedError != nil {
		_ = fileSystem.Remove(stagingPath)
		return fmt.Errorf(stagingWriteErrorTemplateConstant, targetPath, combinedError)
	}

	if chmodError := fileSystem.Chmod(stagingPath, permissions); chmodError != nil {
		_ = fileSystem.Remove(stagingPath)
		return fmt.Errorf(stagingChmodErrorTemplateConstant, targetPath, chmodError)
	}

	if renameError := fileSystem.Rename(stagingPath, targetPath); renameError != nil {
		_ = fileSystem.Remove(stagingPath)
		return fmt.Errorf(renameErrorTemplateConstant, targetPath, renameError)
	}
	return nil
}
