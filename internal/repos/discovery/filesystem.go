package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/pombump/internal/repos/filesystem"
)

const (
	gitMetadataDirectoryNameConstant = ".git"
	missingFileNameMessageConstant   = "descriptor file name must be provided"
	walkRootErrorTemplateConstant    = "unable to scan %s: %w"
)

// ErrDescriptorFileNameMissing indicates discovery was requested without a file name to match.
var ErrDescriptorFileNameMissing = errors.New(missingFileNameMessageConstant)

// FilesystemDescriptorDiscoverer locates build descriptors below repository roots.
type FilesystemDescriptorDiscoverer struct {
	fileSystem afero.Fs
}

// NewFilesystemDescriptorDiscoverer constructs a discoverer backed by afero.Walk; a nil filesystem selects the operating system.
func NewFilesystemDescriptorDiscoverer(fileSystem afero.Fs) *FilesystemDescriptorDiscoverer {
	return &FilesystemDescriptorDiscoverer{fileSystem: filesystem.Resolve(fileSystem)}
}

// DiscoverDescriptors walks the provided roots in lexical order and returns every file whose
// base name equals descriptorFileName. Git metadata directories are never entered. Unreadable
// subdirectories are skipped; an unreadable root is an error.
func (discoverer *FilesystemDescriptorDiscoverer) DiscoverDescriptors(roots []string, descriptorFileName string) ([]string, error) {
	trimmedFileName := strings.TrimSpace(descriptorFileName)
	if len(trimmedFileName) == 0 {
		return nil, ErrDescriptorFileNameMissing
	}

	seen := make(map[string]struct{})
	var descriptors []string

	for _, root := range roots {
		cleanedRoot := filepath.Clean(root)
		walkError := afero.Walk(discoverer.fileSystem, cleanedRoot, func(path string, fileInfo os.FileInfo, walkError error) error {
			if walkError != nil {
				if path == cleanedRoot {
					return walkError
				}
				if fileInfo != nil && fileInfo.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if fileInfo.IsDir() {
				if fileInfo.Name() == gitMetadataDirectoryNameConstant {
					return filepath.SkipDir
				}
				return nil
			}

			if fileInfo.Name() != trimmedFileName {
				return nil
			}
			if _, alreadySeen := seen[path]; alreadySeen {
				return nil
			}

			seen[path] = struct{}{}
			descriptors = append(descriptors, path)
			return nil
		})
		if walkError != nil {
			return nil, fmt.Errorf(walkRootErrorTemplateConstant, cleanedRoot, walkError)
		}
	}

	return descriptors, nil
}
