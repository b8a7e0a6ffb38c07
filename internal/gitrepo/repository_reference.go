package gitrepo

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultBranchNameConstant is used when a reference names no branch.
	DefaultBranchNameConstant = "main"

	schemeSeparatorConstant                   = "://"
	scpHostSeparatorConstant                  = ":"
	pathSeparatorConstant                     = "/"
	gitSuffixConstant                         = ".git"
	primaryBranchMarkerConstant               = "@"
	secondaryBranchMarkerConstant             = "#"
	repositoryReferenceErrorTemplateConstant  = "%s: %q"
	invalidRepositoryReferenceMessageConstant = "invalid repository reference"
	emptyReferenceReasonConstant              = "repository reference is empty"
	missingRepositoryNameReasonConstant       = "repository reference has no repository name"
	missingCloneURLReasonConstant             = "repository reference has no clone url"
)

// ErrInvalidRepositoryReference indicates a reference that cannot be cloned.
var ErrInvalidRepositoryReference = errors.New(invalidRepositoryReferenceMessageConstant)

// RepositoryReferenceError describes why a reference was rejected.
type RepositoryReferenceError struct {
	Input  string
	Reason string
}

// Error describes the rejected reference.
func (referenceError RepositoryReferenceError) Error() string {
	return fmt.Sprintf(repositoryReferenceErrorTemplateConstant, referenceError.Reason, referenceError.Input)
}

// Is reports whether the target is ErrInvalidRepositoryReference.
func (referenceError RepositoryReferenceError) Is(target error) bool {
	return target == ErrInvalidRepositoryReference
}

// RepositoryReference is a resolved clone location. CloneURL never carries a branch marker.
type RepositoryReference struct {
	RawURL   string
	CloneURL string
	Branch   string
	Name     string
}

// ResolveRepositoryReference splits a raw reference into clone URL, branch, and short name.
// Branch markers are only recognised in the path part of the URL so that user information
// such as git@host: or https://user@host/ is left intact. '@' takes precedence over '#' when
// choosing the branch, and the clone URL ends before the first marker of either kind.
func ResolveRepositoryReference(raw string) (RepositoryReference, error) {
	trimmedReference := strings.TrimSpace(raw)
	if len(trimmedReference) == 0 {
		return RepositoryReference{}, RepositoryReferenceError{Input: raw, Reason: emptyReferenceReasonConstant}
	}

	pathStart := locatePathStart(trimmedReference)
	locationPrefix := trimmedReference[:pathStart]
	repositoryPath := trimmedReference[pathStart:]

	branchName := DefaultBranchNameConstant
	for _, branchMarker := range []string{primaryBranchMarkerConstant, secondaryBranchMarkerConstant} {
		markerIndex := strings.Index(repositoryPath, branchMarker)
		if markerIndex == -1 {
			continue
		}
		if requestedBranch := strings.TrimSpace(repositoryPath[markerIndex+len(branchMarker):]); len(requestedBranch) > 0 {
			branchName = requestedBranch
		}
		repositoryPath = repositoryPath[:markerIndex]
		break
	}
	if markerIndex := strings.Index(repositoryPath, secondaryBranchMarkerConstant); markerIndex != -1 {
		repositoryPath = repositoryPath[:markerIndex]
	}

	cloneURL := strings.TrimSpace(locationPrefix + repositoryPath)
	if len(cloneURL) == 0 {
		return RepositoryReference{}, RepositoryReferenceError{Input: raw, Reason: missingCloneURLReasonConstant}
	}

	repositoryName := deriveRepositoryName(repositoryPath)
	if len(repositoryName) == 0 {
		return RepositoryReference{}, RepositoryReferenceError{Input: raw, Reason: missingRepositoryNameReasonConstant}
	}

	return RepositoryReference{
		RawURL:   raw,
		CloneURL: cloneURL,
		Branch:   branchName,
		Name:     repositoryName,
	}, nil
}

// locatePathStart returns the index where the repository path begins:
// after scheme://authority/ for URLs, after host: for scp-style remotes, or zero for local paths.
func locatePathStart(reference string) int {
	if schemeIndex := strings.Index(reference, schemeSeparatorConstant); schemeIndex != -1 {
		authorityStart := schemeIndex + len(schemeSeparatorConstant)
		authorityLength := strings.Index(reference[authorityStart:], pathSeparatorConstant)
		if authorityLength == -1 {
			return len(reference)
		}
		return authorityStart + authorityLength + len(pathSeparatorConstant)
	}

	hostSeparatorIndex := strings.Index(reference, scpHostSeparatorConstant)
	firstSlashIndex := strings.Index(reference, pathSeparatorConstant)
	if hostSeparatorIndex > 0 && (firstSlashIndex == -1 || hostSeparatorIndex < firstSlashIndex) {
		return hostSeparatorIndex + len(scpHostSeparatorConstant)
	}
	return 0
}

func deriveRepositoryName(repositoryPath string) string {
	trimmedPath := strings.TrimRight(strings.TrimSpace(repositoryPath), pathSeparatorConstant)
	lastSegment := trimmedPath
	if separatorIndex := strings.LastIndex(trimmedPath, pathSeparatorConstant); separatorIndex != -1 {
		lastSegment = trimmedPath[separatorIndex+len(pathSeparatorConstant):]
	}
	return strings.TrimSuffix(lastSegment, gitSuffixConstant)
}
