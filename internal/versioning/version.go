package versioning

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	versionComponentSeparatorConstant          = "."
	versionTemplateConstant                    = "%d.%d.%d"
	canonicalVersionPrefixConstant             = "v"
	invalidVersionFormatMessageConstant        = "invalid version format"
	invalidVersionFormatErrorTemplateConstant  = "%s: %q"
	paddedPatchComponentConstant               = "0"
	shortVersionComponentCountConstant         = 2
	fullVersionComponentCountConstant          = 3
	versionComponentNumericBaseConstant        = 10
	versionComponentBitSizeConstant            = 64
	majorComponentIndexConstant                = 0
	minorComponentIndexConstant                = 1
	patchComponentIndexConstant                = 2
	nonCanonicalComparisonFailureValueConstant = 0
	patchExhaustedMessageConstant              = "patch component cannot be incremented"
	patchExhaustedErrorTemplateConstant        = "%w: %s"
)

// ErrInvalidVersionFormat indicates text that cannot be read as a numeric version.
var ErrInvalidVersionFormat = errors.New(invalidVersionFormatMessageConstant)

// ErrPatchExhausted indicates a patch component already at its largest value.
var ErrPatchExhausted = errors.New(patchExhaustedMessageConstant)

// InvalidVersionFormatError carries the rejected input.
type InvalidVersionFormatError struct {
	Input string
}

// Error describes the rejected input.
func (formatError InvalidVersionFormatError) Error() string {
	return fmt.Sprintf(invalidVersionFormatErrorTemplateConstant, invalidVersionFormatMessageConstant, formatError.Input)
}

// Is reports whether the target is ErrInvalidVersionFormat.
func (formatError InvalidVersionFormatError) Is(target error) bool {
	return target == ErrInvalidVersionFormat
}

// SemanticVersion is a major.minor.patch triple of non-negative integers.
type SemanticVersion struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// Parse reads "major.minor.patch" or "major.minor" (patch padded with zero).
func Parse(text string) (SemanticVersion, error) {
	trimmedText := strings.TrimSpace(text)
	components := strings.Split(trimmedText, versionComponentSeparatorConstant)
	if len(components) == shortVersionComponentCountConstant {
		components = append(components, paddedPatchComponentConstant)
	}
	if len(components) != fullVersionComponentCountConstant {
		return SemanticVersion{}, InvalidVersionFormatError{Input: text}
	}

	numericComponents := make([]uint64, fullVersionComponentCountConstant)
	for componentIndex, component := range components {
		numericComponent, parseError := parseComponent(component)
		if parseError != nil {
			return SemanticVersion{}, InvalidVersionFormatError{Input: text}
		}
		numericComponents[componentIndex] = numericComponent
	}

	return SemanticVersion{
		Major: numericComponents[majorComponentIndexConstant],
		Minor: numericComponents[minorComponentIndexConstant],
		Patch: numericComponents[patchComponentIndexConstant],
	}, nil
}

func parseComponent(component string) (uint64, error) {
	if len(component) == 0 {
		return 0, ErrInvalidVersionFormat
	}
	return strconv.ParseUint(component, versionComponentNumericBaseConstant, versionComponentBitSizeConstant)
}

// Increment returns the version with its patch component raised by one.
func Increment(version SemanticVersion) (SemanticVersion, error) {
	if version.Patch == math.MaxUint64 {
		return SemanticVersion{}, fmt.Errorf(patchExhaustedErrorTemplateConstant, ErrPatchExhausted, version)
	}
	return SemanticVersion{Major: version.Major, Minor: version.Minor, Patch: version.Patch + 1}, nil
}

// String renders major.minor.patch.
func (version SemanticVersion) String() string {
	return fmt.Sprintf(versionTemplateConstant, version.Major, version.Minor, version.Patch)
}

// Canonical renders the version in the "v"-prefixed semantic version form.
func (version SemanticVersion) Canonical() string {
	return semver.Canonical(canonicalVersionPrefixConstant + version.String())
}

// Compare orders two versions using semantic version precedence.
func Compare(left SemanticVersion, right SemanticVersion) int {
	leftCanonical := left.Canonical()
	rightCanonical := right.Canonical()
	if !semver.IsValid(leftCanonical) || !semver.IsValid(rightCanonical) {
		return nonCanonicalComparisonFailureValueConstant
	}
	return semver.Compare(leftCanonical, rightCanonical)
}
