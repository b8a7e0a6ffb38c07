package versioning_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/mod/semver"

	"github.com/temirov/pombump/internal/versioning"
)

func TestParse(testInstance *testing.T) {
	testCases := []struct {
		name            string
		input           string
		expectedVersion versioning.SemanticVersion
		expectError     bool
	}{
		{name: "three_components", input: "1.2.3", expectedVersion: versioning.SemanticVersion{Major: 1, Minor: 2, Patch: 3}},
		{name: "two_components_padded", input: "1.2", expectedVersion: versioning.SemanticVersion{Major: 1, Minor: 2, Patch: 0}},
		{name: "surrounding_whitespace", input: "\n\t 4.5.6 \n", expectedVersion: versioning.SemanticVersion{Major: 4, Minor: 5, Patch: 6}},
		{name: "zero_version", input: "0.0.0", expectedVersion: versioning.SemanticVersion{}},
		{name: "non_numeric_component", input: "1.x", expectError: true},
		{name: "single_component", input: "1", expectError: true},
		{name: "four_components", input: "1.2.3.4", expectError: true},
		{name: "snapshot_qualifier", input: "1.2.3-SNAPSHOT", expectError: true},
		{name: "negative_component", input: "1.-2.3", expectError: true},
		{name: "empty_component", input: "1..3", expectError: true},
		{name: "empty_text", input: "", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedVersion, parseError := versioning.Parse(testCase.input)
			if testCase.expectError {
				require.ErrorIs(testInstance, parseError, versioning.ErrInvalidVersionFormat)
				var formatError versioning.InvalidVersionFormatError
				require.ErrorAs(testInstance, parseError, &formatError)
				require.Equal(testInstance, testCase.input, formatError.Input)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedVersion, parsedVersion)
		})
	}
}

func TestIncrement(testInstance *testing.T) {
	testCases := []struct {
		name            string
		input           string
		expectedVersion string
	}{
		{name: "full_version", input: "1.2.3", expectedVersion: "1.2.4"},
		{name: "short_version", input: "1.2", expectedVersion: "1.2.1"},
		{name: "patch_rollover_digits", input: "2.4.9", expectedVersion: "2.4.10"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedVersion, parseError := versioning.Parse(testCase.input)
			require.NoError(testInstance, parseError)
			nextVersion, incrementError := versioning.Increment(parsedVersion)
			require.NoError(testInstance, incrementError)
			require.Equal(testInstance, testCase.expectedVersion, nextVersion.String())
		})
	}
}

func TestIncrementIsStrictlyMonotonic(testInstance *testing.T) {
	currentVersion, parseError := versioning.Parse("3.1.7")
	require.NoError(testInstance, parseError)

	for iteration := 0; iteration < 5; iteration++ {
		nextVersion, incrementError := versioning.Increment(currentVersion)
		require.NoError(testInstance, incrementError)
		require.Equal(testInstance, currentVersion.Major, nextVersion.Major)
		require.Equal(testInstance, currentVersion.Minor, nextVersion.Minor)
		require.Greater(testInstance, nextVersion.Patch, currentVersion.Patch)
		require.Equal(testInstance, 1, versioning.Compare(nextVersion, currentVersion))
		require.Equal(testInstance, 1, semver.Compare(nextVersion.Canonical(), currentVersion.Canonical()))
		currentVersion = nextVersion
	}
}

func TestIncrementRejectsExhaustedPatch(testInstance *testing.T) {
	exhaustedVersion, parseError := versioning.Parse("1.2.18446744073709551615")
	require.NoError(testInstance, parseError)

	nextVersion, incrementError := versioning.Increment(exhaustedVersion)
	require.ErrorIs(testInstance, incrementError, versioning.ErrPatchExhausted)
	require.ErrorContains(testInstance, incrementError, "1.2.18446744073709551615")
	require.Equal(testInstance, versioning.SemanticVersion{}, nextVersion)

	largestIncrementable := versioning.SemanticVersion{Major: 1, Minor: 2, Patch: 18446744073709551614}
	lastVersion, lastIncrementError := versioning.Increment(largestIncrementable)
	require.NoError(testInstance, lastIncrementError)
	require.Equal(testInstance, "1.2.18446744073709551615", lastVersion.String())
	require.Equal(testInstance, 1, versioning.Compare(lastVersion, largestIncrementable))
}

func TestCanonical(testInstance *testing.T) {
	version := versioning.SemanticVersion{Major: 10, Minor: 0, Patch: 2}
	require.Equal(testInstance, "v10.0.2", version.Canonical())
	require.True(testInstance, semver.IsValid(version.Canonical()))
}
