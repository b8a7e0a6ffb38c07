package envdiff_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/temirov/pombump/internal/envdiff"
)

func TestParseEnvironment(testInstance *testing.T) {
	testCases := []struct {
		name            string
		content         string
		expectedEntries []envdiff.Entry
	}{
		{
			name:    "assignments_trimmed",
			content: "  DATABASE_URL = postgres://db:5432/app  \nLOG_LEVEL=info\n",
			expectedEntries: []envdiff.Entry{
				{Key: "DATABASE_URL", Value: "postgres://db:5432/app"},
				{Key: "LOG_LEVEL", Value: "info"},
			},
		},
		{
			name:    "comments_blank_and_invalid_lines_ignored",
			content: "# service settings\n\n   \nnot an assignment\n  # indented comment\nPORT=8080\n",
			expectedEntries: []envdiff.Entry{
				{Key: "PORT", Value: "8080"},
			},
		},
		{
			name:    "first_separator_splits",
			content: "JAVA_OPTS=-Dfile.encoding=UTF-8 -Xmx=512m\nEMPTY=\n",
			expectedEntries: []envdiff.Entry{
				{Key: "JAVA_OPTS", Value: "-Dfile.encoding=UTF-8 -Xmx=512m"},
				{Key: "EMPTY", Value: ""},
			},
		},
		{
			name:    "duplicate_keeps_first_position_and_last_value",
			content: "A=1\nB=2\nA=3\n",
			expectedEntries: []envdiff.Entry{
				{Key: "A", Value: "3"},
				{Key: "B", Value: "2"},
			},
		},
		{
			name:            "empty_content",
			content:         "",
			expectedEntries: []envdiff.Entry{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			environment, parseError := envdiff.ParseEnvironment(strings.NewReader(testCase.content))
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedEntries, environment.Entries())
			require.Equal(testInstance, len(testCase.expectedEntries), environment.Len())
		})
	}
}

func TestLoaderReportsUnreadableFile(testInstance *testing.T) {
	loader := envdiff.NewLoader(afero.NewMemMapFs())
	_, loadError := loader.LoadEnvironmentFile("/config/missing.conf")
	require.ErrorIs(testInstance, loadError, envdiff.ErrEnvironmentFileUnreadable)
	require.ErrorContains(testInstance, loadError, "/config/missing.conf")
}

func TestCompare(testInstance *testing.T) {
	base := envdiff.NewOrderedEnvironment(
		envdiff.Entry{Key: "HOST", Value: "localhost"},
		envdiff.Entry{Key: "PORT", Value: "8080"},
		envdiff.Entry{Key: "TIMEOUT", Value: "30"},
		envdiff.Entry{Key: "REGION", Value: "us-east-1"},
	)
	comparison := envdiff.NewOrderedEnvironment(
		envdiff.Entry{Key: "TRACING", Value: "on"},
		envdiff.Entry{Key: "PORT", Value: "9090"},
		envdiff.Entry{Key: "HOST", Value: "localhost"},
		envdiff.Entry{Key: "CACHE", Value: "redis"},
	)

	expectedDifference := envdiff.Difference{
		Missing: []envdiff.Entry{
			{Key: "TIMEOUT", Value: "30"},
			{Key: "REGION", Value: "us-east-1"},
		},
		Changed: []envdiff.ChangedEntry{
			{Key: "PORT", BaseValue: "8080", ActualValue: "9090"},
		},
		Extra: []envdiff.Entry{
			{Key: "TRACING", Value: "on"},
			{Key: "CACHE", Value: "redis"},
		},
	}

	difference := envdiff.Compare(base, comparison)
	if diff := cmp.Diff(expectedDifference, difference); diff != "" {
		testInstance.Fatalf("unexpected difference (-want +got):\n%s", diff)
	}
	require.False(testInstance, difference.Identical())
	require.True(testInstance, envdiff.Compare(base, base).Identical())
}
