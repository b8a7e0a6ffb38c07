package cli_test

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/temirov/pombump/cmd/cli"
	bumpcmd "github.com/temirov/pombump/cmd/cli/bump"
	envdiffcmd "github.com/temirov/pombump/cmd/cli/envdiff"
	placeholderscmd "github.com/temirov/pombump/cmd/cli/placeholders"
)

func TestEmbeddedDefaultConfigurationMatchesCommandDefaults(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)

	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	var configuration cli.ApplicationConfiguration
	require.NoError(testInstance, viperInstance.Unmarshal(&configuration))

	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)

	testCases := []struct {
		name     string
		expected any
		actual   any
	}{
		{
			name:     "bump",
			expected: bumpcmd.DefaultCommandConfiguration(),
			actual:   configuration.Tools.Bump,
		},
		{
			name:     "env_diff",
			expected: envdiffcmd.DefaultCommandConfiguration(),
			actual:   configuration.Tools.EnvDiff,
		},
		{
			name:     "placeholders",
			expected: placeholderscmd.DefaultCommandConfiguration(),
			actual:   configuration.Tools.Placeholders,
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			require.Equal(subtest, testCase.expected, testCase.actual)
		})
	}
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEmpty(testInstance, firstCopy)
	firstCopy[0] = '#'

	secondCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, byte('#'), secondCopy[0])
}
