package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/pombump/internal/utils"
)

func TestConfigurationFilePathRoundTrip(testInstance *testing.T) {
	_, missing := utils.ConfigurationFilePath(context.Background())
	require.False(testInstance, missing)

	executionContext := utils.WithConfigurationFilePath(context.Background(), "/etc/pombump/config.yaml")
	configurationFilePath, available := utils.ConfigurationFilePath(executionContext)
	require.True(testInstance, available)
	require.Equal(testInstance, "/etc/pombump/config.yaml", configurationFilePath)
}
