package utils

import "context"

type configurationFilePathKey struct{}

// WithConfigurationFilePath records the configuration file that produced the running command's settings.
func WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathKey{}, configurationFilePath)
}

// ConfigurationFilePath returns the path stored by WithConfigurationFilePath. The path is
// empty when only embedded defaults and environment variables were used.
func ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, available := executionContext.Value(configurationFilePathKey{}).(string)
	return configurationFilePath, available
}
