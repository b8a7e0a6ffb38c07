package placeholders

import (
	"strings"
)

const (
	applicationConfigurationKeyConstant  = "application"
	environmentsConfigurationKeyConstant = "environments"
	configurationKeySeparatorConstant    = "."
)

// CommandConfiguration captures persisted settings for the placeholders command.
type CommandConfiguration struct {
	Application  string   `mapstructure:"application"`
	Environments []string `mapstructure:"environments"`
}

// DefaultCommandConfiguration returns empty placeholder settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Environments: []string{}}
}

// DefaultConfigurationValues exposes the defaults as configuration keys below prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefixedKey(prefix, applicationConfigurationKeyConstant):  defaults.Application,
		prefixedKey(prefix, environmentsConfigurationKeyConstant): defaults.Environments,
	}
}

// Sanitize trims paths and drops blank environment entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := CommandConfiguration{
		Application:  strings.TrimSpace(configuration.Application),
		Environments: make([]string, 0, len(configuration.Environments)),
	}
	for _, environmentPath := range configuration.Environments {
		trimmedPath := strings.TrimSpace(environmentPath)
		if len(trimmedPath) == 0 {
			continue
		}
		sanitized.Environments = append(sanitized.Environments, trimmedPath)
	}
	return sanitized
}

func prefixedKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
