package envdiff

import (
	"strings"
)

const (
	baseConfigurationKeyConstant      = "base"
	filesConfigurationKeyConstant     = "files"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures persisted settings for the env-diff command.
type CommandConfiguration struct {
	Base  string   `mapstructure:"base"`
	Files []string `mapstructure:"files"`
}

// DefaultCommandConfiguration returns empty env-diff settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Files: []string{}}
}

// DefaultConfigurationValues exposes the defaults as configuration keys below prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefixedKey(prefix, baseConfigurationKeyConstant):  defaults.Base,
		prefixedKey(prefix, filesConfigurationKeyConstant): defaults.Files,
	}
}

// Sanitize trims paths and drops blank file entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := CommandConfiguration{
		Base:  strings.TrimSpace(configuration.Base),
		Files: make([]string, 0, len(configuration.Files)),
	}
	for _, filePath := range configuration.Files {
		trimmedPath := strings.TrimSpace(filePath)
		if len(trimmedPath) == 0 {
			continue
		}
		sanitized.Files = append(sanitized.Files, trimmedPath)
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
