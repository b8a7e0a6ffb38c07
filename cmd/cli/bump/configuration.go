package bump

import (
	"strings"

	"github.com/temirov/pombump/internal/bump"
	"github.com/temirov/pombump/internal/repos/shared"
	pathutils "github.com/temirov/pombump/internal/utils/path"
)

const (
	repositoriesConfigurationKeyConstant       = "repositories"
	workspaceConfigurationKeyConstant          = "workspace"
	descriptorFileNameConfigurationKeyConstant = "descriptor_file_name"
	remoteConfigurationKeyConstant             = "remote"
	dryRunConfigurationKeyConstant             = "dry_run"
	configurationKeySeparatorConstant          = "."
)

var workspaceHomeExpander = pathutils.NewHomeExpander()

// CommandConfiguration captures persisted settings for the bump command.
type CommandConfiguration struct {
	Repositories       []string `mapstructure:"repositories"`
	Workspace          string   `mapstructure:"workspace"`
	DescriptorFileName string   `mapstructure:"descriptor_file_name"`
	Remote             string   `mapstructure:"remote"`
	DryRun             bool     `mapstructure:"dry_run"`
}

// DefaultCommandConfiguration returns the built-in bump settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Repositories:       []string{},
		Workspace:          bump.DefaultWorkspaceDirectoryConstant,
		DescriptorFileName: bump.DefaultDescriptorFileNameConstant,
		Remote:             shared.OriginRemoteNameConstant,
		DryRun:             false,
	}
}

// DefaultConfigurationValues exposes the defaults as configuration keys below prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefixedKey(prefix, repositoriesConfigurationKeyConstant):       defaults.Repositories,
		prefixedKey(prefix, workspaceConfigurationKeyConstant):          defaults.Workspace,
		prefixedKey(prefix, descriptorFileNameConfigurationKeyConstant): defaults.DescriptorFileName,
		prefixedKey(prefix, remoteConfigurationKeyConstant):             defaults.Remote,
		prefixedKey(prefix, dryRunConfigurationKeyConstant):             defaults.DryRun,
	}
}

// Sanitize trims values, drops blank repositories, expands a leading ~ in the workspace,
// and restores defaults for empty settings.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Repositories = sanitizeReferences(configuration.Repositories)

	workflowOptions := bump.WorkflowOptions{
		WorkspaceDirectory: workspaceHomeExpander.Expand(strings.TrimSpace(configuration.Workspace)),
		DescriptorFileName: configuration.DescriptorFileName,
		RemoteName:         configuration.Remote,
	}.Sanitize()
	sanitized.Workspace = workflowOptions.WorkspaceDirectory
	sanitized.DescriptorFileName = workflowOptions.DescriptorFileName
	sanitized.Remote = workflowOptions.RemoteName
	return sanitized
}

func sanitizeReferences(raw []string) []string {
	trimmed := make([]string, 0, len(raw))
	for _, candidate := range raw {
		value := strings.TrimSpace(candidate)
		if len(value) == 0 {
			continue
		}
		trimmed = append(trimmed, value)
	}
	return trimmed
}

func prefixedKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
