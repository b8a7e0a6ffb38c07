package dependencies

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/pombump/internal/execshell"
	"github.com/temirov/pombump/internal/repos/discovery"
	"github.com/temirov/pombump/internal/repos/filesystem"
	"github.com/temirov/pombump/internal/repos/shared"
	"github.com/temirov/pombump/internal/ui"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing afero.Fs) afero.Fs {
	return filesystem.Resolve(existing)
}

// ResolveDescriptorDiscoverer returns a filesystem-backed descriptor discoverer.
func ResolveDescriptorDiscoverer(fileSystem afero.Fs) *discovery.FilesystemDescriptorDiscoverer {
	return discovery.NewFilesystemDescriptorDiscoverer(fileSystem)
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// When consoleLogger is set, git lifecycle events are additionally rendered as console lines.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, consoleLogger *zap.Logger) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var eventObservers []execshell.CommandEventObserver
	if consoleLogger != nil {
		eventObservers = append(eventObservers, ui.NewConsoleCommandEventLogger(consoleLogger))
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), eventObservers...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}
