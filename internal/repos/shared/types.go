package shared

import (
	"context"
	"time"

	"github.com/temirov/pombump/internal/execshell"
)

const (
	// OriginRemoteNameConstant identifies the default upstream remote receiving release branches.
	OriginRemoteNameConstant = "origin"
	// GitTerminalPromptEnvironmentNameConstant disables interactive credential prompts when set to "0".
	GitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	// GitTerminalPromptDisabledValueConstant is the value that turns interactive prompts off.
	GitTerminalPromptDisabledValueConstant = "0"
)

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// NonInteractiveGitEnvironment returns the environment applied to every git invocation.
func NonInteractiveGitEnvironment() map[string]string {
	return map[string]string{GitTerminalPromptEnvironmentNameConstant: GitTerminalPromptDisabledValueConstant}
}
