package bump

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// resolveConsoleLogger returns the console logger only when human-readable logging is active.
func resolveConsoleLogger(provider LoggerProvider, humanReadableLoggingProvider func() bool) *zap.Logger {
	if provider == nil || humanReadableLoggingProvider == nil || !humanReadableLoggingProvider() {
		return nil
	}
	return provider()
}

func displayCommandHelp(command *cobra.Command) error {
	if command == nil {
		return nil
	}
	return command.Help()
}
