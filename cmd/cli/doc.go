// Package cli constructs the pombump command-line interface, wiring the Cobra
// command hierarchy, the Viper-backed configuration loader, and the zap
// loggers shared by every subcommand.
package cli
