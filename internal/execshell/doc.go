// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with logging and lifecycle
// notifications, OSCommandRunner runs processes through os/exec, and the
// typed CommandFailedError and CommandExecutionError values let callers tell
// a non-zero exit apart from a process that never ran.
package execshell
