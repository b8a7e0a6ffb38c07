// Package ui renders git lifecycle events as human-readable console log lines
// while structured telemetry keeps flowing through the executor's logger.
package ui
