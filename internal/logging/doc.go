// Package logging assembles structured slog loggers and formatting helpers used
// across walrusup.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code tags log lines
// with the run identifier and the tier being uploaded. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
