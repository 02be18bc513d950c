// Package logging assembles the structured slog loggers used by mopi.
//
// It owns the console and JSON handlers, maps the configured level and format
// onto them, and exposes context-aware helpers so pipeline code can tag log
// lines with the run identifier, stage, movie and worker number. The package
// also provides a no-op logger for tests and a sampler that keeps progress
// logging readable when no progress bar is shown.
package logging
