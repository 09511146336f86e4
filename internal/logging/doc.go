// Package logging assembles structured slog loggers and formatting helpers used
// across scrambleorg.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes context-aware helpers so pipeline stages automatically tag log lines
// with run IDs, stage names, and the competition being processed. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
