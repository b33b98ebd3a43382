// Package logging assembles structured slog loggers and formatting helpers used
// across clipwright.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so command and render code can
// tag log lines with session IDs, render job IDs, and correlation IDs. An
// in-memory EventHub mirrors recent records for the HTTP API, and a no-op
// logger serves tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the system.
package logging
