// Package logging assembles structured slog loggers used across vidladder.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so transcoding code can tag log
// lines with the stage, codec, ladder rung, and run correlation id. A no-op
// logger is provided for tests and wiring code that cannot fail.
package logging
