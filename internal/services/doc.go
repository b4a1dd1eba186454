// Package services defines shared utilities consumed by the transcoding
// packages and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp stage names, codec ids, ladder rung indexes,
//     and correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that let callers classify
//     failures (validation vs external tool vs timeout) with errors.Is.
//
// Use these helpers when wiring new transcoding logic so error handling and
// observability stay uniform across the tool.
package services
