// Package config loads, normalizes, and validates vidladder configuration data.
//
// It supplies repository defaults (the transcoder binary, the default encoding
// ladder, log settings), expands user paths including tilde shortcuts, reads
// TOML files, and honours environment fallbacks such as VIDLADDER_FFMPEG. Extra
// codec profiles declared under [codecs] are merged into the builtin registry
// through Registry.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
