// Command vidladder converts a source video into one or more encodings by
// driving ffmpeg.
//
// convert produces a single encoding; ladder produces one encoding per
// resolution/bitrate rung and reports every rung even when some fail. The
// remaining commands are support tooling around those two: probing files,
// checking ffmpeg health, cleaning outputs and reading the log.
package main
