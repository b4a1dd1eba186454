// Package codec holds the registry of codec profiles the transcoder can target.
//
// A Profile pairs a codec id with its container extension and the encoder
// arguments handed to ffmpeg verbatim. Adding a codec is a data change: build a
// registry with an extra profile (or declare one under [codecs] in the config
// file) and the validator and command builder pick it up through Lookup.
package codec
