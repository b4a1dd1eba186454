// Package transcode turns a conversion request into an ffmpeg invocation and
// classifies its outcome.
//
// The work is split in two on purpose: Builder.Build is pure (it validates the
// request and assembles the argument vector without touching the filesystem),
// while Executor.Execute is the only step that spawns a process. Convert chains
// the two for single conversions.
//
// Outcomes:
//   - exit status 0: a Success result carrying the output path from the command
//   - non-zero exit: a Failure result whose message is ffmpeg's stderr verbatim
//   - the process could not be started: an error wrapping ErrProcessLaunch
package transcode
