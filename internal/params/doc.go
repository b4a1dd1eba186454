// Package params validates the user-supplied knobs of a transcoding job.
//
// Each check fails with its own sentinel (ErrMalformedResolution,
// ErrMalformedBitrate, ErrEmptyInputPath, ErrUnsupportedCodec) which also
// matches services.ErrValidation. Validated values keep their raw text so the
// command builder can hand ffmpeg exactly what the user typed.
package params
