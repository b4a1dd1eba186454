// Package ffprobe inspects media files with ffprobe and decodes its JSON
// report.
//
// The probe command uses it to describe inputs before a ladder is chosen,
// and convert/ladder use it to verify that encoded outputs carry the
// requested frame size.
package ffprobe
