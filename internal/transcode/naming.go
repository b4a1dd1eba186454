package transcode

import "vidladder/internal/params"

// Prefix discriminates output names so single conversions and ladder rungs
// never overwrite each other.
type Prefix int

const (
	PrefixSingle Prefix = iota
	PrefixLadderRung
)

// String returns the filename prefix.
func (p Prefix) String() string {
	switch p {
	case PrefixLadderRung:
		return "output"
	default:
		return "output_single"
	}
}

// OutputName derives the deterministic filename
// <prefix>_<codec>_<width>x<height>_<bitrate><extension>.
func OutputName(prefix Prefix, codecID string, resolution params.Resolution, bitrate params.Bitrate, extension string) string {
	return prefix.String() + "_" + codecID + "_" + resolution.FileToken() + "_" + bitrate.String() + extension
}
