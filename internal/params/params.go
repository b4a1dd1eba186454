package params

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"vidladder/internal/codec"
	"vidladder/internal/services"
)

var (
	ErrMalformedResolution = errors.New("malformed resolution")
	ErrMalformedBitrate    = errors.New("malformed bitrate")
	ErrEmptyInputPath      = errors.New("empty input path")
	ErrUnsupportedCodec    = errors.New("unsupported codec")
)

var (
	resolutionPattern = regexp.MustCompile(`^\d+:\d+$`)
	bitratePattern    = regexp.MustCompile(`^\d+k$`)
)

// Resolution is a validated width:height pair.
type Resolution struct {
	Width  int
	Height int
	raw    string
}

// String returns the resolution exactly as supplied (width:height), the form
// ffmpeg's scale filter expects.
func (r Resolution) String() string {
	return r.raw
}

// FileToken returns the resolution with its separator swapped for "x", the
// form used in output filenames.
func (r Resolution) FileToken() string {
	return strings.Replace(r.raw, ":", "x", 1)
}

// Bitrate is a validated kilobit-per-second value such as "1000k".
type Bitrate struct {
	Kbps uint64
	raw  string
}

// String returns the bitrate exactly as supplied.
func (b Bitrate) String() string {
	return b.raw
}

// ParseResolution validates s as "<width>:<height>" with both parts >= 1.
func ParseResolution(s string) (Resolution, error) {
	if !resolutionPattern.MatchString(s) {
		return Resolution{}, invalid(ErrMalformedResolution, "resolution", s, "expected <width>:<height>")
	}
	widthText, heightText, _ := strings.Cut(s, ":")
	width, err := strconv.Atoi(widthText)
	if err != nil {
		return Resolution{}, invalid(ErrMalformedResolution, "resolution", s, "width out of range")
	}
	height, err := strconv.Atoi(heightText)
	if err != nil {
		return Resolution{}, invalid(ErrMalformedResolution, "resolution", s, "height out of range")
	}
	if width < 1 || height < 1 {
		return Resolution{}, invalid(ErrMalformedResolution, "resolution", s, "width and height must be positive")
	}
	return Resolution{Width: width, Height: height, raw: s}, nil
}

// ParseBitrate validates s as one or more digits followed by a lowercase "k".
func ParseBitrate(s string) (Bitrate, error) {
	if !bitratePattern.MatchString(s) {
		return Bitrate{}, invalid(ErrMalformedBitrate, "bitrate", s, "expected <digits>k")
	}
	kbps, err := strconv.ParseUint(strings.TrimSuffix(s, "k"), 10, 64)
	if err != nil {
		return Bitrate{}, invalid(ErrMalformedBitrate, "bitrate", s, "value out of range")
	}
	return Bitrate{Kbps: kbps, raw: s}, nil
}

// ValidateInputPath rejects blank paths. Existence on disk is not checked.
func ValidateInputPath(p string) error {
	if strings.TrimSpace(p) == "" {
		return services.Wrap(services.ErrValidation, "params", "input path", "input path must not be blank", ErrEmptyInputPath)
	}
	return nil
}

// ValidateCodec ensures id is registered and returns its profile.
func ValidateCodec(reg *codec.Registry, id string) (codec.Profile, error) {
	profile, err := reg.Lookup(id)
	if err != nil {
		return codec.Profile{}, services.Wrap(
			services.ErrValidation,
			"params",
			"codec",
			fmt.Sprintf("codec %q is not supported (known: %s)", id, strings.Join(reg.IDs(), ", ")),
			ErrUnsupportedCodec,
		)
	}
	return profile, nil
}

// Validated carries the outcome of a full parameter check.
type Validated struct {
	InputPath  string
	Profile    codec.Profile
	Resolution Resolution
	Bitrate    Bitrate
}

// Validate runs every check in order (resolution, bitrate, input path, codec)
// and returns the first failure.
func Validate(reg *codec.Registry, inputPath, codecID, resolution, bitrate string) (Validated, error) {
	res, err := ParseResolution(resolution)
	if err != nil {
		return Validated{}, err
	}
	br, err := ParseBitrate(bitrate)
	if err != nil {
		return Validated{}, err
	}
	if err := ValidateInputPath(inputPath); err != nil {
		return Validated{}, err
	}
	profile, err := ValidateCodec(reg, codecID)
	if err != nil {
		return Validated{}, err
	}
	return Validated{InputPath: inputPath, Profile: profile, Resolution: res, Bitrate: br}, nil
}

func invalid(kind error, field, value, reason string) error {
	return services.Wrap(services.ErrValidation, "params", field, fmt.Sprintf("%q: %s", value, reason), kind)
}
