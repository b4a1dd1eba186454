package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"vidladder/internal/params"
	"vidladder/internal/services"
	"vidladder/internal/transcode"
)

const defaultBinary = "ffprobe"

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
	raw     []byte
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Profile      string `json:"profile"`
	PixFmt       string `json:"pix_fmt"`
	AvgFrameRate string `json:"avg_frame_rate"`
	BitRate      string `json:"bit_rate"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SampleRate   string `json:"sample_rate"`
	Channels     int    `json:"channels"`
}

// Format captures container-level metadata.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Prober runs ffprobe through a transcode.Runner.
type Prober struct {
	Binary string
	Runner transcode.Runner
}

// New returns a Prober for binary backed by os/exec.
func New(binary string) *Prober {
	return &Prober{Binary: binary, Runner: transcode.ExecRunner{}}
}

// Inspect probes path and decodes the JSON response.
func (p *Prober) Inspect(ctx context.Context, path string) (Result, error) {
	binary := strings.TrimSpace(p.Binary)
	if binary == "" {
		binary = defaultBinary
	}
	if err := params.ValidateInputPath(path); err != nil {
		return Result{}, err
	}
	runner := p.Runner
	if runner == nil {
		runner = transcode.ExecRunner{}
	}

	argv := []string{binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path}
	out, err := runner.Run(ctx, argv)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "probe", "launch", binary, err)
	}
	if out.ExitCode != 0 {
		return Result{}, services.Wrap(
			services.ErrExternalTool,
			"probe",
			"inspect",
			fmt.Sprintf("%s exited with status %d: %s", binary, out.ExitCode, strings.TrimSpace(out.Stderr)),
			nil,
		)
	}

	var result Result
	if err := json.Unmarshal([]byte(out.Stdout), &result); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "probe", "parse", path, err)
	}
	result.raw = []byte(out.Stdout)
	return result, nil
}

// RawJSON returns the raw ffprobe JSON payload.
func (r Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}

// VideoStream returns the first video stream.
func (r Result) VideoStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			count++
		}
	}
	return count
}

// Resolution returns the first video stream's frame size in "w:h" form, or
// "" when there is no sized video stream.
func (r Result) Resolution() string {
	v, ok := r.VideoStream()
	if !ok || v.Width <= 0 || v.Height <= 0 {
		return ""
	}
	return strconv.Itoa(v.Width) + ":" + strconv.Itoa(v.Height)
}

// CheckResolution fails unless the first video stream matches want exactly.
func (r Result) CheckResolution(want params.Resolution) error {
	v, ok := r.VideoStream()
	if !ok {
		return services.Wrap(services.ErrValidation, "probe", "verify", "no video stream", nil)
	}
	if v.Width != want.Width || v.Height != want.Height {
		return services.Wrap(
			services.ErrValidation,
			"probe",
			"verify",
			fmt.Sprintf("frame size %dx%d, expected %s", v.Width, v.Height, want.FileToken()),
			nil,
		)
	}
	return nil
}

// DurationSeconds returns the container duration in seconds, 0 when absent
// and NaN when unparsable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// SizeBytes returns the reported container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		return 0
	}
	return int64(size)
}

// BitRateKbps returns the container bitrate in kilobits per second, or 0 when unavailable.
func (r Result) BitRateKbps() int64 {
	rate := parseFloat(r.Format.BitRate)
	if math.IsNaN(rate) || rate < 0 {
		return 0
	}
	return int64(rate / 1000)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
