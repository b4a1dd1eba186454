package transcode

import (
	"path/filepath"
	"strings"

	"vidladder/internal/codec"
	"vidladder/internal/params"
)

const defaultBinary = "ffmpeg"

// Request describes one conversion. Values are raw user input; Build validates them.
type Request struct {
	InputPath  string
	Codec      string
	Resolution string
	Bitrate    string
	Prefix     Prefix
}

// Command is a fully assembled transcoder invocation.
type Command struct {
	// Args holds the complete argument vector; Args[0] is the binary.
	Args       []string
	OutputPath string
	Codec      string
}

// Binary returns the executable the command runs.
func (c Command) Binary() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// String renders the command for logs and dry runs.
func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// Builder assembles validated ffmpeg commands.
type Builder struct {
	Registry *codec.Registry
	// Binary is the transcoder executable; empty selects "ffmpeg".
	Binary string
	// OutputDir is joined in front of derived output names when set.
	OutputDir string
}

// NewBuilder constructs a Builder. A nil registry selects the builtin profiles.
func NewBuilder(reg *codec.Registry, binary, outputDir string) *Builder {
	if reg == nil {
		reg = codec.DefaultRegistry()
	}
	return &Builder{Registry: reg, Binary: binary, OutputDir: outputDir}
}

// CodecRegistry returns the registry Build resolves codec ids against.
func (b *Builder) CodecRegistry() *codec.Registry {
	if b == nil || b.Registry == nil {
		return codec.DefaultRegistry()
	}
	return b.Registry
}

// Build validates req and returns the argument vector. It never touches the
// filesystem and never spawns a process.
func (b *Builder) Build(req Request) (Command, error) {
	v, err := params.Validate(b.CodecRegistry(), req.InputPath, req.Codec, req.Resolution, req.Bitrate)
	if err != nil {
		return Command{}, err
	}

	output := OutputName(req.Prefix, v.Profile.ID, v.Resolution, v.Bitrate, v.Profile.Extension)
	if dir := strings.TrimSpace(b.OutputDir); dir != "" {
		output = filepath.Join(dir, output)
	}

	binary := strings.TrimSpace(b.Binary)
	if binary == "" {
		binary = defaultBinary
	}

	args := make([]string, 0, 9+len(v.Profile.EncoderArgs))
	args = append(args,
		binary,
		"-i", v.InputPath,
		"-vf", "scale="+v.Resolution.String(),
		"-b:v", v.Bitrate.String(),
		"-y",
	)
	args = append(args, v.Profile.EncoderArgs...)
	args = append(args, output)

	return Command{Args: args, OutputPath: output, Codec: v.Profile.ID}, nil
}
