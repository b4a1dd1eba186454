package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"vidladder/internal/codec"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// OutputDir receives every encoded file. Empty means the working directory.
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Transcoder contains settings for the external ffmpeg/ffprobe binaries.
type Transcoder struct {
	Binary         string `toml:"binary"`
	ProbeBinary    string `toml:"probe_binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Rung is one resolution/bitrate pair of an encoding ladder.
type Rung struct {
	Resolution string `toml:"resolution"`
	Bitrate    string `toml:"bitrate"`
}

// Ladder contains the encoding ladder definition and its parallelism. A nil
// Rungs slice selects DefaultRungs; an explicitly empty one is a zero-rung ladder.
type Ladder struct {
	Workers int    `toml:"workers"`
	Rungs   []Rung `toml:"rungs"`
}

// Codec declares an extra codec profile on top of the builtin registry.
type Codec struct {
	Extension   string   `toml:"extension"`
	EncoderArgs []string `toml:"encoder_args"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Metrics contains configuration for the Prometheus textfile export.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Config encapsulates all configuration values for vidladder.
type Config struct {
	Paths      Paths            `toml:"paths"`
	Transcoder Transcoder       `toml:"transcoder"`
	Ladder     Ladder           `toml:"ladder"`
	Codecs     map[string]Codec `toml:"codecs"`
	Logging    Logging          `toml:"logging"`
	Metrics    Metrics          `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vidladder/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vidladder.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and log directories when configured.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Registry returns the builtin codec registry extended with the profiles
// declared under [codecs].
func (c *Config) Registry() (*codec.Registry, error) {
	base := codec.DefaultRegistry()
	if len(c.Codecs) == 0 {
		return base, nil
	}
	ids := make([]string, 0, len(c.Codecs))
	for id := range c.Codecs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	extra := make([]codec.Profile, 0, len(ids))
	for _, id := range ids {
		entry := c.Codecs[id]
		extra = append(extra, codec.Profile{
			ID:          id,
			Extension:   entry.Extension,
			EncoderArgs: append([]string(nil), entry.EncoderArgs...),
		})
	}
	reg, err := base.With(extra...)
	if err != nil {
		return nil, fmt.Errorf("codecs: %w", err)
	}
	return reg, nil
}

// LadderRungs returns the configured rungs, falling back to DefaultRungs.
func (c *Config) LadderRungs() []Rung {
	if c.Ladder.Rungs == nil {
		return DefaultRungs()
	}
	return append([]Rung(nil), c.Ladder.Rungs...)
}

// Timeout returns the per-job deadline, or zero when jobs may run unbounded.
func (c *Config) Timeout() time.Duration {
	if c.Transcoder.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Transcoder.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
