package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscoder()
	c.normalizeLadder()
	c.normalizeCodecs()
	c.normalizeLogging()
	return c.normalizeMetrics()
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("VIDLADDER_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = strings.TrimSpace(value)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscoder() {
	if value, ok := os.LookupEnv("VIDLADDER_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Transcoder.Binary = value
	}
	if value, ok := os.LookupEnv("VIDLADDER_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.Transcoder.ProbeBinary = value
	}
	c.Transcoder.Binary = strings.TrimSpace(c.Transcoder.Binary)
	if c.Transcoder.Binary == "" {
		c.Transcoder.Binary = defaultTranscoder
	}
	c.Transcoder.ProbeBinary = strings.TrimSpace(c.Transcoder.ProbeBinary)
	if c.Transcoder.ProbeBinary == "" {
		c.Transcoder.ProbeBinary = defaultProbe
	}
}

func (c *Config) normalizeLadder() {
	if c.Ladder.Workers == 0 {
		c.Ladder.Workers = defaultLadderWorkers
	}
	if c.Ladder.Rungs == nil {
		c.Ladder.Rungs = DefaultRungs()
	}
	for i := range c.Ladder.Rungs {
		c.Ladder.Rungs[i].Resolution = strings.TrimSpace(c.Ladder.Rungs[i].Resolution)
		c.Ladder.Rungs[i].Bitrate = strings.TrimSpace(c.Ladder.Rungs[i].Bitrate)
	}
}

func (c *Config) normalizeCodecs() {
	if len(c.Codecs) == 0 {
		return
	}
	normalized := make(map[string]Codec, len(c.Codecs))
	for id, entry := range c.Codecs {
		entry.Extension = strings.TrimSpace(entry.Extension)
		if entry.Extension != "" && !strings.HasPrefix(entry.Extension, ".") {
			entry.Extension = "." + entry.Extension
		}
		normalized[strings.TrimSpace(id)] = entry
	}
	c.Codecs = normalized
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeMetrics() error {
	path := strings.TrimSpace(c.Metrics.Textfile)
	if path == "" {
		c.Metrics.Textfile = ""
		return nil
	}
	expanded, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	c.Metrics.Textfile = expanded
	return nil
}
