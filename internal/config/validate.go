package config

import (
	"errors"
	"fmt"
	"strings"

	"vidladder/internal/params"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscoder(); err != nil {
		return err
	}
	if err := c.validateLadder(); err != nil {
		return err
	}
	if err := c.validateCodecs(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTranscoder() error {
	if strings.TrimSpace(c.Transcoder.Binary) == "" {
		return errors.New("transcoder.binary must be set")
	}
	if c.Transcoder.TimeoutSeconds < 0 {
		return errors.New("transcoder.timeout_seconds must be >= 0 (0 disables the deadline)")
	}
	return nil
}

func (c *Config) validateLadder() error {
	if c.Ladder.Workers < 1 {
		return errors.New("ladder.workers must be positive")
	}
	for i, rung := range c.Ladder.Rungs {
		if _, err := params.ParseResolution(rung.Resolution); err != nil {
			return fmt.Errorf("ladder.rungs[%d].resolution: %w", i, err)
		}
		if _, err := params.ParseBitrate(rung.Bitrate); err != nil {
			return fmt.Errorf("ladder.rungs[%d].bitrate: %w", i, err)
		}
	}
	return nil
}

func (c *Config) validateCodecs() error {
	for id, entry := range c.Codecs {
		if id == "" {
			return errors.New("codecs: profile id must not be blank")
		}
		if entry.Extension == "" {
			return fmt.Errorf("codecs.%s.extension must be set", id)
		}
	}
	if _, err := c.Registry(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q (use debug, info, warn, or error)", c.Logging.Level)
	}
}
