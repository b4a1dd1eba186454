package main

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"vidladder/internal/config"
	"vidladder/internal/ladder"
	"vidladder/internal/outputlock"
	"vidladder/internal/preflight"
	"vidladder/internal/services"
	"vidladder/internal/transcode"
)

// foldCodecID case-folds a user-typed codec id so "H265" selects h265. The
// registry itself matches ids exactly.
func foldCodecID(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

// parseRungFlag splits "<resolution>@<bitrate>". The parts are validated
// later, per rung, by the command builder.
func parseRungFlag(value string) (ladder.Rung, error) {
	res, br, ok := strings.Cut(strings.TrimSpace(value), "@")
	if !ok || res == "" || br == "" {
		return ladder.Rung{}, services.Wrap(services.ErrValidation, "ladder", "rung", fmt.Sprintf("%q must look like 1280:720@500k", value), nil)
	}
	return ladder.Rung{Resolution: res, Bitrate: br}, nil
}

func rungsFromConfig(cfg *config.Config) []ladder.Rung {
	cfgRungs := cfg.LadderRungs()
	rungs := make([]ladder.Rung, len(cfgRungs))
	for i, r := range cfgRungs {
		rungs[i] = ladder.Rung{Resolution: r.Resolution, Bitrate: r.Bitrate}
	}
	return rungs
}

// requireReady runs preflight checks and fails with a configuration error
// naming every failed check.
func requireReady(cfg *config.Config) error {
	results := preflight.RunAll(cfg)
	if len(preflight.Failed(results)) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "", preflight.Summary(results), nil)
}

// withOutputLock holds the output directory lock while fn runs.
func withOutputLock(cfg *config.Config, fn func() error) error {
	lock, err := outputlock.Acquire(cfg.Paths.OutputDir)
	if err != nil {
		if errors.Is(err, outputlock.ErrLocked) {
			return services.Wrap(services.ErrConfiguration, "output", "lock", "", err)
		}
		return err
	}
	defer func() { _ = lock.Release() }()
	return fn()
}

func toResultJSON(res transcode.Result, err error) resultJSON {
	if err != nil {
		return resultJSON{Error: err.Error()}
	}
	if res.OK() {
		return resultJSON{OK: true, Output: res.OutputPath()}
	}
	return resultJSON{Message: res.Message(), ExitCode: res.ExitCode()}
}

// summaryLine picks the last non-empty line of transcoder diagnostics for
// table cells; ffmpeg prints its banner first and the fatal error last.
func summaryLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
