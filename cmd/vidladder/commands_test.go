package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vidladder/internal/services"
)

func TestCodecsCommandListsBuiltins(t *testing.T) {
	env := setupCLITestEnv(t)
	stdout, _, err := runCLI(t, []string{"codecs"}, env.configPath)
	if err != nil {
		t.Fatalf("codecs: %v", err)
	}
	for _, want := range []string{"h265", "vp8", "vp9", "av1", "libaom-av1", ".webm"} {
		requireContains(t, stdout, want)
	}
}

func TestCodecsCommandIncludesConfiguredProfiles(t *testing.T) {
	env := setupCLITestEnv(t)
	f, err := os.OpenFile(env.configPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open config: %v", err)
	}
	_, _ = f.WriteString("\n[codecs.h264]\nextension = \"mkv\"\nencoder_args = [\"-c:v\", \"libx264\"]\n")
	_ = f.Close()

	stdout, _, err := runCLI(t, []string{"codecs", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("codecs --json: %v", err)
	}
	requireContains(t, stdout, `"id": "h264"`)
	requireContains(t, stdout, `"extension": ".mkv"`)
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "fresh", "config.toml")
	stdout, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, stdout, target)

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists")
	}

	stdout, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, stdout, "Configuration valid")
}

func TestConfigValidateRejectsBadConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	bad := filepath.Join(env.baseDir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[ladder]\nworkers = -2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := runCLI(t, []string{"config", "validate"}, bad)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestConfigShowIncludesDefaultLadder(t *testing.T) {
	env := setupCLITestEnv(t)
	stdout, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, stdout, "1920:1080")
	requireContains(t, stdout, "125k")
	requireContains(t, stdout, env.outputDir)
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	stdout, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, stdout, "== Dependencies ==")
	requireContains(t, stdout, "FFmpeg:")
	requireContains(t, stdout, "[WARN]")
	requireContains(t, stdout, "Lock:")
}

func TestCleanRemovesOutputs(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{
		"convert", env.input, "--codec", "vp8", "--resolution", "640:360", "--bitrate", "125k",
	}, env.configPath); err != nil {
		t.Fatalf("convert: %v", err)
	}
	keep := filepath.Join(env.outputDir, "notes.txt")
	if err := os.WriteFile(keep, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write keep file: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"clean", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("clean --dry-run: %v", err)
	}
	requireContains(t, stdout, "Would remove")

	stdout, _, err = runCLI(t, []string{"clean"}, env.configPath)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	requireContains(t, stdout, "output_single_vp8_640x360_125k.webm")
	if _, err := os.Stat(filepath.Join(env.outputDir, "output_single_vp8_640x360_125k.webm")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected output removed, stat err = %v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("unrelated file removed: %v", err)
	}
}

func TestProbeCommandReportsFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"probe", env.input}, env.configPath)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error without ffprobe, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{services.Wrap(services.ErrValidation, "x", "", "", nil), 2},
		{services.Wrap(services.ErrConfiguration, "x", "", "", nil), 3},
		{services.Wrap(services.ErrExternalTool, "x", "", "", nil), 1},
		{errors.New("plain"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Fatalf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestLogsCommandShowsTrailingLines(t *testing.T) {
	env := setupCLITestEnv(t)
	logDir := filepath.Join(env.baseDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatalf("mkdir logs: %v", err)
	}
	content := "first\nsecond\nthird\n"
	if err := os.WriteFile(filepath.Join(logDir, "vidladder.log"), []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"logs", "-n", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if stdout != "second\nthird\n" {
		t.Fatalf("unexpected logs output %q", stdout)
	}
}

func TestLogsCommandEmptyLog(t *testing.T) {
	env := setupCLITestEnv(t)
	stdout, _, err := runCLI(t, []string{"logs"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, stdout, "No log entries")
}
