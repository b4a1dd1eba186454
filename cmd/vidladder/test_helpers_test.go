package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidladder/internal/outputlock"
	"vidladder/internal/testsupport"
)

// stubFFmpeg creates the last argument as an empty file, except for the
// 1280:720 rung which fails with "encoder crash" on stderr.
const stubFFmpeg = `for last; do :; done
case " $* " in
  *" scale=1280:720 "*) printf 'encoder crash' >&2; exit 1 ;;
esac
: > "$last"
`

type cliTestEnv struct {
	baseDir    string
	outputDir  string
	configPath string
	input      string
	metrics    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedTranscoder(stubFFmpeg))
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Chdir(base)

	env := &cliTestEnv{
		baseDir:    base,
		outputDir:  cfg.Paths.OutputDir,
		configPath: filepath.Join(base, "config.toml"),
		input:      filepath.Join(base, "clip.mp4"),
		metrics:    filepath.Join(base, "metrics", "vidladder.prom"),
	}
	testsupport.WriteFile(t, env.input, 1024)

	content := fmt.Sprintf(`[paths]
output_dir = %q
log_dir = %q

[transcoder]
binary = %q
probe_binary = %q

[logging]
level = "error"

[metrics]
textfile = %q
`, cfg.Paths.OutputDir, cfg.Paths.LogDir, cfg.Transcoder.Binary, filepath.Join(base, "bin", "ffprobe"), env.metrics)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// removeTranscoder deletes the stub ffmpeg so preflight would fail.
func removeTranscoder(t *testing.T, env *cliTestEnv) {
	t.Helper()
	if err := os.Remove(filepath.Join(env.baseDir, "bin", "ffmpeg")); err != nil {
		t.Fatalf("remove stub: %v", err)
	}
}

func requireNoLockFile(t *testing.T, env *cliTestEnv) {
	t.Helper()
	if _, err := os.Stat(outputlock.Path(env.outputDir)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no lock file before validation passes, stat err = %v", err)
	}
}
