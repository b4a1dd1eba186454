package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"vidladder/internal/codec"
	"vidladder/internal/config"
	"vidladder/internal/transcode"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank result %#v", results[2])
	}
}

func TestRequirementsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Transcoder.Binary = "/opt/ffmpeg"
	reqs := Requirements(&cfg)
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	if reqs[0].Command != "/opt/ffmpeg" || reqs[0].Optional {
		t.Fatalf("unexpected ffmpeg requirement %#v", reqs[0])
	}
	if reqs[1].Command != "ffprobe" || !reqs[1].Optional {
		t.Fatalf("unexpected ffprobe requirement %#v", reqs[1])
	}
	if Requirements(nil) != nil {
		t.Fatal("expected nil for nil config")
	}
}

const encoderTable = `Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx265              libx265 H.265 / HEVC (codec hevc)
 V....D libvpx               libvpx VP8 (codec vp8)
 A....D aac                  AAC (Advanced Audio Coding)
`

type tableRunner struct{ out transcode.Output }

func (r tableRunner) Run(context.Context, []string) (transcode.Output, error) {
	return r.out, nil
}

func TestParseEncoders(t *testing.T) {
	got := parseEncoders(encoderTable)
	for _, name := range []string{"libx265", "libvpx", "aac"} {
		if !got[name] {
			t.Fatalf("expected %s in %v", name, got)
		}
	}
	if got["Video"] || got["="] {
		t.Fatalf("legend rows must be skipped: %v", got)
	}
}

func TestCheckEncoders(t *testing.T) {
	runner := tableRunner{out: transcode.Output{Stdout: encoderTable}}
	results := CheckEncoders(context.Background(), runner, "ffmpeg", codec.DefaultRegistry())
	byID := make(map[string]Status, len(results))
	for _, s := range results {
		byID[s.Name] = s
	}
	if !byID["h265"].Available || !byID["vp8"].Available {
		t.Fatalf("expected h265 and vp8 available: %#v", byID)
	}
	if byID["vp9"].Available || byID["av1"].Available {
		t.Fatalf("expected vp9 and av1 unavailable: %#v", byID)
	}
}

func TestCheckEncodersReportsListFailure(t *testing.T) {
	runner := tableRunner{out: transcode.Output{ExitCode: 1, Stderr: "boom"}}
	for _, s := range CheckEncoders(context.Background(), runner, "ffmpeg", codec.DefaultRegistry()) {
		if s.Available || s.Detail == "" {
			t.Fatalf("expected failure detail, got %#v", s)
		}
	}
}
