package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidladder/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "missing"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result := CheckDirectoryAccess("test", file)
	if result.Passed || !strings.Contains(result.Detail, "not a directory") {
		t.Fatalf("expected not-a-directory failure, got %+v", result)
	}
}

func TestCheckOutputDir_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")
	result := CheckOutputDir(path)
	if !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("expected creatable dir to pass, got %+v", result)
	}
}

func TestCheckOutputDir_UnderFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result := CheckOutputDir(filepath.Join(file, "out"))
	if result.Passed {
		t.Fatalf("expected failure when parent is a file, got %+v", result)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestRunAll_StubbedTranscoder(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	results := RunAll(cfg)
	if len(results) != 2 {
		t.Fatalf("expected output dir and ffmpeg checks, got %+v", results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %s", Summary(results))
	}
}

func TestRunAll_MissingTranscoder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Transcoder.Binary = filepath.Join(t.TempDir(), "no-ffmpeg")
	results := RunAll(cfg)
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "FFmpeg" {
		t.Fatalf("expected ffmpeg failure, got %+v", results)
	}
	if !strings.Contains(Summary(results), "FFmpeg: ") {
		t.Fatalf("unexpected summary %q", Summary(results))
	}
}
