package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a placeholder media file of size bytes (at least one),
// which is enough for path and non-empty input checks.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()
	writeWithParents(t, path, bytes.Repeat([]byte{0x42}, int(max(size, 1))), 0o644)
}

// WriteScript writes an executable POSIX shell script with the given body.
// Scripts receive the transcoder argv; the last argument is the output path.
func WriteScript(t testing.TB, path, body string) {
	t.Helper()
	writeWithParents(t, path, []byte("#!/bin/sh\n"+body), 0o755)
}

func writeWithParents(t testing.TB, path string, data []byte, mode os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
