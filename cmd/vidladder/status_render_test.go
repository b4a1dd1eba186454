package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"vidladder/internal/deps"
	"vidladder/internal/ladder"
	"vidladder/internal/transcode"
)

func TestStatusLineRenderNoColor(t *testing.T) {
	got := statusLine{label: "FFmpeg", kind: statusError, message: "not found"}.render(false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "FFmpeg:", "[ERROR] not found")
	if got != want {
		t.Fatalf("render mismatch\n got: %q\nwant: %q", got, want)
	}
	if got := (statusLine{label: "Lock", kind: statusOK}).render(false); !strings.HasSuffix(got, "Lock:"+strings.Repeat(" ", statusLabelWidth-len("Lock:"))+" [OK]") {
		t.Fatalf("unexpected line without message %q", got)
	}
}

func TestStatusLineRenderWithColor(t *testing.T) {
	got := statusLine{label: "FFmpeg", kind: statusOK, message: "Ready"}.render(true)
	if !strings.HasPrefix(got, statusStyles[statusOK].color) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected colored line, got %q", got)
	}
}

func TestRungLine(t *testing.T) {
	ok := ladder.RungResult{Index: 0, Rung: ladder.Rung{Resolution: "1920:1080", Bitrate: "1000k"}, Result: transcode.Success("out.webm")}
	if line := rungLine(ok); line.kind != statusOK || line.message != "out.webm" || line.label != "Rung 0 1920:1080" {
		t.Fatalf("unexpected success line %+v", line)
	}
	failed := ladder.RungResult{Index: 1, Rung: ladder.Rung{Resolution: "1280:720", Bitrate: "500k"}, Result: transcode.Failure("ffmpeg banner\nencoder crash\n")}
	if line := rungLine(failed); line.kind != statusError || line.message != "encoder crash" {
		t.Fatalf("unexpected failure line %+v", line)
	}
	launch := ladder.RungResult{Index: 2, Err: errors.New("launch failed")}
	if line := rungLine(launch); line.kind != statusError || line.message != "launch failed" {
		t.Fatalf("unexpected launch line %+v", line)
	}
}

func TestStatusReportDependencies(t *testing.T) {
	report := &statusReport{}
	report.section("Dependencies")
	report.dependencies([]deps.Status{
		{Name: "FFmpeg", Available: false},
		{Name: "FFprobe", Available: false, Optional: true, Detail: "binary \"ffprobe\" not found"},
		{Name: "vp9", Available: true, Command: "libvpx-vp9"},
	})
	lines := report.lines
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "== Dependencies ==" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], "[ERROR] not available") {
		t.Fatalf("unexpected first dependency %q", lines[2])
	}
	if !strings.Contains(lines[3], "[WARN] binary") {
		t.Fatalf("unexpected second dependency %q", lines[3])
	}
	if !strings.Contains(lines[4], "[OK] Ready (libvpx-vp9)") {
		t.Fatalf("unexpected third dependency %q", lines[4])
	}
	if !strings.Contains(lines[5], "Missing:") || !strings.Contains(lines[5], "FFmpeg") || strings.Contains(lines[5], "FFprobe") {
		t.Fatalf("unexpected summary line %q", lines[5])
	}
}

func TestStatusReportSeparatesSections(t *testing.T) {
	report := &statusReport{}
	report.section("A")
	report.add("x", statusInfo, "")
	report.section("B")
	var buf bytes.Buffer
	report.writeTo(&buf)
	if !strings.Contains(buf.String(), "[INFO]\n\n== B ==") {
		t.Fatalf("expected blank line between sections, got %q", buf.String())
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatal("expected non-file writer to disable color")
	}
}

func TestTableRenderPadsRows(t *testing.T) {
	tbl := newTable("A", "B", "C").align(alignLeft, alignRight)
	tbl.add("x")
	out := tbl.render()
	if !strings.Contains(out, "A") || !strings.Contains(out, "x") {
		t.Fatalf("unexpected table %q", out)
	}
	if newTable().render() != "" {
		t.Fatal("expected empty render for no headers")
	}
}
