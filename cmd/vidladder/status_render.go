package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"vidladder/internal/deps"
	"vidladder/internal/ladder"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset = "\x1b[0m"
	ansiBlue  = "\x1b[34m"

	statusLabelWidth = 18
	statusIndent     = "  "
)

var statusStyles = [...]struct{ tag, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

// statusLine is one "  Label:   [TAG] message" row shared by `status` and
// the ladder progress output.
type statusLine struct {
	label   string
	kind    statusKind
	message string
}

func (l statusLine) render(colorize bool) string {
	style := statusStyles[l.kind]
	text := "[" + style.tag + "]"
	if l.message != "" {
		text += " " + l.message
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, l.label+":", text)
	if colorize {
		return style.color + base + ansiReset
	}
	return base
}

// rungLine reports a finished rung: its output path, or the last line of
// the transcoder's diagnostic.
func rungLine(rr ladder.RungResult) statusLine {
	line := statusLine{label: fmt.Sprintf("Rung %d %s", rr.Index, rr.Rung.Resolution)}
	if rr.OK() {
		line.kind, line.message = statusOK, rr.Result.OutputPath()
	} else {
		line.kind, line.message = statusError, summaryLine(rr.Message())
	}
	return line
}

// dependencyLine marks a missing required dependency as an error and a
// missing optional one as a warning.
func dependencyLine(dep deps.Status) statusLine {
	if dep.Available {
		message := "Ready"
		if dep.Command != "" {
			message = fmt.Sprintf("Ready (%s)", dep.Command)
		}
		return statusLine{label: dep.Name, kind: statusOK, message: message}
	}
	detail := strings.TrimSpace(dep.Detail)
	if detail == "" {
		detail = "not available"
	}
	kind := statusError
	if dep.Optional {
		kind = statusWarn
	}
	return statusLine{label: dep.Name, kind: kind, message: detail}
}

// statusReport accumulates sectioned status output.
type statusReport struct {
	colorize bool
	lines    []string
}

func newStatusReport(w io.Writer) *statusReport {
	return &statusReport{colorize: shouldColorize(w)}
}

func (r *statusReport) section(title string) {
	if len(r.lines) > 0 {
		r.lines = append(r.lines, "")
	}
	header := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(header))
	if r.colorize {
		header, rule = ansiBlue+header+ansiReset, ansiBlue+rule+ansiReset
	}
	r.lines = append(r.lines, header, rule)
}

func (r *statusReport) add(label string, kind statusKind, message string) {
	r.lines = append(r.lines, statusLine{label: label, kind: kind, message: message}.render(r.colorize))
}

// dependencies adds one row per status plus a "Missing" summary naming the
// required ones that are absent.
func (r *statusReport) dependencies(statuses []deps.Status) {
	var missing []string
	for _, dep := range statuses {
		line := dependencyLine(dep)
		if line.kind == statusError {
			missing = append(missing, dep.Name)
		}
		r.lines = append(r.lines, line.render(r.colorize))
	}
	if len(missing) > 0 {
		r.add("Missing", statusError, strings.Join(missing, ", "))
	}
}

func (r *statusReport) writeTo(w io.Writer) {
	for _, line := range r.lines {
		fmt.Fprintln(w, line)
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
