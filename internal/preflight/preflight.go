package preflight

import (
	"strings"

	"vidladder/internal/config"
	"vidladder/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks a conversion needs: output directory access and
// the transcoder binary. Optional dependencies are not included.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckOutputDir(cfg.Paths.OutputDir))
	for _, status := range CheckSystemDeps(cfg) {
		if status.Optional {
			continue
		}
		results = append(results, FromStatus(status))
	}
	return results
}

// Failed returns the failing results.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summary joins failing results into one diagnostic line.
func Summary(results []Result) string {
	parts := make([]string, 0, len(results))
	for _, r := range Failed(results) {
		parts = append(parts, r.Name+": "+r.Detail)
	}
	return strings.Join(parts, "; ")
}

// FromStatus converts a dependency status into a preflight result.
func FromStatus(status deps.Status) Result {
	detail := status.Command
	if !status.Available {
		detail = status.Detail
	}
	return Result{Name: status.Name, Passed: status.Available, Detail: detail}
}
