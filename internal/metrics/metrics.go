package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"vidladder/internal/ladder"
	"vidladder/internal/transcode"
)

// Collector owns the vidladder metrics and the registry they are registered on.
type Collector struct {
	registry *prometheus.Registry

	JobsTotal          *prometheus.CounterVec
	JobDuration        *prometheus.HistogramVec
	LadderRunsTotal    prometheus.Counter
	LadderRungsTotal   *prometheus.CounterVec
	LastRunTimestamp   prometheus.Gauge
	LastLadderDuration prometheus.Gauge
}

// New registers every metric on a fresh registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Collector{
		registry: reg,
		JobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidladder_jobs_total",
				Help: "Total number of transcoder jobs by outcome",
			},
			[]string{"codec", "outcome"},
		),
		JobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vidladder_job_duration_seconds",
				Help:    "Transcoder job wall time in seconds",
				Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
			},
			[]string{"codec"},
		),
		LadderRunsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vidladder_ladder_runs_total",
				Help: "Total number of ladder runs",
			},
		),
		LadderRungsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidladder_ladder_rungs_total",
				Help: "Total number of ladder rungs by status",
			},
			[]string{"status"}, // "succeeded", "failed"
		),
		LastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vidladder_last_run_timestamp",
				Help: "Unix timestamp of the last completed job",
			},
		),
		LastLadderDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vidladder_last_ladder_duration_seconds",
				Help: "Duration of the last ladder run in seconds",
			},
		),
	}
}

// Registry exposes the underlying registry for tests and custom exporters.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveJob implements transcode.Observer.
func (c *Collector) ObserveJob(codec string, outcome transcode.Outcome, elapsed time.Duration) {
	if codec == "" {
		codec = "unknown"
	}
	c.JobsTotal.WithLabelValues(codec, string(outcome)).Inc()
	c.JobDuration.WithLabelValues(codec).Observe(elapsed.Seconds())
	c.LastRunTimestamp.SetToCurrentTime()
}

// ObserveLadder records a finished ladder run.
func (c *Collector) ObserveLadder(res ladder.Result) {
	c.LadderRunsTotal.Inc()
	c.LadderRungsTotal.WithLabelValues("succeeded").Add(float64(res.Succeeded()))
	c.LadderRungsTotal.WithLabelValues("failed").Add(float64(res.Failed()))
	c.LastLadderDuration.Set(res.Elapsed.Seconds())
}

// WriteTextfile writes the registry in text exposition format to path,
// creating the parent directory when needed. The write is atomic.
func (c *Collector) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
