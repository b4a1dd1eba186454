package ladder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"vidladder/internal/logging"
	"vidladder/internal/params"
	"vidladder/internal/services"
	"vidladder/internal/transcode"
)

// Rung is one resolution/bitrate pair, in the raw text form users supply.
type Rung struct {
	Resolution string
	Bitrate    string
}

// DefaultRungs returns the builtin four-rung ladder, highest quality first.
func DefaultRungs() []Rung {
	return []Rung{
		{Resolution: "1920:1080", Bitrate: "1000k"},
		{Resolution: "1280:720", Bitrate: "500k"},
		{Resolution: "854:480", Bitrate: "250k"},
		{Resolution: "640:360", Bitrate: "125k"},
	}
}

// RungResult is the outcome of one rung. Err is set when the rung never
// produced a transcoder result: invalid rung parameters, a launch failure, a
// timeout, or cancellation.
type RungResult struct {
	Index  int
	Rung   Rung
	Result transcode.Result
	Err    error
}

// OK reports whether the rung produced its output.
func (r RungResult) OK() bool {
	return r.Err == nil && r.Result.OK()
}

// Message returns the failure text: the transcoder's stderr for exit
// failures or the error text otherwise.
func (r RungResult) Message() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Result.Message()
}

// Result holds one RungResult per input rung, in rung order.
type Result struct {
	InputPath string
	Codec     string
	Rungs     []RungResult
	Elapsed   time.Duration
}

// Len returns the number of rungs.
func (r Result) Len() int { return len(r.Rungs) }

// Succeeded counts rungs that produced output.
func (r Result) Succeeded() int {
	n := 0
	for _, rr := range r.Rungs {
		if rr.OK() {
			n++
		}
	}
	return n
}

// Failed counts rungs that did not produce output.
func (r Result) Failed() int {
	return len(r.Rungs) - r.Succeeded()
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers bounds how many rungs run at once. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithLogger sets the orchestrator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress registers a callback invoked once per finished rung. Calls are
// serialized but arrive in completion order, which differs from rung order
// when running in parallel.
func WithProgress(fn func(RungResult)) Option {
	return func(o *Orchestrator) {
		o.progress = fn
	}
}

// Orchestrator runs ladders through a transcode.Converter.
type Orchestrator struct {
	converter *transcode.Converter
	workers   int
	logger    *slog.Logger
	progress  func(RungResult)
	mu        sync.Mutex
}

// New constructs an orchestrator that builds and executes every rung through conv.
func New(conv *transcode.Converter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		converter: conv,
		workers:   1,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Check validates the parameters shared by every rung: the input path and
// the codec id. Run calls it before building any command.
func (o *Orchestrator) Check(inputPath, codecID string) error {
	if err := params.ValidateInputPath(inputPath); err != nil {
		return err
	}
	_, err := params.ValidateCodec(o.converter.Builder.CodecRegistry(), codecID)
	return err
}

// Run encodes inputPath with codecID once per rung. The input path and codec
// are checked before any rung is built; those errors abort the whole ladder.
// Per-rung problems never do. A cancelled context marks the rungs that had
// not started and Run returns the context error alongside the partial result.
func (o *Orchestrator) Run(ctx context.Context, inputPath, codecID string, rungs []Rung) (Result, error) {
	if err := o.Check(inputPath, codecID); err != nil {
		return Result{}, err
	}

	ctx = services.WithCodec(services.WithStage(ctx, "ladder"), codecID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(o.logger, "ladder"))
	logger.Info("ladder started",
		logging.String("input", inputPath),
		logging.Int("rungs", len(rungs)),
		logging.Int("workers", o.workers),
	)

	start := time.Now()
	slots := make([]RungResult, len(rungs))
	if o.workers <= 1 || len(rungs) <= 1 {
		for i, rung := range rungs {
			slots[i] = o.runRung(ctx, i, inputPath, codecID, rung)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(o.workers)
		for i, rung := range rungs {
			g.Go(func() error {
				slots[i] = o.runRung(ctx, i, inputPath, codecID, rung)
				return nil
			})
		}
		_ = g.Wait()
	}

	result := Result{
		InputPath: inputPath,
		Codec:     codecID,
		Rungs:     slots,
		Elapsed:   time.Since(start),
	}
	logger.Info("ladder complete",
		logging.Int("succeeded", result.Succeeded()),
		logging.Int("failed", result.Failed()),
		logging.Duration("elapsed", result.Elapsed),
	)
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("ladder interrupted: %w", err)
	}
	return result, nil
}

func (o *Orchestrator) runRung(ctx context.Context, index int, inputPath, codecID string, rung Rung) RungResult {
	rr := RungResult{Index: index, Rung: rung}
	ctx = services.WithRungIndex(ctx, index)

	if err := ctx.Err(); err != nil {
		rr.Err = fmt.Errorf("rung %d not started: %w", index, err)
		o.report(rr)
		return rr
	}

	rr.Result, rr.Err = o.converter.Convert(ctx, transcode.Request{
		InputPath:  inputPath,
		Codec:      codecID,
		Resolution: rung.Resolution,
		Bitrate:    rung.Bitrate,
		Prefix:     transcode.PrefixLadderRung,
	})
	if !rr.OK() {
		logger := logging.WithContext(ctx, logging.NewComponentLogger(o.logger, "ladder"))
		logging.WarnWithContext(logger, "ladder rung failed", "rung_failed",
			logging.String("resolution", rung.Resolution),
			logging.String("bitrate", rung.Bitrate),
			logging.String("reason", rr.Message()),
			logging.String(logging.FieldImpact, "remaining rungs continue"),
		)
	}
	o.report(rr)
	return rr
}

func (o *Orchestrator) report(rr RungResult) {
	if o.progress == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress(rr)
}
