package transcode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vidladder/internal/logging"
	"vidladder/internal/services"
)

// Outcome labels how a job ended, for metrics and logs.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailure  Outcome = "failure"
	OutcomeLaunch   Outcome = "launch_error"
	OutcomeTimeout  Outcome = "timeout"
	OutcomeCanceled Outcome = "canceled"
)

// Observer receives one notification per executed job.
type Observer interface {
	ObserveJob(codec string, outcome Outcome, elapsed time.Duration)
}

// Option configures an Executor.
type Option func(*Executor)

// WithRunner injects a custom runner (primarily for tests).
func WithRunner(r Runner) Option {
	return func(e *Executor) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithTimeout bounds each job. Zero or negative disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.timeout = d
	}
}

// WithLogger sets the executor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver registers a job observer such as the metrics collector.
func WithObserver(o Observer) Option {
	return func(e *Executor) {
		e.observer = o
	}
}

// Executor runs built commands, one process per call, without retries.
type Executor struct {
	runner   Runner
	timeout  time.Duration
	logger   *slog.Logger
	observer Observer
}

// NewExecutor constructs an Executor backed by os/exec unless overridden.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		runner: ExecRunner{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs cmd and waits for it. A non-zero exit is a Failure result, not
// an error; the returned error is reserved for processes that could not be
// started, hit the configured deadline, or were cancelled.
func (e *Executor) Execute(ctx context.Context, cmd Command) (Result, error) {
	if len(cmd.Args) == 0 {
		return Result{}, services.Wrap(services.ErrValidation, "transcode", "execute", "empty command", nil)
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(e.logger, "transcode"))

	jobCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	logger.Debug("transcoder command", logging.Strings("args", cmd.Args))
	start := time.Now()
	out, err := e.runner.Run(jobCtx, cmd.Args)
	elapsed := time.Since(start)

	if err != nil {
		outcome, wrapped := e.classifyRunError(ctx, jobCtx, cmd, err)
		e.observe(cmd.Codec, outcome, elapsed)
		logging.ErrorWithContext(logger, "transcoder did not complete", "transcode_"+string(outcome),
			logging.String("binary", cmd.Binary()),
			logging.String("output", cmd.OutputPath),
			logging.Duration("elapsed", elapsed),
			logging.Error(wrapped),
			logging.String(logging.FieldErrorHint, "verify the transcoder binary is installed and executable"),
		)
		return Result{}, wrapped
	}

	if out.ExitCode != 0 {
		e.observe(cmd.Codec, OutcomeFailure, elapsed)
		logging.WarnWithContext(logger, "transcoder exited with error", "transcode_failed",
			logging.String("output", cmd.OutputPath),
			logging.Int("exit_code", out.ExitCode),
			logging.Duration("elapsed", elapsed),
			logging.String("stderr", out.Stderr),
			logging.String(logging.FieldImpact, "no output produced for this job"),
		)
		return failureWithCode(out.Stderr, out.ExitCode), nil
	}

	e.observe(cmd.Codec, OutcomeSuccess, elapsed)
	logger.Info("transcode complete",
		logging.String("output", cmd.OutputPath),
		logging.Duration("elapsed", elapsed),
	)
	return Success(cmd.OutputPath), nil
}

func (e *Executor) classifyRunError(parent, jobCtx context.Context, cmd Command, err error) (Outcome, error) {
	switch {
	case parent.Err() != nil:
		return OutcomeCanceled, fmt.Errorf("transcode %s: %w", cmd.OutputPath, parent.Err())
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(jobCtx.Err(), context.DeadlineExceeded):
		return OutcomeTimeout, services.Wrap(
			services.ErrTimeout,
			"transcode",
			"execute",
			fmt.Sprintf("%s exceeded %s", cmd.OutputPath, e.timeout),
			context.DeadlineExceeded,
		)
	default:
		return OutcomeLaunch, services.Wrap(
			services.ErrExternalTool,
			"transcode",
			"launch",
			cmd.Binary(),
			fmt.Errorf("%w: %w", ErrProcessLaunch, err),
		)
	}
}

func (e *Executor) observe(codec string, outcome Outcome, elapsed time.Duration) {
	if e.observer != nil {
		e.observer.ObserveJob(codec, outcome, elapsed)
	}
}
