package transcode

import (
	"errors"
	"fmt"
)

// ErrProcessExit marks a transcoder run that finished with a non-zero status.
var ErrProcessExit = errors.New("transcoder exited with error")

// ErrProcessLaunch marks a transcoder binary that could not be started.
var ErrProcessLaunch = errors.New("transcoder could not be started")

// Result is the outcome of one conversion: either a success carrying the output
// path or a failure carrying the transcoder's diagnostic text.
type Result struct {
	ok         bool
	outputPath string
	message    string
	exitCode   int
}

// Success builds a successful result.
func Success(outputPath string) Result {
	return Result{ok: true, outputPath: outputPath}
}

// Failure builds a failed result whose message is exactly msg.
func Failure(msg string) Result {
	return Result{message: msg}
}

func failureWithCode(msg string, code int) Result {
	return Result{message: msg, exitCode: code}
}

// OK reports whether the conversion succeeded.
func (r Result) OK() bool { return r.ok }

// OutputPath returns the produced file for successes and "" otherwise.
func (r Result) OutputPath() string { return r.outputPath }

// Message returns the captured stderr for failures and "" otherwise.
func (r Result) Message() string { return r.message }

// ExitCode returns the transcoder's exit status for failures.
func (r Result) ExitCode() int { return r.exitCode }

// Err returns nil for successes and an error wrapping ErrProcessExit for failures.
func (r Result) Err() error {
	if r.ok {
		return nil
	}
	return &ExitError{Code: r.exitCode, Stderr: r.message}
}

// String renders the result for display.
func (r Result) String() string {
	if r.ok {
		return "success: " + r.outputPath
	}
	return "failure: " + r.message
}

// ExitError is the error form of a failed result.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s (status %d)", ErrProcessExit, e.Code)
	}
	return fmt.Sprintf("%s (status %d): %s", ErrProcessExit, e.Code, e.Stderr)
}

func (e *ExitError) Unwrap() error { return ErrProcessExit }
