package transcode

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Output captures what a finished transcoder process produced.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner starts a process and waits for it. Implementations return a nil
// error whenever the process ran to an exit status (zero or not); a non-nil
// error means it never ran or was stopped by ctx.
type Runner interface {
	Run(ctx context.Context, argv []string) (Output, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, argv []string) (Output, error) {
	if len(argv) == 0 {
		return Output{}, errors.New("empty argument vector")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Output{}, err
	}
	err := cmd.Wait()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return out, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	return out, err
}
