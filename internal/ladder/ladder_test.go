package ladder

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"vidladder/internal/config"
	"vidladder/internal/params"
	"vidladder/internal/transcode"
)

type scriptedRunner struct {
	mu    sync.Mutex
	calls [][]string
	run   func(argv []string) (transcode.Output, error)
}

func (s *scriptedRunner) Run(_ context.Context, argv []string) (transcode.Output, error) {
	s.mu.Lock()
	s.calls = append(s.calls, append([]string(nil), argv...))
	s.mu.Unlock()
	if s.run == nil {
		return transcode.Output{}, nil
	}
	return s.run(argv)
}

func (s *scriptedRunner) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newOrchestrator(runner transcode.Runner, opts ...Option) *Orchestrator {
	conv := transcode.NewConverter(
		transcode.NewBuilder(nil, "", ""),
		transcode.NewExecutor(transcode.WithRunner(runner)),
	)
	return New(conv, opts...)
}

func TestRunResultLengthMatchesRungs(t *testing.T) {
	for _, n := range []int{0, 1, 4} {
		runner := &scriptedRunner{}
		rungs := DefaultRungs()[:n]
		res, err := newOrchestrator(runner).Run(context.Background(), "clip.mp4", "h265", rungs)
		if err != nil {
			t.Fatalf("Run with %d rungs: %v", n, err)
		}
		if res.Len() != n || len(res.Rungs) != n {
			t.Fatalf("expected %d results, got %d", n, res.Len())
		}
		if res.Succeeded() != n || res.Failed() != 0 {
			t.Fatalf("unexpected counts %d/%d", res.Succeeded(), res.Failed())
		}
		if runner.count() != n {
			t.Fatalf("expected %d invocations, got %d", n, runner.count())
		}
	}
}

func TestRunEveryRungFails(t *testing.T) {
	runner := &scriptedRunner{run: func([]string) (transcode.Output, error) {
		return transcode.Output{Stderr: "no space left", ExitCode: 1}, nil
	}}
	res, err := newOrchestrator(runner).Run(context.Background(), "clip.mp4", "av1", DefaultRungs())
	if err != nil {
		t.Fatalf("a failing rung must not fail the ladder: %v", err)
	}
	if res.Len() != 4 || res.Failed() != 4 {
		t.Fatalf("expected 4 failures, got len=%d failed=%d", res.Len(), res.Failed())
	}
	for _, rr := range res.Rungs {
		if rr.Message() != "no space left" {
			t.Fatalf("rung %d message = %q", rr.Index, rr.Message())
		}
	}
}

func TestRunContinuesAfterFailedRung(t *testing.T) {
	runner := &scriptedRunner{run: func(argv []string) (transcode.Output, error) {
		if slices.Contains(argv, "scale=1280:720") {
			return transcode.Output{Stderr: "encoder crash", ExitCode: 1}, nil
		}
		return transcode.Output{}, nil
	}}
	res, err := newOrchestrator(runner).Run(context.Background(), "clip.mp4", "vp9", DefaultRungs())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Len() != 4 || runner.count() != 4 {
		t.Fatalf("expected 4 rungs and 4 invocations, got %d/%d", res.Len(), runner.count())
	}
	failed := res.Rungs[1]
	if failed.OK() || failed.Err != nil || failed.Result.Message() != "encoder crash" {
		t.Fatalf("unexpected rung 1 %+v", failed)
	}
	wantOutputs := map[int]string{
		0: "output_vp9_1920x1080_1000k.webm",
		2: "output_vp9_854x480_250k.webm",
		3: "output_vp9_640x360_125k.webm",
	}
	for idx, want := range wantOutputs {
		rr := res.Rungs[idx]
		if !rr.OK() || rr.Result.OutputPath() != want {
			t.Fatalf("rung %d = %+v, want success %s", idx, rr, want)
		}
	}
}

func TestRunRejectsEmptyInputBeforeAnyCommand(t *testing.T) {
	for _, input := range []string{"", "   \t"} {
		runner := &scriptedRunner{}
		res, err := newOrchestrator(runner).Run(context.Background(), input, "h265", DefaultRungs())
		if !errors.Is(err, params.ErrEmptyInputPath) {
			t.Fatalf("input %q: expected ErrEmptyInputPath, got %v", input, err)
		}
		if res.Len() != 0 || runner.count() != 0 {
			t.Fatalf("input %q: expected no work, got %d results %d calls", input, res.Len(), runner.count())
		}
	}
}

func TestRunRejectsUnknownCodec(t *testing.T) {
	runner := &scriptedRunner{}
	_, err := newOrchestrator(runner).Run(context.Background(), "clip.mp4", "mpeg2", DefaultRungs())
	if !errors.Is(err, params.ErrUnsupportedCodec) {
		t.Fatalf("expected ErrUnsupportedCodec, got %v", err)
	}
	if runner.count() != 0 {
		t.Fatalf("runner invoked %d times", runner.count())
	}
}

func TestCheckValidatesSharedParameters(t *testing.T) {
	orch := newOrchestrator(&scriptedRunner{})
	if err := orch.Check(" ", "vp9"); !errors.Is(err, params.ErrEmptyInputPath) {
		t.Fatalf("blank input: got %v", err)
	}
	if err := orch.Check("clip.mp4", "theora"); !errors.Is(err, params.ErrUnsupportedCodec) {
		t.Fatalf("unknown codec: got %v", err)
	}
	if err := orch.Check("", "theora"); !errors.Is(err, params.ErrEmptyInputPath) {
		t.Fatalf("input must be checked before codec, got %v", err)
	}
	if err := orch.Check("clip.mp4", "vp9"); err != nil {
		t.Fatalf("valid parameters: %v", err)
	}
}

func TestRunRecordsInvalidRungWithoutStopping(t *testing.T) {
	runner := &scriptedRunner{}
	rungs := []Rung{
		{Resolution: "1920:1080", Bitrate: "1000k"},
		{Resolution: "1280x720", Bitrate: "500k"},
		{Resolution: "640:360", Bitrate: "125kbps"},
		{Resolution: "640:360", Bitrate: "125k"},
	}
	res, err := newOrchestrator(runner).Run(context.Background(), "clip.mp4", "vp8", rungs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !errors.Is(res.Rungs[1].Err, params.ErrMalformedResolution) {
		t.Fatalf("rung 1 err = %v", res.Rungs[1].Err)
	}
	if !errors.Is(res.Rungs[2].Err, params.ErrMalformedBitrate) {
		t.Fatalf("rung 2 err = %v", res.Rungs[2].Err)
	}
	if !res.Rungs[0].OK() || !res.Rungs[3].OK() {
		t.Fatal("valid rungs should succeed")
	}
	if runner.count() != 2 {
		t.Fatalf("expected 2 invocations, got %d", runner.count())
	}
}

func TestRunLaunchFailureIsNotAnEmptyFailure(t *testing.T) {
	runner := &scriptedRunner{run: func([]string) (transcode.Output, error) {
		return transcode.Output{}, exec.ErrNotFound
	}}
	res, err := newOrchestrator(runner).Run(context.Background(), "clip.mp4", "h265", DefaultRungs()[:2])
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, rr := range res.Rungs {
		if !errors.Is(rr.Err, transcode.ErrProcessLaunch) {
			t.Fatalf("rung %d err = %v", rr.Index, rr.Err)
		}
		if rr.Message() == "" {
			t.Fatalf("rung %d has empty message", rr.Index)
		}
	}
}

func TestRunParallelPreservesOrder(t *testing.T) {
	runner := &scriptedRunner{run: func(argv []string) (transcode.Output, error) {
		// Higher-quality rungs finish last.
		if slices.Contains(argv, "scale=1920:1080") {
			time.Sleep(30 * time.Millisecond)
		}
		if slices.Contains(argv, "scale=854:480") {
			return transcode.Output{Stderr: "boom", ExitCode: 1}, nil
		}
		return transcode.Output{}, nil
	}}
	var (
		mu    sync.Mutex
		order []int
	)
	orch := newOrchestrator(runner, WithWorkers(4), WithProgress(func(rr RungResult) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, rr.Index)
	}))
	res, err := orch.Run(context.Background(), "clip.mp4", "h265", DefaultRungs())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, rr := range res.Rungs {
		if rr.Index != i {
			t.Fatalf("slot %d holds rung %d", i, rr.Index)
		}
		want := DefaultRungs()[i]
		if rr.Rung != want {
			t.Fatalf("slot %d rung = %+v, want %+v", i, rr.Rung, want)
		}
	}
	if !strings.HasSuffix(res.Rungs[0].Result.OutputPath(), "1920x1080_1000k.mp4") {
		t.Fatalf("unexpected first output %q", res.Rungs[0].Result.OutputPath())
	}
	if res.Rungs[2].OK() || res.Failed() != 1 {
		t.Fatalf("expected only rung 2 to fail, failed=%d", res.Failed())
	}
	if len(order) != 4 {
		t.Fatalf("progress called %d times", len(order))
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &scriptedRunner{}
	res, err := newOrchestrator(runner).Run(ctx, "clip.mp4", "h265", DefaultRungs())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if res.Len() != 4 || res.Failed() != 4 || runner.count() != 0 {
		t.Fatalf("unexpected result len=%d failed=%d calls=%d", res.Len(), res.Failed(), runner.count())
	}
}

func TestDefaultRungsMatchConfigDefaults(t *testing.T) {
	cfgRungs := config.DefaultRungs()
	rungs := DefaultRungs()
	if len(cfgRungs) != len(rungs) {
		t.Fatalf("length mismatch %d vs %d", len(cfgRungs), len(rungs))
	}
	for i := range rungs {
		if rungs[i].Resolution != cfgRungs[i].Resolution || rungs[i].Bitrate != cfgRungs[i].Bitrate {
			t.Fatalf("rung %d differs: %+v vs %+v", i, rungs[i], cfgRungs[i])
		}
	}
}
