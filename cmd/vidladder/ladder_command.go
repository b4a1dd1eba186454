package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"vidladder/internal/ladder"
	"vidladder/internal/services"
	"vidladder/internal/transcode"
)

func newLadderCommand(ctx *commandContext) *cobra.Command {
	var codecFlag string
	var rungFlags []string
	var workers int
	var dryRun, verify, jsonOut bool

	cmd := &cobra.Command{
		Use:   "ladder <input>",
		Short: "Encode one file once per ladder rung",
		Long: "Encode <input> with one codec at every rung of the ladder. Rungs come from\n" +
			"--rung flags when given, otherwise from [ladder] in the config. A failing rung\n" +
			"is reported and the remaining rungs still run.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rungs := rungsFromConfig(cfg)
			if len(rungFlags) > 0 {
				rungs = make([]ladder.Rung, 0, len(rungFlags))
				for _, value := range rungFlags {
					rung, err := parseRungFlag(value)
					if err != nil {
						return err
					}
					rungs = append(rungs, rung)
				}
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Ladder.Workers
			}
			codecID := foldCodecID(codecFlag)
			input := args[0]

			stderr := cmd.ErrOrStderr()
			colorize := shouldColorize(stderr)
			progress := func(rr ladder.RungResult) {
				if jsonOut {
					return
				}
				fmt.Fprintln(stderr, rungLine(rr).render(colorize))
			}
			orch, err := ctx.orchestrator(workers, progress)
			if err != nil {
				return err
			}
			if err := orch.Check(input, codecID); err != nil {
				return err
			}

			if dryRun {
				return printLadderPlan(cmd, ctx, input, codecID, rungs)
			}
			if err := requireReady(cfg); err != nil {
				return err
			}

			runCtx := ctx.runContext(cmd, "ladder")
			var result ladder.Result
			err = withOutputLock(cfg, func() error {
				var runErr error
				result, runErr = orch.Run(runCtx, input, codecID, rungs)
				return runErr
			})
			if result.Len() > 0 {
				ctx.metrics.ObserveLadder(result)
			}
			ctx.flushMetrics()
			if err != nil && result.Len() == 0 {
				return err
			}

			verified := make(map[int]error)
			if verify {
				for _, rr := range result.Rungs {
					if rr.OK() {
						verified[rr.Index] = verifyOutput(cmd, ctx, rr.Result.OutputPath(), rr.Rung.Resolution)
					}
				}
			}

			if jsonOut {
				if jerr := writeJSON(cmd, buildLadderJSON(ctx.runID, result, verify, verified)); jerr != nil {
					return jerr
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), ladderTable(result, verify, verified))
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d rungs succeeded in %s\n",
					result.Succeeded(), result.Len(), result.Elapsed.Round(time.Millisecond))
			}

			if err != nil {
				return err
			}
			if failed := result.Failed(); failed > 0 {
				return services.Wrap(services.ErrExternalTool, "ladder", "", fmt.Sprintf("%d of %d rungs failed", failed, result.Len()), nil)
			}
			for _, rr := range result.Rungs {
				if verr := verified[rr.Index]; verr != nil {
					return fmt.Errorf("rung %d: %w", rr.Index, verr)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&codecFlag, "codec", "", "Codec profile id (see `vidladder codecs`)")
	cmd.Flags().StringArrayVar(&rungFlags, "rung", nil, "Rung as <width>:<height>@<bitrate>; repeat to build a custom ladder")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Rungs to encode concurrently (default from ladder.workers)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the ffmpeg command for every rung without running them")
	cmd.Flags().BoolVar(&verify, "verify", false, "Probe each output and check its frame size")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("codec")
	return cmd
}

func printLadderPlan(cmd *cobra.Command, ctx *commandContext, input, codecID string, rungs []ladder.Rung) error {
	conv, err := ctx.converter()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i, rung := range rungs {
		built, err := conv.Builder.Build(transcode.Request{
			InputPath:  input,
			Codec:      codecID,
			Resolution: rung.Resolution,
			Bitrate:    rung.Bitrate,
			Prefix:     transcode.PrefixLadderRung,
		})
		if err != nil {
			return fmt.Errorf("rung %d: %w", i, err)
		}
		fmt.Fprintln(out, built.String())
	}
	return nil
}

func ladderTable(result ladder.Result, verify bool, verified map[int]error) string {
	headers := []string{"#", "Resolution", "Bitrate", "Status", "Output / Message"}
	if verify {
		headers = append(headers, "Verified")
	}
	tbl := newTable(headers...).align(alignRight)
	for _, rr := range result.Rungs {
		status := "ok"
		detail := rr.Result.OutputPath()
		if !rr.OK() {
			status = "failed"
			detail = summaryLine(rr.Message())
		}
		row := []string{strconv.Itoa(rr.Index), rr.Rung.Resolution, rr.Rung.Bitrate, status, detail}
		if verify {
			cell := "-"
			if verr, ok := verified[rr.Index]; ok {
				cell = yesNo(verr == nil)
			}
			row = append(row, cell)
		}
		tbl.add(row...)
	}
	return tbl.render()
}

func buildLadderJSON(runID string, result ladder.Result, verify bool, verified map[int]error) ladderJSON {
	payload := ladderJSON{
		RunID:     runID,
		Input:     result.InputPath,
		Codec:     result.Codec,
		Succeeded: result.Succeeded(),
		Failed:    result.Failed(),
		ElapsedMS: result.Elapsed.Milliseconds(),
		Rungs:     make([]rungJSON, 0, result.Len()),
	}
	for _, rr := range result.Rungs {
		entry := rungJSON{
			Index:      rr.Index,
			Resolution: rr.Rung.Resolution,
			Bitrate:    rr.Rung.Bitrate,
			resultJSON: toResultJSON(rr.Result, rr.Err),
		}
		if verr, ok := verified[rr.Index]; ok && verify {
			v := verr == nil
			entry.Verified = &v
		}
		payload.Rungs = append(payload.Rungs, entry)
	}
	return payload
}
