package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidladder/internal/media/ffprobe"
	"vidladder/internal/params"
	"vidladder/internal/transcode"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var codecFlag, resolutionFlag, bitrateFlag string
	var dryRun, verify, jsonOut bool

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Encode one file at a single resolution and bitrate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			conv, err := ctx.converter()
			if err != nil {
				return err
			}
			req := transcode.Request{
				InputPath:  args[0],
				Codec:      foldCodecID(codecFlag),
				Resolution: resolutionFlag,
				Bitrate:    bitrateFlag,
				Prefix:     transcode.PrefixSingle,
			}

			built, err := conv.Builder.Build(req)
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), built.String())
				return nil
			}

			if err := requireReady(cfg); err != nil {
				return err
			}

			runCtx := ctx.runContext(cmd, "convert")
			var res transcode.Result
			err = withOutputLock(cfg, func() error {
				var runErr error
				res, runErr = conv.Run(runCtx, built)
				return runErr
			})
			ctx.flushMetrics()

			payload := toResultJSON(res, err)
			var verifyErr error
			if err == nil && res.OK() && verify {
				verifyErr = verifyOutput(cmd, ctx, res.OutputPath(), resolutionFlag)
				ok := verifyErr == nil
				payload.Verified = &ok
			}

			if jsonOut {
				if jerr := writeJSON(cmd, payload); jerr != nil {
					return jerr
				}
			} else {
				printConvertResult(cmd, args[0], res, err, verifyErr)
			}

			switch {
			case err != nil:
				return err
			case !res.OK():
				return res.Err()
			default:
				return verifyErr
			}
		},
	}

	cmd.Flags().StringVar(&codecFlag, "codec", "", "Codec profile id (see `vidladder codecs`)")
	cmd.Flags().StringVar(&resolutionFlag, "resolution", "", "Output frame size as <width>:<height>")
	cmd.Flags().StringVar(&bitrateFlag, "bitrate", "", "Video bitrate such as 1000k")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the ffmpeg command without running it")
	cmd.Flags().BoolVar(&verify, "verify", false, "Probe the output and check its frame size")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("codec")
	_ = cmd.MarkFlagRequired("resolution")
	_ = cmd.MarkFlagRequired("bitrate")
	return cmd
}

func printConvertResult(cmd *cobra.Command, input string, res transcode.Result, err, verifyErr error) {
	out := cmd.OutOrStdout()
	switch {
	case err != nil:
		return
	case res.OK():
		fmt.Fprintf(out, "Converted %s -> %s\n", input, res.OutputPath())
		if verifyErr != nil {
			fmt.Fprintf(out, "Verification failed: %v\n", verifyErr)
		}
	default:
		fmt.Fprintf(out, "Conversion failed (status %d):\n%s\n", res.ExitCode(), res.Message())
	}
}

// verifyOutput probes path and checks its frame size against the raw
// resolution the job was built with.
func verifyOutput(cmd *cobra.Command, ctx *commandContext, path, resolution string) error {
	want, err := params.ParseResolution(resolution)
	if err != nil {
		return err
	}
	prober := ffprobe.New(ctx.configValue().Transcoder.ProbeBinary)
	probed, err := prober.Inspect(cmd.Context(), path)
	if err != nil {
		return err
	}
	return probed.CheckResolution(want)
}
