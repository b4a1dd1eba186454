package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"vidladder/internal/media/ffprobe"
)

type probeJSON struct {
	Path            string  `json:"path"`
	Format          string  `json:"format,omitempty"`
	VideoCodec      string  `json:"video_codec,omitempty"`
	Resolution      string  `json:"resolution,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	BitrateKbps     int64   `json:"bitrate_kbps,omitempty"`
	SizeBytes       int64   `json:"size_bytes,omitempty"`
	AudioStreams    int     `json:"audio_streams"`
	Error           string  `json:"error,omitempty"`
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "probe <file>...",
		Short: "Inspect media files with ffprobe",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			prober := ffprobe.New(cfg.Transcoder.ProbeBinary)
			runCtx := ctx.runContext(cmd, "probe")

			items := make([]probeJSON, 0, len(args))
			var firstErr error
			for _, path := range args {
				res, err := prober.Inspect(runCtx, path)
				items = append(items, summarizeProbe(path, res, err))
				if err != nil && firstErr == nil {
					firstErr = err
				}
			}

			if jsonOut {
				if err := writeJSON(cmd, items); err != nil {
					return err
				}
				return firstErr
			}

			tbl := newTable("File", "Format", "Video", "Resolution", "Duration", "Bitrate", "Audio").
				align(alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight)
			for _, item := range items {
				if item.Error != "" {
					tbl.add(item.Path, "error: "+item.Error)
					continue
				}
				tbl.add(
					item.Path,
					item.Format,
					item.VideoCodec,
					item.Resolution,
					fmt.Sprintf("%.1fs", item.DurationSeconds),
					strconv.FormatInt(item.BitrateKbps, 10)+"k",
					strconv.Itoa(item.AudioStreams),
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl.render())
			return firstErr
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func summarizeProbe(path string, res ffprobe.Result, err error) probeJSON {
	if err != nil {
		return probeJSON{Path: path, Error: err.Error()}
	}
	item := probeJSON{
		Path:         path,
		Format:       res.Format.FormatName,
		Resolution:   res.Resolution(),
		BitrateKbps:  res.BitRateKbps(),
		SizeBytes:    res.SizeBytes(),
		AudioStreams: res.AudioStreamCount(),
	}
	if d := res.DurationSeconds(); !math.IsNaN(d) {
		item.DurationSeconds = d
	}
	if v, ok := res.VideoStream(); ok {
		item.VideoCodec = v.CodecName
	}
	return item
}
